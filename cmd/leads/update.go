package main

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/careerdeck/careerdeck/internal/config"
	"github.com/careerdeck/careerdeck/internal/database"
	"github.com/careerdeck/careerdeck/internal/recruiter"

	"github.com/PuerkitoBio/goquery"
)

// Enriches saved recruiter leads by scraping their company site for a
// LinkedIn profile link. Meant to run on a schedule.
func main() {
	log.Println("enriching recruiter leads from company pages")
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("unable to load config %v", err)
	}
	conn, err := database.GetDbConn(cfg.DatabaseUser, cfg.DatabasePassword, cfg.DatabaseHost, cfg.DatabasePort, cfg.DatabaseName, cfg.DatabaseSSLMode)
	if err != nil {
		log.Fatalf("unable to connect to postgres: %v", err)
	}
	defer database.CloseDbConn(conn)

	leadRepo := recruiter.NewRepository(conn)

	leads, err := leadRepo.LeadsMissingLinkedIn()
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("found %d leads without a linkedin profile...\n", len(leads))
	for _, lead := range leads {
		linkedin, err := linkedinFromCompanyPage(lead.CompanyURL)
		if err != nil {
			log.Println(err)
			continue
		}
		if linkedin == "" {
			continue
		}
		if err := leadRepo.UpdateLeadLinkedIn(lead.ID, linkedin); err != nil {
			log.Println(err)
			continue
		}
		log.Printf("%s (%s): %s\n", lead.Name, lead.Company, linkedin)
	}
}

// linkedinFromCompanyPage returns the last linkedin.com link found on the
// page, or empty when none is present. The response body is closed before
// the next lead is processed.
func linkedinFromCompanyPage(pageURL string) (string, error) {
	res, err := http.Get(pageURL)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()
	if res.StatusCode != 200 {
		return "", fmt.Errorf("GET %s: status code error: %d %s", pageURL, res.StatusCode, res.Status)
	}
	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return "", err
	}
	linkedin := ""
	doc.Find("a").Each(func(i int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok && strings.Contains(href, "linkedin.com/") {
			linkedin = href
		}
	})
	return linkedin, nil
}
