package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type Config struct {
	Port                 string
	DatabaseUser         string
	DatabasePassword     string
	DatabaseHost         string
	DatabasePort         string
	DatabaseName         string
	DatabaseSSLMode      string
	SearchAPIBaseURL     string // base URL of the AI search backend
	SearchAPIKey         string
	StripeKey            string // stripe secret API key
	StripeEndpointSecret string // stripe endpoint webhook secret token
	StripePublishableKey string // stripe publishable API key
	EmailAPIKey          string
	AdminEmail           string
	MachineToken         string // shared secret for scheduled task triggers
	SupportEmail         string // displayed for support queries
	NoReplyEmail         string // used for transactional emails
	SessionKey           []byte
	JwtSigningKey        []byte
	SentryDSN            string
	IPGeoLocationAPIKey  string
	IPGeoLocationURI     string
	Env                  string // either prod or dev, disables https and a few other bits
	SiteName             string
	SiteHost             string
	URLProtocol          string
	RecruitersPerPage    int // how many recruiter results are shown per page
	PlanMonthlyPrice     int // price in cents
	PlanQuarterlyPrice   int // price in cents
	PlanAnnualPrice      int // price in cents
}

func LoadConfig() (Config, error) {
	port := os.Getenv("PORT")
	if port == "" {
		return Config{}, fmt.Errorf("PORT cannot be empty")
	}
	databaseUser := os.Getenv("DATABASE_USER")
	if databaseUser == "" {
		return Config{}, fmt.Errorf("DATABASE_USER cannot be empty")
	}
	databasePassword := os.Getenv("DATABASE_PASSWORD")
	if databasePassword == "" {
		return Config{}, fmt.Errorf("DATABASE_PASSWORD cannot be empty")
	}
	databaseHost := os.Getenv("DATABASE_HOST")
	if databaseHost == "" {
		return Config{}, fmt.Errorf("DATABASE_HOST cannot be empty")
	}
	databasePort := os.Getenv("DATABASE_PORT")
	if databasePort == "" {
		return Config{}, fmt.Errorf("DATABASE_PORT cannot be empty")
	}
	databaseName := os.Getenv("DATABASE_NAME")
	if databaseName == "" {
		return Config{}, fmt.Errorf("DATABASE_NAME cannot be empty")
	}
	databaseSSLMode := os.Getenv("DATABASE_SSL_MODE")
	if databaseSSLMode == "" {
		return Config{}, fmt.Errorf("DATABASE_SSL_MODE cannot be empty")
	}
	searchAPIBaseURL := os.Getenv("SEARCH_API_BASE_URL")
	if searchAPIBaseURL == "" {
		return Config{}, fmt.Errorf("SEARCH_API_BASE_URL cannot be empty")
	}
	searchAPIKey := os.Getenv("SEARCH_API_KEY")
	if searchAPIKey == "" {
		return Config{}, fmt.Errorf("SEARCH_API_KEY cannot be empty")
	}
	stripeKey := os.Getenv("STRIPE_KEY")
	if stripeKey == "" {
		return Config{}, fmt.Errorf("STRIPE_KEY cannot be empty")
	}
	stripeEndpointSecret := os.Getenv("STRIPE_ENDPOINT_SECRET")
	if stripeEndpointSecret == "" {
		return Config{}, fmt.Errorf("STRIPE_ENDPOINT_SECRET cannot be empty")
	}
	stripePublishableKey := os.Getenv("STRIPE_PUBLISHABLE_KEY")
	if stripePublishableKey == "" {
		return Config{}, fmt.Errorf("STRIPE_PUBLISHABLE_KEY cannot be empty")
	}
	emailAPIKey := os.Getenv("EMAIL_API_KEY")
	if emailAPIKey == "" {
		return Config{}, fmt.Errorf("EMAIL_API_KEY cannot be empty")
	}
	env := strings.ToLower(os.Getenv("ENV"))
	if env == "" {
		return Config{}, fmt.Errorf("ENV cannot be empty")
	}
	sessionKeyString := os.Getenv("SESSION_KEY")
	if sessionKeyString == "" {
		return Config{}, fmt.Errorf("SESSION_KEY cannot be empty")
	}
	sessionKeyBytes, err := base64.StdEncoding.DecodeString(sessionKeyString)
	if err != nil {
		return Config{}, errors.Wrapf(err, "unable to decode session key to bytes")
	}
	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		return Config{}, fmt.Errorf("JWT_SIGNING_KEY cannot be empty")
	}
	jwtSigningKeyBytes, err := base64.StdEncoding.DecodeString(jwtSigningKey)
	if err != nil {
		return Config{}, errors.Wrapf(err, "unable to decode jwt signing key to bytes")
	}
	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		return Config{}, fmt.Errorf("ADMIN_EMAIL cannot be empty")
	}
	machineToken := os.Getenv("MACHINE_TOKEN")
	if machineToken == "" {
		return Config{}, fmt.Errorf("MACHINE_TOKEN cannot be empty")
	}
	supportEmail := os.Getenv("SUPPORT_EMAIL")
	if supportEmail == "" {
		return Config{}, fmt.Errorf("SUPPORT_EMAIL cannot be empty")
	}
	noReplyEmail := os.Getenv("NO_REPLY_EMAIL")
	if noReplyEmail == "" {
		return Config{}, fmt.Errorf("NO_REPLY_EMAIL cannot be empty")
	}
	ipGeoLocationAPIKey := os.Getenv("IP_GEOLOCATION_API_KEY")
	if ipGeoLocationAPIKey == "" {
		return Config{}, fmt.Errorf("IP_GEOLOCATION_API_KEY cannot be empty")
	}
	ipGeoLocationURI := os.Getenv("IP_GEOLOCATION_CURRENCY_API_URI")
	if ipGeoLocationURI == "" {
		return Config{}, fmt.Errorf("IP_GEOLOCATION_CURRENCY_API_URI cannot be empty")
	}
	siteName := os.Getenv("SITE_NAME")
	if siteName == "" {
		return Config{}, fmt.Errorf("SITE_NAME cannot be empty")
	}
	siteHost := os.Getenv("SITE_HOST")
	if siteHost == "" {
		return Config{}, fmt.Errorf("SITE_HOST cannot be empty")
	}
	sentryDSN := os.Getenv("SENTRY_DSN")
	planMonthlyPriceStr := os.Getenv("PLAN_MONTHLY_PRICE")
	if planMonthlyPriceStr == "" {
		return Config{}, fmt.Errorf("PLAN_MONTHLY_PRICE cannot be empty")
	}
	planMonthlyPrice, err := strconv.Atoi(planMonthlyPriceStr)
	if err != nil {
		return Config{}, fmt.Errorf("could not convert ascii to int: %v", err)
	}
	planQuarterlyPriceStr := os.Getenv("PLAN_QUARTERLY_PRICE")
	if planQuarterlyPriceStr == "" {
		return Config{}, fmt.Errorf("PLAN_QUARTERLY_PRICE cannot be empty")
	}
	planQuarterlyPrice, err := strconv.Atoi(planQuarterlyPriceStr)
	if err != nil {
		return Config{}, fmt.Errorf("could not convert ascii to int: %v", err)
	}
	planAnnualPriceStr := os.Getenv("PLAN_ANNUAL_PRICE")
	if planAnnualPriceStr == "" {
		return Config{}, fmt.Errorf("PLAN_ANNUAL_PRICE cannot be empty")
	}
	planAnnualPrice, err := strconv.Atoi(planAnnualPriceStr)
	if err != nil {
		return Config{}, fmt.Errorf("could not convert ascii to int: %v", err)
	}
	urlProtocol := "http://"
	if !strings.EqualFold(env, "dev") {
		urlProtocol = "https://"
	}

	return Config{
		Port:                 port,
		DatabaseUser:         databaseUser,
		DatabasePassword:     databasePassword,
		DatabaseHost:         databaseHost,
		DatabasePort:         databasePort,
		DatabaseName:         databaseName,
		DatabaseSSLMode:      databaseSSLMode,
		SearchAPIBaseURL:     searchAPIBaseURL,
		SearchAPIKey:         searchAPIKey,
		StripeKey:            stripeKey,
		StripeEndpointSecret: stripeEndpointSecret,
		StripePublishableKey: stripePublishableKey,
		EmailAPIKey:          emailAPIKey,
		AdminEmail:           adminEmail,
		MachineToken:         machineToken,
		SupportEmail:         supportEmail,
		NoReplyEmail:         noReplyEmail,
		SessionKey:           sessionKeyBytes,
		JwtSigningKey:        jwtSigningKeyBytes,
		SentryDSN:            sentryDSN,
		IPGeoLocationAPIKey:  ipGeoLocationAPIKey,
		IPGeoLocationURI:     ipGeoLocationURI,
		Env:                  env,
		SiteName:             siteName,
		SiteHost:             siteHost,
		URLProtocol:          urlProtocol,
		RecruitersPerPage:    10,
		PlanMonthlyPrice:     planMonthlyPrice,
		PlanQuarterlyPrice:   planQuarterlyPrice,
		PlanAnnualPrice:      planAnnualPrice,
	}, nil
}
