package insights

import (
	"math"

	"github.com/aclements/go-moremath/stats"
	"github.com/careerdeck/careerdeck/internal/listing"
)

// Summary describes how well the current batch of postings matches the
// user's profile.
type Summary struct {
	Count         int     `json:"count"`
	Scored        int     `json:"scored"`
	P10           float64 `json:"p10"`
	P50           float64 `json:"p50"`
	P90           float64 `json:"p90"`
	Mean          float64 `json:"mean"`
	StdDev        float64 `json:"stdDev"`
	TopCompanies  []string `json:"topCompanies,omitempty"`
	UnknownAgePct float64 `json:"unknownAgePct"`
}

// Compute summarises relevance scores across the postings. Postings
// without any score are counted but excluded from the distribution.
func Compute(postings []listing.Posting) Summary {
	out := Summary{Count: len(postings)}
	if len(postings) == 0 {
		return out
	}
	var sample stats.Sample
	unknownAge := 0
	companySeen := map[string]bool{}
	for _, p := range postings {
		if p.MatchScore != nil || p.CombinedScore != nil {
			sample.Xs = append(sample.Xs, p.RelevanceScore())
		}
		if listing.AgeInDays(p.PostedRecency) == listing.UnknownAge {
			unknownAge++
		}
		if !companySeen[p.Company] && len(out.TopCompanies) < 3 {
			companySeen[p.Company] = true
			out.TopCompanies = append(out.TopCompanies, p.Company)
		}
	}
	out.Scored = len(sample.Xs)
	out.UnknownAgePct = round2(float64(unknownAge) / float64(len(postings)) * 100)
	if out.Scored == 0 {
		return out
	}
	out.P10 = round2(sample.Quantile(0.1))
	out.P50 = round2(sample.Quantile(0.5))
	out.P90 = round2(sample.Quantile(0.9))
	out.Mean = round2(sample.Mean())
	out.StdDev = round2(sample.StdDev())
	return out
}

func round2(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Round(v*100) / 100
}
