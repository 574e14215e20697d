package rank

import "leadgen-engine/internal/domain"

type Scorer interface {
	Score(lead domain.Lead) (score int, features Features)
}

// Weights are kept in hundredths so the weighted sum stays exact.
type Weights struct {
	CompanyNameLength  int
	WebsiteExists      int
	IndustryScore      int
	LocationScore      int
	EmployeeCountScore int
	ContactInfoScore   int
	DomainQuality      int
}

// DefaultWeights sum to 100.
var DefaultWeights = Weights{
	CompanyNameLength:  5,
	WebsiteExists:      15,
	IndustryScore:      20,
	LocationScore:      15,
	EmployeeCountScore: 20,
	ContactInfoScore:   15,
	DomainQuality:      10,
}

func (w Weights) Sum() int {
	return w.CompanyNameLength + w.WebsiteExists + w.IndustryScore + w.LocationScore +
		w.EmployeeCountScore + w.ContactInfoScore + w.DomainQuality
}

type WeightedScorer struct {
	Weights Weights
}

func NewWeightedScorer() WeightedScorer {
	return WeightedScorer{Weights: DefaultWeights}
}

func (s WeightedScorer) Score(lead domain.Lead) (int, Features) {
	f := Extract(lead)
	return Combine(f, s.Weights), f
}

// MaxScore caps a combined score. Only companyNameLength is unbounded, so
// names past roughly 1,830 runes hit the cap instead of exceeding it.
const MaxScore = 100

// Combine returns round-half-up(Σ feature*weight/100), capped at MaxScore.
func Combine(f Features, w Weights) int {
	total := f.CompanyNameLength*w.CompanyNameLength +
		f.WebsiteExists*w.WebsiteExists +
		f.IndustryScore*w.IndustryScore +
		f.LocationScore*w.LocationScore +
		f.EmployeeCountScore*w.EmployeeCountScore +
		f.ContactInfoScore*w.ContactInfoScore +
		f.DomainQuality*w.DomainQuality
	return min((total+50)/100, MaxScore)
}
