package dispatch

import (
	"math"
	"sort"

	"service-dispatch/internal/domain"
)

// Weights control how much each score component contributes. They are applied
// as-is, without normalization.
type Weights struct {
	Distance     float64
	Rating       float64
	Experience   float64
	Availability float64
}

// experienceCeiling is the delivery count at which experience saturates at 1.
const experienceCeiling = 1000

// Score computes the weighted breakdown for one candidate. Closer couriers
// score higher via 1/(1+d); experience grows logarithmically and saturates at
// the ceiling; availability is constant because the search already filtered
// unavailable couriers out.
func Score(c domain.Candidate, w Weights) domain.ScoreBreakdown {
	b := domain.ScoreBreakdown{
		DistanceScore:     1 / (1 + c.DistanceKm),
		RatingScore:       c.RatingAvg / 5,
		ExperienceScore:   math.Min(1, math.Log(float64(c.TotalDeliveries)+1)/math.Log(experienceCeiling)),
		AvailabilityScore: 1,
	}
	b.Final = round4(
		w.Distance*b.DistanceScore +
			w.Rating*b.RatingScore +
			w.Experience*b.ExperienceScore +
			w.Availability*b.AvailabilityScore,
	)
	return b
}

// Rank scores all candidates and orders them best first. Equal final scores
// break toward the lower courier id so repeated runs over the same input pick
// the same courier.
func Rank(cands []domain.Candidate, w Weights) []domain.ScoredCandidate {
	out := make([]domain.ScoredCandidate, 0, len(cands))
	for _, c := range cands {
		out = append(out, domain.ScoredCandidate{Candidate: c, Breakdown: Score(c, w)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Breakdown.Final != out[j].Breakdown.Final {
			return out[i].Breakdown.Final > out[j].Breakdown.Final
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func round4(x float64) float64 {
	return math.Round(x*10000) / 10000
}
