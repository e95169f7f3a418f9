package recommend

import (
	"github.com/TaiNguyen1-git/construction-materials-store-sub003/internal/models"
)

// CombineScores blends a CF-derived candidate list with a rule-based one.
// A product present in both lists scores mlWeight*mlScore + ruleWeight*ruleScore
// with its reasons concatenated; a product present in only one list keeps that
// list's weighted contribution and is never penalized for absence in the other.
func CombineScores(ml, rule []models.ProductScore, mlWeight, ruleWeight float64) []models.ProductScore {
	type blended struct {
		score  float64
		reason string
		method models.ScoreMethod
		order  int
	}

	combined := make(map[string]*blended, len(ml)+len(rule))
	next := 0

	for _, s := range ml {
		combined[s.ProductID] = &blended{
			score:  s.Score * mlWeight,
			reason: s.Reason,
			method: s.Method,
			order:  next,
		}
		next++
	}

	for _, s := range rule {
		if b, ok := combined[s.ProductID]; ok {
			b.score += s.Score * ruleWeight
			if s.Reason != "" && s.Reason != b.reason {
				b.reason += " + " + s.Reason
			}
			b.method = models.MethodHybrid
			continue
		}
		combined[s.ProductID] = &blended{
			score:  s.Score * ruleWeight,
			reason: s.Reason,
			method: s.Method,
			order:  next,
		}
		next++
	}

	// Preserve insertion order before the final score sort so equal scores
	// keep a deterministic ordering.
	ordered := make([]string, len(combined))
	for id, b := range combined {
		ordered[b.order] = id
	}

	scores := make([]models.ProductScore, 0, len(combined))
	for _, id := range ordered {
		b := combined[id]
		scores = append(scores, models.ProductScore{
			ProductID: id,
			Score:     b.score,
			Reason:    b.reason,
			Method:    b.method,
		})
	}

	sortScores(scores)
	return scores
}
