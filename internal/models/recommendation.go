package models

import (
	"time"
)

// ScoreMethod identifies which strategy produced a product score.
type ScoreMethod string

const (
	MethodCollaborative ScoreMethod = "collaborative"
	MethodContent       ScoreMethod = "content"
	MethodAssociation   ScoreMethod = "association"
	MethodPopularity    ScoreMethod = "popularity"
	MethodHybrid        ScoreMethod = "hybrid"
)

// ProductScore is one scored recommendation candidate. Scores are intended to
// land in roughly [0, 1] before blending, but are not strictly bounded.
type ProductScore struct {
	ProductID string      `json:"product_id"`
	Score     float64     `json:"score"`
	Reason    string      `json:"reason"`
	Method    ScoreMethod `json:"method"`
}

// RecommendedProduct is a score enriched with catalog metadata, ready for
// direct rendering by the storefront.
type RecommendedProduct struct {
	Product `json:"product"`
	Score   float64     `json:"score"`
	Reason  string      `json:"reason"`
	Method  ScoreMethod `json:"method"`
}

// TrainStats summarizes a collaborative-filtering index rebuild.
type TrainStats struct {
	Orders          int       `json:"orders"`
	Products        int       `json:"products"`
	CoPurchasePairs int       `json:"co_purchase_pairs"`
	Categories      int       `json:"categories"`
	TrainedAt       time.Time `json:"trained_at"`
	Duration        string    `json:"duration"`
}
