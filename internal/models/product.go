package models

import (
	"time"
)

// Product represents a construction-materials catalog entry.
type Product struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	CategoryID   string    `json:"category_id"`
	CategoryName string    `json:"category_name,omitempty"`
	Price        float64   `json:"price"`
	Unit         string    `json:"unit,omitempty"` // e.g. "bag", "m3", "ton"
	Images       []string  `json:"images,omitempty"`
	Stock        int       `json:"stock"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Category groups products for content-based fallback scoring.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ProductActivity aggregates a product's recent order activity, used for
// popularity scoring over a trailing window.
type ProductActivity struct {
	ProductID     string `json:"product_id"`
	OrderCount    int    `json:"order_count"`
	TotalQuantity int    `json:"total_quantity"`
}
