package models

import (
	"fmt"
	"strings"
)

const (
	RoleUser  = "user"
	RoleModel = "model"
)

// HighRatingThreshold marks the rating above which a candidate gets a
// dedicated highlight in the prompt listing.
const HighRatingThreshold = 4.0

// Candidate is a restaurant record pre-filtered by the caller and eligible
// for recommendation. It is never persisted; it lives for one request.
type Candidate struct {
	ID             uint64   `json:"id"`
	Name           string   `json:"name"`
	Address        string   `json:"address"`
	AvgPriceForTwo float64  `json:"avg_price_for_two"`
	Description    string   `json:"description"`
	Tags           []string `json:"tags,omitempty"`
	Discount       string   `json:"discount,omitempty"`
	Rating         *float64 `json:"rating,omitempty"`
	ServesAlcohol  *bool    `json:"serves_alcohol,omitempty"`
	Featured       *bool    `json:"featured,omitempty"`
	DeliveryTime   string   `json:"delivery_time,omitempty"`
	CuisineType    string   `json:"cuisine_type,omitempty"`
}

// Stringify renders the single prompt line for a candidate.
func (c *Candidate) Stringify() string {
	cuisine := c.CuisineType
	if cuisine == "" {
		cuisine = "varied"
	}

	tags := "no specific tags"
	if len(c.Tags) > 0 {
		tags = strings.Join(c.Tags, ", ")
	}

	line := fmt.Sprintf(
		"ID: %d | Nombre: %s | Cocina: %s | Precio promedio para dos: %.2f | Etiquetas: %s",
		c.ID, c.Name, cuisine, c.AvgPriceForTwo, tags,
	)

	if features := c.Features(); len(features) > 0 {
		line += " | Destacados: " + strings.Join(features, ", ")
	}

	line += " | Dirección: " + c.Address

	if c.Description != "" {
		line += " | Descripción: " + c.Description
	}

	return line
}

// Features collects the optional highlight clauses for a candidate. Each
// clause appears only when the backing field is present.
func (c *Candidate) Features() []string {
	var features []string

	if c.Rating != nil && *c.Rating >= HighRatingThreshold {
		features = append(features, fmt.Sprintf("calificación sobresaliente (%.1f)", *c.Rating))
	}
	if c.Featured != nil && *c.Featured {
		features = append(features, "destacado en Dine-Out")
	}
	if c.ServesAlcohol != nil && *c.ServesAlcohol {
		features = append(features, "sirve alcohol")
	}
	if c.DeliveryTime != "" {
		features = append(features, "entrega a domicilio en "+c.DeliveryTime)
	}
	if c.Discount != "" {
		features = append(features, "promoción: "+c.Discount)
	}

	return features
}

// HistoryTurn is one prior turn of the conversation, replayed verbatim to
// the model.
type HistoryTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
