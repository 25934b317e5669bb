package model

import (
	"time"

	"github.com/google/uuid"
)

// Portion is the serving size of a menu item.
type Portion string

const (
	PortionFull    Portion = "Full"
	PortionHalf    Portion = "Half"
	PortionRegular Portion = "Regular"
	PortionJumbo   Portion = "Jumbo"
)

// Valid reports whether p is one of the known portions.
func (p Portion) Valid() bool {
	switch p {
	case PortionFull, PortionHalf, PortionRegular, PortionJumbo:
		return true
	}
	return false
}

// MenuItem represents a dish on the menu.
type MenuItem struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Price     float64   `json:"price" db:"price"`
	Category  string    `json:"category" db:"category"`
	Portion   Portion   `json:"portion" db:"portion"`
	Veg       bool      `json:"veg" db:"veg"`
	Available bool      `json:"available" db:"available"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// MenuItemRequest is the payload for creating or updating a menu item.
// Price accepts a JSON number or a numeric string.
type MenuItemRequest struct {
	ID        *uuid.UUID `json:"id,omitempty"`
	Name      string     `json:"name"`
	Price     Price      `json:"price"`
	Category  string     `json:"category"`
	Portion   Portion    `json:"portion,omitempty"`
	Veg       bool       `json:"veg"`
	Available *bool      `json:"available,omitempty"`
}

// LineItem returns the snapshot of the item stored on an order line.
func (m MenuItem) LineItem() LineItem {
	veg := m.Veg
	return LineItem{
		MenuItemID: m.ID.String(),
		Name:       m.Name,
		Price:      m.Price,
		Category:   m.Category,
		Portion:    m.Portion,
		Veg:        &veg,
	}
}
