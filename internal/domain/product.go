package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type StockStatus string

const (
	StockStatusInStock    StockStatus = "in_stock"
	StockStatusOutOfStock StockStatus = "out_of_stock"
)

type Product struct {
	ID            uuid.UUID
	Name          string
	SKU           string
	Price         Money
	SalePrice     *decimal.Decimal
	StockQuantity int
	StockStatus   StockStatus
	ManageStock   bool
	Active        bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// UnitPrice is the sale price when present and lower than the regular price.
func (p Product) UnitPrice() decimal.Decimal {
	if p.SalePrice != nil && p.SalePrice.LessThan(p.Price.Amount) {
		return *p.SalePrice
	}
	return p.Price.Amount
}

// IsAvailable reports whether quantity units can be sold right now.
func (p Product) IsAvailable(quantity int) bool {
	if !p.Active {
		return false
	}
	if !p.ManageStock {
		return p.StockStatus == StockStatusInStock
	}
	return p.StockQuantity >= quantity
}
