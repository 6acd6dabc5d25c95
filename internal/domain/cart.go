package domain

import (
	"time"

	"github.com/google/uuid"
)

type Cart struct {
	Owner Owner
	Lines []CartLine
}

type CartLine struct {
	ID        uuid.UUID
	ProductID uuid.UUID
	Quantity  int

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Quantity is the sum of all line quantities.
func (c Cart) Quantity() int {
	total := 0
	for _, l := range c.Lines {
		total += l.Quantity
	}
	return total
}

// Notice is a human-readable adjustment made to a cart while re-validating it.
type Notice struct {
	ProductID uuid.UUID `json:"product_id"`
	Message   string    `json:"message"`
}

// QuotedLine is a cart line joined with the product it refers to.
type QuotedLine struct {
	LineID    uuid.UUID
	Product   Product
	Quantity  int
	UnitPrice Money
	LineTotal Money
}

type CartQuote struct {
	Owner   Owner
	Lines   []QuotedLine
	Pricing PricingResult
	Notices []Notice
}
