package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/nikolayk812/storefront/internal/db"
	"github.com/nikolayk812/storefront/internal/domain"
	"golang.org/x/text/currency"
)

type catalogRepository struct {
	q *db.Queries
}

func (r *catalogRepository) GetProduct(ctx context.Context, id uuid.UUID) (domain.Product, error) {
	return getProduct(ctx, r.q, id)
}

func (r *catalogRepository) IsAvailable(ctx context.Context, id uuid.UUID, quantity int) (bool, error) {
	product, err := getProduct(ctx, r.q, id)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return product.IsAvailable(quantity), nil
}

func (r *catalogRepository) UpsertProduct(ctx context.Context, product domain.Product) error {
	if product.ID == uuid.Nil {
		return fmt.Errorf("product ID is empty")
	}
	qty, err := toInt32(product.StockQuantity)
	if err != nil {
		return err
	}

	status := product.StockStatus
	if status == "" {
		status = domain.StockStatusInStock
	}

	err = r.q.UpsertProduct(ctx, db.UpsertProductParams{
		ID:              product.ID,
		Name:            product.Name,
		Sku:             product.SKU,
		PriceAmount:     product.Price.Amount,
		PriceCurrency:   product.Price.Currency.String(),
		SalePriceAmount: nullDecimal(product.SalePrice),
		StockQuantity:   qty,
		StockStatus:     string(status),
		ManageStock:     product.ManageStock,
		IsActive:        product.Active,
	})
	if err != nil {
		return fmt.Errorf("q.UpsertProduct: %w", err)
	}

	return nil
}

// stockLedger decrements with a single conditional UPDATE, so the availability check and
// the write can not interleave with another checkout.
type stockLedger struct {
	q *db.Queries
}

func (l *stockLedger) TryReserve(ctx context.Context, productID uuid.UUID, quantity int) (bool, error) {
	if quantity < 1 {
		return false, fmt.Errorf("quantity must be positive")
	}
	qty, err := toInt32(quantity)
	if err != nil {
		return false, err
	}

	rowsAffected, err := l.q.ReserveStock(ctx, db.ReserveStockParams{Quantity: qty, ID: productID})
	if err != nil {
		return false, fmt.Errorf("q.ReserveStock: %w", err)
	}
	if rowsAffected == 1 {
		return true, nil
	}

	product, err := getProduct(ctx, l.q, productID)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	// products without stock tracking are never decremented
	return !product.ManageStock, nil
}

func (l *stockLedger) Release(ctx context.Context, productID uuid.UUID, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("quantity must be positive")
	}
	qty, err := toInt32(quantity)
	if err != nil {
		return err
	}

	rowsAffected, err := l.q.ReleaseStock(ctx, db.ReleaseStockParams{Quantity: qty, ID: productID})
	if err != nil {
		return fmt.Errorf("q.ReleaseStock: %w", err)
	}
	if rowsAffected == 1 {
		return nil
	}

	if _, err := getProduct(ctx, l.q, productID); err != nil {
		return err
	}

	return nil
}

func getProduct(ctx context.Context, q *db.Queries, id uuid.UUID) (domain.Product, error) {
	row, err := q.GetProduct(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Product{}, fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Product{}, fmt.Errorf("q.GetProduct: %w", err)
	}

	product, err := mapProductToDomain(row)
	if err != nil {
		return domain.Product{}, fmt.Errorf("mapProductToDomain: %w", err)
	}

	return product, nil
}

func mapProductToDomain(row db.Product) (domain.Product, error) {
	parsedCurrency, err := currency.ParseISO(strings.TrimSpace(row.PriceCurrency))
	if err != nil {
		return domain.Product{}, fmt.Errorf("currency[%s] is not valid: %w", row.PriceCurrency, err)
	}

	return domain.Product{
		ID:            row.ID,
		Name:          row.Name,
		SKU:           row.Sku,
		Price:         domain.Money{Amount: row.PriceAmount, Currency: parsedCurrency},
		SalePrice:     decimalPtr(row.SalePriceAmount),
		StockQuantity: int(row.StockQuantity),
		StockStatus:   domain.StockStatus(row.StockStatus),
		ManageStock:   row.ManageStock,
		Active:        row.IsActive,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}, nil
}
