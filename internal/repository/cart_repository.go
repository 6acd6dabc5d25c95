package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/nikolayk812/storefront/internal/db"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
)

type cartRepository struct {
	q *db.Queries
}

func (r *cartRepository) GetCart(ctx context.Context, owner domain.Owner) (domain.Cart, error) {
	if err := owner.Validate(); err != nil {
		return domain.Cart{}, err
	}

	userID, sessionID := ownerParams(owner)
	rows, err := r.q.GetCart(ctx, db.GetCartParams{UserID: userID, SessionID: sessionID})
	if err != nil {
		return domain.Cart{}, fmt.Errorf("q.GetCart: %w", err)
	}

	lines := make([]domain.CartLine, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, mapCartRowToDomain(row))
	}

	return domain.Cart{
		Owner: owner,
		Lines: lines,
	}, nil
}

// GetCartForUpdate reads the cart and locks its lines until the transaction ends.
func (r *cartRepository) GetCartForUpdate(ctx context.Context, owner domain.Owner) (domain.Cart, error) {
	if err := owner.Validate(); err != nil {
		return domain.Cart{}, err
	}

	userID, sessionID := ownerParams(owner)
	rows, err := r.q.GetCartForUpdate(ctx, db.GetCartForUpdateParams{UserID: userID, SessionID: sessionID})
	if err != nil {
		return domain.Cart{}, fmt.Errorf("q.GetCartForUpdate: %w", err)
	}

	lines := make([]domain.CartLine, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, mapCartRowToDomain(db.GetCartRow(row)))
	}

	return domain.Cart{
		Owner: owner,
		Lines: lines,
	}, nil
}

func (r *cartRepository) GetLine(ctx context.Context, owner domain.Owner, lineID uuid.UUID) (domain.CartLine, error) {
	if err := owner.Validate(); err != nil {
		return domain.CartLine{}, err
	}

	userID, sessionID := ownerParams(owner)
	row, err := r.q.GetCartLine(ctx, db.GetCartLineParams{ID: lineID, UserID: userID, SessionID: sessionID})
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.CartLine{}, fmt.Errorf("cart line %s: %w", lineID, domain.ErrNotFound)
	}
	if err != nil {
		return domain.CartLine{}, fmt.Errorf("q.GetCartLine: %w", err)
	}

	return mapCartRowToDomain(db.GetCartRow(row)), nil
}

// GetLineByProduct locks the line it returns, so a read-modify-write of its quantity
// serializes with concurrent adds.
func (r *cartRepository) GetLineByProduct(ctx context.Context, owner domain.Owner, productID uuid.UUID) (domain.CartLine, error) {
	if err := owner.Validate(); err != nil {
		return domain.CartLine{}, err
	}

	userID, sessionID := ownerParams(owner)
	row, err := r.q.GetCartLineByProduct(ctx, db.GetCartLineByProductParams{ProductID: productID, UserID: userID, SessionID: sessionID})
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.CartLine{}, fmt.Errorf("cart line for product %s: %w", productID, domain.ErrNotFound)
	}
	if err != nil {
		return domain.CartLine{}, fmt.Errorf("q.GetCartLineByProduct: %w", err)
	}

	return mapCartRowToDomain(db.GetCartRow(row)), nil
}

func (r *cartRepository) InsertLine(ctx context.Context, owner domain.Owner, productID uuid.UUID, quantity int) (domain.CartLine, error) {
	if err := owner.Validate(); err != nil {
		return domain.CartLine{}, err
	}
	qty, err := toInt32(quantity)
	if err != nil {
		return domain.CartLine{}, err
	}

	userID, sessionID := ownerParams(owner)
	row, err := r.q.InsertCartLine(ctx, db.InsertCartLineParams{
		ID:        uuid.New(),
		UserID:    userID,
		SessionID: sessionID,
		ProductID: productID,
		Quantity:  qty,
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.CartLine{}, port.ErrLineExists
	}
	if err != nil {
		return domain.CartLine{}, fmt.Errorf("q.InsertCartLine: %w", err)
	}

	return mapCartRowToDomain(db.GetCartRow(row)), nil
}

func (r *cartRepository) SetQuantity(ctx context.Context, owner domain.Owner, lineID uuid.UUID, quantity int) error {
	if err := owner.Validate(); err != nil {
		return err
	}
	qty, err := toInt32(quantity)
	if err != nil {
		return err
	}

	userID, sessionID := ownerParams(owner)
	rowsAffected, err := r.q.UpdateCartLineQuantity(ctx, db.UpdateCartLineQuantityParams{
		Quantity:  qty,
		ID:        lineID,
		UserID:    userID,
		SessionID: sessionID,
	})
	if err != nil {
		return fmt.Errorf("q.UpdateCartLineQuantity: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("cart line %s: %w", lineID, domain.ErrNotFound)
	}

	return nil
}

func (r *cartRepository) DeleteLine(ctx context.Context, owner domain.Owner, lineID uuid.UUID) (bool, error) {
	if err := owner.Validate(); err != nil {
		return false, err
	}

	userID, sessionID := ownerParams(owner)
	rowsAffected, err := r.q.DeleteCartLine(ctx, db.DeleteCartLineParams{ID: lineID, UserID: userID, SessionID: sessionID})
	if err != nil {
		return false, fmt.Errorf("q.DeleteCartLine: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *cartRepository) Clear(ctx context.Context, owner domain.Owner) (int64, error) {
	if err := owner.Validate(); err != nil {
		return 0, err
	}

	userID, sessionID := ownerParams(owner)
	rowsAffected, err := r.q.ClearCart(ctx, db.ClearCartParams{UserID: userID, SessionID: sessionID})
	if err != nil {
		return 0, fmt.Errorf("q.ClearCart: %w", err)
	}

	return rowsAffected, nil
}

func (r *cartRepository) Count(ctx context.Context, owner domain.Owner) (int, error) {
	if err := owner.Validate(); err != nil {
		return 0, err
	}

	userID, sessionID := ownerParams(owner)
	count, err := r.q.CountCartItems(ctx, db.CountCartItemsParams{UserID: userID, SessionID: sessionID})
	if err != nil {
		return 0, fmt.Errorf("q.CountCartItems: %w", err)
	}

	return int(count), nil
}

func mapCartRowToDomain(row db.GetCartRow) domain.CartLine {
	return domain.CartLine{
		ID:        row.ID,
		ProductID: row.ProductID,
		Quantity:  int(row.Quantity),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
