package port

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
)

// ErrLineExists is returned by InsertLine when a concurrent request created the (owner, product) line first.
var ErrLineExists = errors.New("cart line already exists")

type CartRepository interface {
	GetCart(ctx context.Context, owner domain.Owner) (domain.Cart, error)
	// GetCartForUpdate locks the returned lines until the transaction ends.
	GetCartForUpdate(ctx context.Context, owner domain.Owner) (domain.Cart, error)
	GetLine(ctx context.Context, owner domain.Owner, lineID uuid.UUID) (domain.CartLine, error)
	// GetLineByProduct locks the returned line until the transaction ends.
	GetLineByProduct(ctx context.Context, owner domain.Owner, productID uuid.UUID) (domain.CartLine, error)
	InsertLine(ctx context.Context, owner domain.Owner, productID uuid.UUID, quantity int) (domain.CartLine, error)
	SetQuantity(ctx context.Context, owner domain.Owner, lineID uuid.UUID, quantity int) error
	DeleteLine(ctx context.Context, owner domain.Owner, lineID uuid.UUID) (bool, error)
	Clear(ctx context.Context, owner domain.Owner) (int64, error)
	Count(ctx context.Context, owner domain.Owner) (int, error)
}
