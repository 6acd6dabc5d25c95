package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/nikolayk812/storefront/internal/pricing"
	"github.com/shopspring/decimal"
)

// insertAttempts bounds the re-read after a concurrent request created the same line.
const insertAttempts = 2

type CartService struct {
	store  port.Transactor
	engine *pricing.Engine
	logger *slog.Logger
	now    func() time.Time
}

func NewCartService(store port.Transactor, engine *pricing.Engine, logger *slog.Logger) *CartService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &CartService{
		store:  store,
		engine: engine,
		logger: logger,
		now:    time.Now,
	}
}

// AddItem adds quantity units of a product. An existing line is summed with the new quantity
// and the combined amount is checked against stock.
func (s *CartService) AddItem(ctx context.Context, owner domain.Owner, productID uuid.UUID, quantity int) (domain.CartLine, error) {
	if err := validateOwner(owner); err != nil {
		return domain.CartLine{}, err
	}
	if quantity < 1 {
		return domain.CartLine{}, domain.Validationf("quantity must be at least 1")
	}

	var line domain.CartLine
	err := s.store.InTx(ctx, func(tx port.Store) error {
		product, err := activeProduct(ctx, tx, productID)
		if err != nil {
			return err
		}

		for attempt := 1; ; attempt++ {
			existing, err := tx.Carts().GetLineByProduct(ctx, owner, productID)
			switch {
			case err == nil:
				combined := existing.Quantity + quantity
				if !product.IsAvailable(combined) {
					return domain.InsufficientStockf("insufficient stock for requested quantity")
				}
				if err := tx.Carts().SetQuantity(ctx, owner, existing.ID, combined); err != nil {
					return err
				}
				existing.Quantity = combined
				line = existing
				return nil
			case !errors.Is(err, domain.ErrNotFound):
				return err
			}

			if !product.IsAvailable(quantity) {
				return domain.InsufficientStockf("insufficient stock")
			}

			line, err = tx.Carts().InsertLine(ctx, owner, productID, quantity)
			if errors.Is(err, port.ErrLineExists) && attempt < insertAttempts {
				continue
			}
			return err
		}
	})
	if err != nil {
		return domain.CartLine{}, storageErr("add item", err)
	}

	s.logger.DebugContext(ctx, "cart item added",
		slog.String("owner", owner.String()),
		slog.String("product_id", productID.String()),
		slog.Int("quantity", line.Quantity))

	return line, nil
}

// UpdateQuantity sets a line's quantity. Zero or less removes the line.
func (s *CartService) UpdateQuantity(ctx context.Context, owner domain.Owner, lineID uuid.UUID, quantity int) error {
	if err := validateOwner(owner); err != nil {
		return err
	}
	if quantity <= 0 {
		return s.RemoveItem(ctx, owner, lineID)
	}

	err := s.store.InTx(ctx, func(tx port.Store) error {
		line, err := tx.Carts().GetLine(ctx, owner, lineID)
		if err != nil {
			return err
		}

		product, err := activeProduct(ctx, tx, line.ProductID)
		if err != nil {
			return err
		}
		if !product.IsAvailable(quantity) {
			return domain.InsufficientStockf("insufficient stock")
		}

		return tx.Carts().SetQuantity(ctx, owner, lineID, quantity)
	})

	return storageErr("update quantity", err)
}

func (s *CartService) RemoveItem(ctx context.Context, owner domain.Owner, lineID uuid.UUID) error {
	if err := validateOwner(owner); err != nil {
		return err
	}

	deleted, err := s.store.Carts().DeleteLine(ctx, owner, lineID)
	if err != nil {
		return storageErr("remove item", err)
	}
	if !deleted {
		return fmt.Errorf("cart line %s: %w", lineID, domain.ErrNotFound)
	}

	return nil
}

func (s *CartService) Clear(ctx context.Context, owner domain.Owner) error {
	if err := validateOwner(owner); err != nil {
		return err
	}

	_, err := s.store.Carts().Clear(ctx, owner)
	return storageErr("clear cart", err)
}

type MergeResult struct {
	Merged  int `json:"merged"`
	Skipped int `json:"skipped"`
}

// Merge moves an anonymous cart into a user's cart line by line. A line that can not be added
// is skipped. The session cart is cleared in every case.
func (s *CartService) Merge(ctx context.Context, userID, sessionID string) (MergeResult, error) {
	target := domain.UserOwner(userID)
	source := domain.SessionOwner(sessionID)
	if err := validateOwner(target); err != nil {
		return MergeResult{}, err
	}
	if err := validateOwner(source); err != nil {
		return MergeResult{}, err
	}

	cart, err := s.store.Carts().GetCart(ctx, source)
	if err != nil {
		return MergeResult{}, storageErr("merge cart", err)
	}

	var result MergeResult
	for _, line := range cart.Lines {
		if _, err := s.AddItem(ctx, target, line.ProductID, line.Quantity); err != nil {
			result.Skipped++
			s.logger.InfoContext(ctx, "cart merge skipped line",
				slog.String("owner", target.String()),
				slog.String("product_id", line.ProductID.String()),
				slog.Int("quantity", line.Quantity),
				slog.Any("err", err))
			continue
		}
		result.Merged++
	}

	if _, err := s.store.Carts().Clear(ctx, source); err != nil {
		return result, storageErr("clear merged cart", err)
	}

	return result, nil
}

// Validate re-checks every line against the catalog, drops lines that can no longer be sold,
// caps quantities to stock and reports each change.
func (s *CartService) Validate(ctx context.Context, owner domain.Owner) ([]domain.Notice, error) {
	if err := validateOwner(owner); err != nil {
		return nil, err
	}

	var notices []domain.Notice
	err := s.store.InTx(ctx, func(tx port.Store) error {
		notices = nil

		cart, err := tx.Carts().GetCart(ctx, owner)
		if err != nil {
			return err
		}

		for _, line := range cart.Lines {
			notice, err := revalidateLine(ctx, tx, owner, line)
			if err != nil {
				return err
			}
			if notice != nil {
				notices = append(notices, *notice)
			}
		}
		return nil
	})
	if err != nil {
		return nil, storageErr("validate cart", err)
	}

	if len(notices) > 0 {
		s.logger.InfoContext(ctx, "cart adjusted",
			slog.String("owner", owner.String()),
			slog.Int("notices", len(notices)))
	}

	return notices, nil
}

func revalidateLine(ctx context.Context, tx port.Store, owner domain.Owner, line domain.CartLine) (*domain.Notice, error) {
	product, err := tx.Catalog().GetProduct(ctx, line.ProductID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	var msg string
	switch {
	case err != nil || !product.Active:
		msg = fmt.Sprintf("Product '%s' is no longer available and has been removed from cart.", productLabel(product, line.ProductID))
	case product.IsAvailable(line.Quantity):
		return nil, nil
	case product.ManageStock && product.StockQuantity > 0:
		if err := tx.Carts().SetQuantity(ctx, owner, line.ID, product.StockQuantity); err != nil {
			return nil, err
		}
		return &domain.Notice{
			ProductID: line.ProductID,
			Message:   fmt.Sprintf("Quantity for '%s' has been adjusted to %d due to stock limitations.", product.Name, product.StockQuantity),
		}, nil
	default:
		msg = fmt.Sprintf("Product '%s' is out of stock and has been removed from cart.", product.Name)
	}

	if _, err := tx.Carts().DeleteLine(ctx, owner, line.ID); err != nil {
		return nil, err
	}

	return &domain.Notice{ProductID: line.ProductID, Message: msg}, nil
}

func productLabel(product domain.Product, id uuid.UUID) string {
	if product.Name != "" {
		return product.Name
	}
	return id.String()
}

func (s *CartService) Count(ctx context.Context, owner domain.Owner) (int, error) {
	if err := validateOwner(owner); err != nil {
		return 0, err
	}

	count, err := s.store.Carts().Count(ctx, owner)
	if err != nil {
		return 0, storageErr("count cart", err)
	}

	return count, nil
}

// Quote validates the cart and prices what is left. An unknown or invalid coupon prices without discount.
func (s *CartService) Quote(ctx context.Context, owner domain.Owner, couponCode string) (domain.CartQuote, error) {
	notices, err := s.Validate(ctx, owner)
	if err != nil {
		return domain.CartQuote{}, err
	}

	cart, err := s.store.Carts().GetCart(ctx, owner)
	if err != nil {
		return domain.CartQuote{}, storageErr("quote cart", err)
	}

	quoted, lines, err := loadLines(ctx, s.store, cart)
	if err != nil {
		return domain.CartQuote{}, storageErr("quote cart", err)
	}

	var coupon *domain.Coupon
	if domain.NormalizeCouponCode(couponCode) != "" {
		found, err := s.store.Coupons().FindByCode(ctx, couponCode)
		switch {
		case err == nil:
			coupon = &found
		case !errors.Is(err, domain.ErrNotFound):
			return domain.CartQuote{}, storageErr("quote cart", err)
		}
	}

	result, err := s.engine.Quote(lines, coupon, s.now())
	if err != nil {
		return domain.CartQuote{}, err
	}

	return domain.CartQuote{
		Owner:   owner,
		Lines:   quoted,
		Pricing: result,
		Notices: notices,
	}, nil
}

// loadLines joins cart lines with their products.
func loadLines(ctx context.Context, store port.Store, cart domain.Cart) ([]domain.QuotedLine, []pricing.Line, error) {
	quoted := make([]domain.QuotedLine, 0, len(cart.Lines))
	lines := make([]pricing.Line, 0, len(cart.Lines))

	for _, l := range cart.Lines {
		product, err := store.Catalog().GetProduct(ctx, l.ProductID)
		if err != nil {
			return nil, nil, err
		}

		unit := product.UnitPrice()
		quoted = append(quoted, domain.QuotedLine{
			LineID:    l.ID,
			Product:   product,
			Quantity:  l.Quantity,
			UnitPrice: domain.NewMoney(unit, product.Price.Currency),
			LineTotal: domain.NewMoney(unit.Mul(decimal.NewFromInt(int64(l.Quantity))), product.Price.Currency),
		})
		lines = append(lines, pricing.Line{Product: product, Quantity: l.Quantity})
	}

	return quoted, lines, nil
}

func activeProduct(ctx context.Context, store port.Store, productID uuid.UUID) (domain.Product, error) {
	product, err := store.Catalog().GetProduct(ctx, productID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Product{}, domain.Unavailablef("product not found or inactive")
	}
	if err != nil {
		return domain.Product{}, err
	}
	if !product.Active {
		return domain.Product{}, domain.Unavailablef("product not found or inactive")
	}

	return product, nil
}
