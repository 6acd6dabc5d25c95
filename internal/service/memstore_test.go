package service_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
)

// memStore is an in-memory port.Transactor. Transactions run one at a time on a copy of the
// state that replaces the committed state only when fn succeeds.
type memStore struct {
	mu    sync.Mutex
	state *memState

	// fail makes the named operation return the error
	fail map[string]error
	// beforeTx runs at the start of the n-th InTx call (1-based) on the transaction's state
	beforeTx map[int]func(st *memState)
	// beforeOp runs on the state right before the named operation executes
	beforeOp map[string]func(st *memState)
	txCount  int
}

type memState struct {
	products map[uuid.UUID]domain.Product
	coupons  map[string]domain.Coupon
	lines    map[uuid.UUID]memLine
	orders   map[uuid.UUID]domain.Order
	seq      int
}

type memLine struct {
	owner domain.Owner
	line  domain.CartLine
	seq   int
}

func newMemStore() *memStore {
	return &memStore{
		state: &memState{
			products: map[uuid.UUID]domain.Product{},
			coupons:  map[string]domain.Coupon{},
			lines:    map[uuid.UUID]memLine{},
			orders:   map[uuid.UUID]domain.Order{},
		},
		fail:     map[string]error{},
		beforeTx: map[int]func(st *memState){},
		beforeOp: map[string]func(st *memState){},
	}
}

func (st *memState) clone() *memState {
	c := &memState{
		products: make(map[uuid.UUID]domain.Product, len(st.products)),
		coupons:  make(map[string]domain.Coupon, len(st.coupons)),
		lines:    make(map[uuid.UUID]memLine, len(st.lines)),
		orders:   make(map[uuid.UUID]domain.Order, len(st.orders)),
		seq:      st.seq,
	}
	for k, v := range st.products {
		c.products[k] = v
	}
	for k, v := range st.coupons {
		c.coupons[k] = v
	}
	for k, v := range st.lines {
		c.lines[k] = v
	}
	for k, v := range st.orders {
		v.Lines = append([]domain.OrderLine(nil), v.Lines...)
		v.History = append([]domain.HistoryEntry(nil), v.History...)
		c.orders[k] = v
	}
	return c
}

func (m *memStore) InTx(ctx context.Context, fn func(tx port.Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	m.txCount++
	working := m.state.clone()
	if hook := m.beforeTx[m.txCount]; hook != nil {
		hook(working)
	}

	if err := fn(&memView{store: m, state: working}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m.state = working
	return nil
}

func (m *memStore) auto() *memView {
	return &memView{store: m, autoCommit: true}
}

func (m *memStore) Carts() port.CartRepository      { return m.auto() }
func (m *memStore) Catalog() port.CatalogRepository { return m.auto() }
func (m *memStore) Ledger() port.StockLedger        { return m.auto() }
func (m *memStore) Coupons() port.CouponRepository  { return m.auto() }
func (m *memStore) Orders() port.OrderRepository    { return m.auto() }

func (m *memStore) product(id uuid.UUID) domain.Product {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.products[id]
}

func (m *memStore) order(id uuid.UUID) (domain.Order, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.state.orders[id]
	return o, ok
}

func (m *memStore) orderCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.state.orders)
}

func (m *memStore) put(fn func(st *memState)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(m.state)
}

// memView implements every repository on one state, either a transaction's copy or,
// with autoCommit, the committed state under the store lock.
type memView struct {
	store      *memStore
	state      *memState
	autoCommit bool
}

func (v *memView) Carts() port.CartRepository      { return v }
func (v *memView) Catalog() port.CatalogRepository { return v }
func (v *memView) Ledger() port.StockLedger        { return v }
func (v *memView) Coupons() port.CouponRepository  { return v }
func (v *memView) Orders() port.OrderRepository    { return v }

func (v *memView) do(op string, fn func(st *memState) error) error {
	if v.autoCommit {
		v.store.mu.Lock()
		defer v.store.mu.Unlock()
	}
	if err := v.store.fail[op]; err != nil {
		return err
	}
	st := v.state
	if v.autoCommit {
		st = v.store.state
	}
	if hook := v.store.beforeOp[op]; hook != nil {
		hook(st)
	}
	return fn(st)
}

func notFound(what string) error {
	return errors.Join(errors.New(what), domain.ErrNotFound)
}

// cart

func (v *memView) ownedLines(st *memState, owner domain.Owner) []memLine {
	var out []memLine
	for _, l := range st.lines {
		if l.owner == owner {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}

func (v *memView) GetCart(ctx context.Context, owner domain.Owner) (domain.Cart, error) {
	cart := domain.Cart{Owner: owner}
	err := v.do("GetCart", func(st *memState) error {
		if err := owner.Validate(); err != nil {
			return err
		}
		for _, l := range v.ownedLines(st, owner) {
			cart.Lines = append(cart.Lines, l.line)
		}
		return nil
	})
	return cart, err
}

// GetCartForUpdate needs no lock here: a memStore transaction already runs alone.
func (v *memView) GetCartForUpdate(ctx context.Context, owner domain.Owner) (domain.Cart, error) {
	return v.GetCart(ctx, owner)
}

func (v *memView) GetLine(ctx context.Context, owner domain.Owner, lineID uuid.UUID) (domain.CartLine, error) {
	var line domain.CartLine
	err := v.do("GetLine", func(st *memState) error {
		l, ok := st.lines[lineID]
		if !ok || l.owner != owner {
			return notFound("cart line")
		}
		line = l.line
		return nil
	})
	return line, err
}

func (v *memView) GetLineByProduct(ctx context.Context, owner domain.Owner, productID uuid.UUID) (domain.CartLine, error) {
	var line domain.CartLine
	err := v.do("GetLineByProduct", func(st *memState) error {
		for _, l := range v.ownedLines(st, owner) {
			if l.line.ProductID == productID {
				line = l.line
				return nil
			}
		}
		return notFound("cart line")
	})
	return line, err
}

func (v *memView) InsertLine(ctx context.Context, owner domain.Owner, productID uuid.UUID, quantity int) (domain.CartLine, error) {
	var line domain.CartLine
	err := v.do("InsertLine", func(st *memState) error {
		for _, l := range v.ownedLines(st, owner) {
			if l.line.ProductID == productID {
				return port.ErrLineExists
			}
		}
		now := time.Now()
		line = domain.CartLine{ID: uuid.New(), ProductID: productID, Quantity: quantity, CreatedAt: now, UpdatedAt: now}
		st.seq++
		st.lines[line.ID] = memLine{owner: owner, line: line, seq: st.seq}
		return nil
	})
	return line, err
}

func (v *memView) SetQuantity(ctx context.Context, owner domain.Owner, lineID uuid.UUID, quantity int) error {
	return v.do("SetQuantity", func(st *memState) error {
		l, ok := st.lines[lineID]
		if !ok || l.owner != owner {
			return notFound("cart line")
		}
		l.line.Quantity = quantity
		st.lines[lineID] = l
		return nil
	})
}

func (v *memView) DeleteLine(ctx context.Context, owner domain.Owner, lineID uuid.UUID) (bool, error) {
	var deleted bool
	err := v.do("DeleteLine", func(st *memState) error {
		l, ok := st.lines[lineID]
		if ok && l.owner == owner {
			delete(st.lines, lineID)
			deleted = true
		}
		return nil
	})
	return deleted, err
}

func (v *memView) Clear(ctx context.Context, owner domain.Owner) (int64, error) {
	var n int64
	err := v.do("Clear", func(st *memState) error {
		for _, l := range v.ownedLines(st, owner) {
			delete(st.lines, l.line.ID)
			n++
		}
		return nil
	})
	return n, err
}

func (v *memView) Count(ctx context.Context, owner domain.Owner) (int, error) {
	var n int
	err := v.do("Count", func(st *memState) error {
		for _, l := range v.ownedLines(st, owner) {
			n += l.line.Quantity
		}
		return nil
	})
	return n, err
}

// catalog

func (v *memView) GetProduct(ctx context.Context, id uuid.UUID) (domain.Product, error) {
	var product domain.Product
	err := v.do("GetProduct", func(st *memState) error {
		p, ok := st.products[id]
		if !ok {
			return notFound("product")
		}
		product = p
		return nil
	})
	return product, err
}

func (v *memView) IsAvailable(ctx context.Context, id uuid.UUID, quantity int) (bool, error) {
	p, err := v.GetProduct(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	return p.IsAvailable(quantity), err
}

func (v *memView) UpsertProduct(ctx context.Context, product domain.Product) error {
	return v.do("UpsertProduct", func(st *memState) error {
		st.products[product.ID] = product
		return nil
	})
}

func (v *memView) TryReserve(ctx context.Context, productID uuid.UUID, quantity int) (bool, error) {
	var ok bool
	err := v.do("TryReserve", func(st *memState) error {
		p, found := st.products[productID]
		if !found {
			return nil
		}
		if !p.ManageStock {
			ok = true
			return nil
		}
		if !p.Active || p.StockQuantity < quantity {
			return nil
		}
		p.StockQuantity -= quantity
		if p.StockQuantity == 0 {
			p.StockStatus = domain.StockStatusOutOfStock
		}
		st.products[productID] = p
		ok = true
		return nil
	})
	return ok, err
}

func (v *memView) Release(ctx context.Context, productID uuid.UUID, quantity int) error {
	return v.do("Release", func(st *memState) error {
		p, found := st.products[productID]
		if !found {
			return notFound("product")
		}
		if p.ManageStock {
			p.StockQuantity += quantity
			p.StockStatus = domain.StockStatusInStock
			st.products[productID] = p
		}
		return nil
	})
}

// coupons

func (v *memView) FindByCode(ctx context.Context, code string) (domain.Coupon, error) {
	var coupon domain.Coupon
	err := v.do("FindByCode", func(st *memState) error {
		c, ok := st.coupons[domain.NormalizeCouponCode(code)]
		if !ok {
			return notFound("coupon")
		}
		coupon = c
		return nil
	})
	return coupon, err
}

func (v *memView) IncrementUsage(ctx context.Context, code string) (bool, error) {
	var ok bool
	err := v.do("IncrementUsage", func(st *memState) error {
		key := domain.NormalizeCouponCode(code)
		c, found := st.coupons[key]
		if !found || c.UsageExhausted() {
			return nil
		}
		c.UsedCount++
		st.coupons[key] = c
		ok = true
		return nil
	})
	return ok, err
}

func (v *memView) UpsertCoupon(ctx context.Context, coupon domain.Coupon) error {
	return v.do("UpsertCoupon", func(st *memState) error {
		coupon.Code = domain.NormalizeCouponCode(coupon.Code)
		st.coupons[coupon.Code] = coupon
		return nil
	})
}

// orders

func (v *memView) CreateOrder(ctx context.Context, order domain.Order) (bool, error) {
	var created bool
	err := v.do("CreateOrder", func(st *memState) error {
		for _, o := range st.orders {
			if o.Number == order.Number {
				return nil
			}
		}
		order.Lines = nil
		order.History = nil
		st.orders[order.ID] = order
		created = true
		return nil
	})
	return created, err
}

func (v *memView) InsertLines(ctx context.Context, orderID uuid.UUID, lines []domain.OrderLine) error {
	return v.do("InsertLines", func(st *memState) error {
		o, ok := st.orders[orderID]
		if !ok {
			return notFound("order")
		}
		o.Lines = append(o.Lines, lines...)
		st.orders[orderID] = o
		return nil
	})
}

func (v *memView) AppendHistory(ctx context.Context, orderID uuid.UUID, entry domain.HistoryEntry) error {
	return v.do("AppendHistory", func(st *memState) error {
		o, ok := st.orders[orderID]
		if !ok {
			return notFound("order")
		}
		entry.CreatedAt = time.Now()
		o.History = append(o.History, entry)
		st.orders[orderID] = o
		return nil
	})
}

func (v *memView) GetOrder(ctx context.Context, id uuid.UUID) (domain.Order, error) {
	var order domain.Order
	err := v.do("GetOrder", func(st *memState) error {
		o, ok := st.orders[id]
		if !ok {
			return notFound("order")
		}
		order = o
		return nil
	})
	return order, err
}

func (v *memView) GetOrderForUpdate(ctx context.Context, id uuid.UUID) (domain.Order, error) {
	return v.GetOrder(ctx, id)
}

func (v *memView) SetStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error {
	return v.do("SetStatus", func(st *memState) error {
		o, ok := st.orders[id]
		if !ok {
			return notFound("order")
		}
		o.Status = status
		st.orders[id] = o
		return nil
	})
}

func (v *memView) SetPaymentStatus(ctx context.Context, id uuid.UUID, status domain.PaymentStatus, reference string) error {
	return v.do("SetPaymentStatus", func(st *memState) error {
		o, ok := st.orders[id]
		if !ok {
			return notFound("order")
		}
		o.PaymentStatus = status
		if reference != "" {
			o.PaymentReference = reference
		}
		st.orders[id] = o
		return nil
	})
}

func (v *memView) Statistics(ctx context.Context) (domain.OrderStats, error) {
	stats := domain.OrderStats{CountByStatus: map[domain.OrderStatus]int64{}}
	err := v.do("Statistics", func(st *memState) error {
		for _, o := range st.orders {
			stats.TotalOrders++
			stats.CountByStatus[o.Status]++
			if o.Status != domain.OrderStatusCancelled {
				stats.TotalRevenue = stats.TotalRevenue.Add(o.Total)
			}
		}
		return nil
	})
	return stats, err
}
