package approval_test

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/jhoicas/Almacen-api/internal/application/approval"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var errNotImplemented = errors.New("no implementado en memoria")

// memStore base de datos en memoria. RunApproval toma el mutex durante toda la "transacción"
// y restaura la instantánea si fn devuelve error.
type memStore struct {
	mu        sync.Mutex
	receipts  map[string]*entity.Receipt
	approvals []*entity.ApprovalRecord
	stocks    map[string]*entity.StockEntry // por product_id
	products  map[string]*entity.Product
	txCount   int
}

func newMemStore() *memStore {
	return &memStore{
		receipts: map[string]*entity.Receipt{},
		stocks:   map[string]*entity.StockEntry{},
		products: map[string]*entity.Product{},
	}
}

func receiptKey(kind entity.ReceiptKind, id string) string { return string(kind) + "/" + id }

func (s *memStore) addProduct(id, name string, quantity, minimum int64) {
	s.products[id] = &entity.Product{ID: id, Name: name, Unit: "caja", Minimum: minimum, Status: entity.ProductAvailable}
	s.stocks[id] = &entity.StockEntry{ID: "stock-" + id, ProductID: id, Quantity: quantity, Warning: quantity < minimum}
}

func (s *memStore) addReceipt(kind entity.ReceiptKind, id string, lines ...entity.ReceiptLine) {
	for i := range lines {
		lines[i].ReceiptID = id
	}
	s.receipts[receiptKey(kind, id)] = &entity.Receipt{
		ID: id, Kind: kind, CounterpartyID: "cp-1", CreatedBy: "user-1", Status: entity.StatusPending, Lines: lines,
	}
}

func (s *memStore) quantity(productID string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stocks[productID].Quantity
}

func (s *memStore) stock(productID string) entity.StockEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.stocks[productID]
}

func (s *memStore) status(kind entity.ReceiptKind, id string) entity.ReceiptStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.receipts[receiptKey(kind, id)].Status
}

func (s *memStore) approvalCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.approvals)
}

type memSnapshot struct {
	receipts  map[string]entity.ReceiptStatus
	approvals []*entity.ApprovalRecord
	stocks    map[string]entity.StockEntry
}

func (s *memStore) snapshot() memSnapshot {
	snap := memSnapshot{
		receipts:  make(map[string]entity.ReceiptStatus, len(s.receipts)),
		approvals: append([]*entity.ApprovalRecord(nil), s.approvals...),
		stocks:    make(map[string]entity.StockEntry, len(s.stocks)),
	}
	for k, r := range s.receipts {
		snap.receipts[k] = r.Status
	}
	for k, st := range s.stocks {
		snap.stocks[k] = *st
	}
	return snap
}

func (s *memStore) restore(snap memSnapshot) {
	for k, st := range snap.receipts {
		s.receipts[k].Status = st
	}
	s.approvals = snap.approvals
	for k, st := range snap.stocks {
		v := st
		s.stocks[k] = &v
	}
}

func (s *memStore) RunApproval(ctx context.Context, fn func(
	receiptRepo repository.ReceiptRepository,
	approvalRepo repository.ApprovalRepository,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txCount++
	snap := s.snapshot()
	if err := fn(&memReceipts{s}, &memApprovals{s}, &memStocks{s}, &memProducts{s}); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

var _ approval.TxRunner = (*memStore)(nil)

// ── receipts ─────────────────────────────────────────────────────────────────

type memReceipts struct{ s *memStore }

func (r *memReceipts) Create(_ context.Context, receipt *entity.Receipt) error {
	cp := *receipt
	r.s.receipts[receiptKey(receipt.Kind, receipt.ID)] = &cp
	return nil
}

func (r *memReceipts) GetByID(_ context.Context, kind entity.ReceiptKind, id string) (*entity.Receipt, error) {
	rec, ok := r.s.receipts[receiptKey(kind, id)]
	if !ok {
		return nil, nil
	}
	cp := *rec
	cp.Lines = append([]entity.ReceiptLine(nil), rec.Lines...)
	return &cp, nil
}

func (r *memReceipts) GetForUpdate(ctx context.Context, kind entity.ReceiptKind, id string) (*entity.Receipt, error) {
	return r.GetByID(ctx, kind, id)
}

func (r *memReceipts) TransitionStatus(_ context.Context, kind entity.ReceiptKind, id string, from, to entity.ReceiptStatus) error {
	rec, ok := r.s.receipts[receiptKey(kind, id)]
	if !ok || rec.Status != from {
		return domain.ErrConflict
	}
	rec.Status = to
	return nil
}

func (r *memReceipts) ListByStatus(_ context.Context, kind entity.ReceiptKind, status string) ([]repository.ReceiptSummary, error) {
	var out []repository.ReceiptSummary
	for _, rec := range r.s.receipts {
		if rec.Kind != kind {
			continue
		}
		if status != entity.StatusAll && string(rec.Status) != status {
			continue
		}
		out = append(out, repository.ReceiptSummary{ID: rec.ID, Kind: rec.Kind, Status: rec.Status})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memReceipts) Summary(_ context.Context, kind entity.ReceiptKind, id string) (*repository.ReceiptSummary, error) {
	rec, ok := r.s.receipts[receiptKey(kind, id)]
	if !ok {
		return nil, nil
	}
	return &repository.ReceiptSummary{ID: rec.ID, Kind: rec.Kind, Status: rec.Status, CounterpartyID: rec.CounterpartyID}, nil
}

func (r *memReceipts) Lines(_ context.Context, kind entity.ReceiptKind, receiptID string) ([]repository.ReceiptLineView, error) {
	rec, ok := r.s.receipts[receiptKey(kind, receiptID)]
	if !ok {
		return nil, nil
	}
	out := make([]repository.ReceiptLineView, 0, len(rec.Lines))
	for _, l := range rec.Lines {
		name := ""
		if p, ok := r.s.products[l.ProductID]; ok {
			name = p.Name
		}
		out = append(out, repository.ReceiptLineView{ReceiptLine: l, ProductName: name})
	}
	return out, nil
}

// ── approvals ────────────────────────────────────────────────────────────────

type memApprovals struct{ s *memStore }

func (r *memApprovals) Append(_ context.Context, record *entity.ApprovalRecord) error {
	cp := *record
	r.s.approvals = append(r.s.approvals, &cp)
	return nil
}

func (r *memApprovals) ListByReceipt(_ context.Context, kind entity.ReceiptKind, receiptID string) ([]*entity.ApprovalRecord, error) {
	var out []*entity.ApprovalRecord
	for _, a := range r.s.approvals {
		if a.Kind == kind && a.ReceiptID == receiptID {
			out = append(out, a)
		}
	}
	return out, nil
}

// ── stocks ───────────────────────────────────────────────────────────────────

type memStocks struct{ s *memStore }

func (r *memStocks) Create(_ context.Context, stock *entity.StockEntry) error {
	cp := *stock
	r.s.stocks[stock.ProductID] = &cp
	return nil
}

func (r *memStocks) GetByProduct(_ context.Context, productID string) (*entity.StockEntry, error) {
	st, ok := r.s.stocks[productID]
	if !ok {
		return nil, &domain.StockNotFoundError{ProductID: productID}
	}
	cp := *st
	return &cp, nil
}

func (r *memStocks) GetByProductForUpdate(ctx context.Context, productID string) (*entity.StockEntry, error) {
	return r.GetByProduct(ctx, productID)
}

func (r *memStocks) GetByIDForUpdate(_ context.Context, stockID string) (*entity.StockEntry, error) {
	for _, st := range r.s.stocks {
		if st.ID == stockID {
			cp := *st
			return &cp, nil
		}
	}
	return nil, domain.ErrStockNotFound
}

func (r *memStocks) SetQuantity(_ context.Context, stockID string, upd entity.StockUpdate) (*entity.StockEntry, error) {
	for _, st := range r.s.stocks {
		if st.ID == stockID {
			st.Quantity = upd.Quantity
			st.Warning = upd.Warning
			st.UpdatedAt = upd.UpdatedAt
			cp := *st
			return &cp, nil
		}
	}
	return nil, domain.ErrStockNotFound
}

func (r *memStocks) ListViews(context.Context, bool) ([]entity.StockView, error) {
	return nil, errNotImplemented
}

// ── products ─────────────────────────────────────────────────────────────────

type memProducts struct{ s *memStore }

func (r *memProducts) Create(_ context.Context, p *entity.Product) error {
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r *memProducts) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *memProducts) Update(context.Context, *entity.Product) error { return errNotImplemented }

func (r *memProducts) List(context.Context, repository.ProductFilter) ([]*entity.Product, int, error) {
	return nil, 0, errNotImplemented
}

// ── efectos posteriores al commit ────────────────────────────────────────────

type fakeCache struct {
	mu    sync.Mutex
	bumps int
	err   error
}

func (c *fakeCache) Bump(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bumps++
	return c.err
}

type fakeAlerts struct {
	mu     sync.Mutex
	alerts []approval.LowStockAlert
	err    error
}

func (a *fakeAlerts) PublishLowStock(_ context.Context, alert approval.LowStockAlert) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.alerts = append(a.alerts, alert)
	return a.err
}
