package restock_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// memDB base en memoria. RunRestock toma el mutex durante toda la "transacción"
// y restaura solicitudes y vínculos si fn devuelve error.
type memDB struct {
	mu        sync.Mutex
	requests  map[string]entity.RestockRequest
	links     map[string]entity.RestockLink
	receipts  map[string]*entity.Receipt
	products  map[string]*entity.Product
	users     map[string]*entity.User
	views     []entity.StockView
	openErr   error
	failAfter bool // falla después de ejecutar fn (simula error de commit)
}

func newMemDB() *memDB {
	return &memDB{
		requests: map[string]entity.RestockRequest{},
		links:    map[string]entity.RestockLink{},
		receipts: map[string]*entity.Receipt{},
		products: map[string]*entity.Product{},
		users:    map[string]*entity.User{},
	}
}

func (db *memDB) addProduct(id, name string) {
	db.products[id] = &entity.Product{ID: id, Name: name, Unit: "caja", Minimum: 5, Status: entity.ProductAvailable}
}

func (db *memDB) addUser(id, name, role string) {
	db.users[id] = &entity.User{ID: id, Username: name, FullName: name, Role: role, Status: "active"}
}

func (db *memDB) addReceipt(id string, status entity.ReceiptStatus, productIDs ...string) {
	r := &entity.Receipt{ID: id, Kind: entity.ReceiptImport, Status: status}
	for _, p := range productIDs {
		r.Lines = append(r.Lines, entity.ReceiptLine{ProductID: p, Quantity: 10})
	}
	db.receipts[id] = r
}

func (db *memDB) request(id string) entity.RestockRequest { return db.requests[id] }

func (db *memDB) link(id string) entity.RestockLink { return db.links[id] }

func (db *memDB) RunRestock(ctx context.Context, fn func(
	restockRepo repository.RestockRepository,
	receiptRepo repository.ReceiptRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
) error) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	requests := make(map[string]entity.RestockRequest, len(db.requests))
	for k, v := range db.requests {
		requests[k] = v
	}
	links := make(map[string]entity.RestockLink, len(db.links))
	for k, v := range db.links {
		links[k] = v
	}
	err := fn(&memRestocks{db}, memReceipts{db: db}, memProducts{db: db}, memUsers{db: db})
	if err == nil && db.failAfter {
		err = errors.New("commit")
	}
	if err != nil {
		db.requests, db.links = requests, links
	}
	return err
}

type memRestocks struct{ db *memDB }

func (r *memRestocks) Create(_ context.Context, req *entity.RestockRequest) error {
	for _, cur := range r.db.requests {
		if cur.ProductID == req.ProductID && cur.Status.Open() {
			return domain.ErrDuplicate
		}
	}
	r.db.requests[req.ID] = *req
	return nil
}

func (r *memRestocks) view(req entity.RestockRequest) entity.RestockView {
	v := entity.RestockView{RestockRequest: req}
	if p := r.db.products[req.ProductID]; p != nil {
		v.ProductName = p.Name
	}
	if u := r.db.users[req.RequestedBy]; u != nil {
		v.RequesterName = u.FullName
	}
	if u := r.db.users[req.NotifiedTo]; u != nil {
		v.NotifiedName = u.FullName
	}
	return v
}

func (r *memRestocks) GetByID(_ context.Context, id string) (*entity.RestockView, error) {
	req, ok := r.db.requests[id]
	if !ok {
		return nil, nil
	}
	v := r.view(req)
	return &v, nil
}

func (r *memRestocks) GetForUpdate(_ context.Context, id string) (*entity.RestockRequest, error) {
	req, ok := r.db.requests[id]
	if !ok {
		return nil, nil
	}
	return &req, nil
}

func (r *memRestocks) List(_ context.Context, status string) ([]entity.RestockView, error) {
	out := make([]entity.RestockView, 0)
	for _, req := range r.db.requests {
		if status == "" || status == entity.StatusAll || string(req.Status) == status {
			out = append(out, r.view(req))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memRestocks) OpenProductIDs(context.Context) (map[string]bool, error) {
	if r.db.openErr != nil {
		return nil, r.db.openErr
	}
	open := map[string]bool{}
	for _, req := range r.db.requests {
		if req.Status.Open() {
			open[req.ProductID] = true
		}
	}
	return open, nil
}

func (r *memRestocks) UpdateStatus(_ context.Context, id string, status entity.RestockStatus, updatedAt time.Time) error {
	req, ok := r.db.requests[id]
	if !ok {
		return domain.ErrRestockNotFound
	}
	req.Status, req.UpdatedAt = status, updatedAt
	r.db.requests[id] = req
	return nil
}

func (r *memRestocks) CreateLink(_ context.Context, link *entity.RestockLink) error {
	for _, cur := range r.db.links {
		if cur.RequestID == link.RequestID && cur.ImportReceiptID == link.ImportReceiptID {
			return domain.ErrDuplicate
		}
	}
	r.db.links[link.ID] = *link
	return nil
}

func (r *memRestocks) GetLink(_ context.Context, id string) (*entity.RestockLink, error) {
	l, ok := r.db.links[id]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (r *memRestocks) GetLinkForUpdate(ctx context.Context, id string) (*entity.RestockLink, error) {
	return r.GetLink(ctx, id)
}

func (r *memRestocks) ListLinks(_ context.Context, requestID, status string) ([]*entity.RestockLink, error) {
	out := make([]*entity.RestockLink, 0)
	for _, l := range r.db.links {
		if requestID != "" && l.RequestID != requestID {
			continue
		}
		if status != "" && status != entity.StatusAll && string(l.Status) != status {
			continue
		}
		cp := l
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *memRestocks) UpdateLinkStatus(_ context.Context, id string, status entity.LinkStatus, updatedAt time.Time) error {
	l, ok := r.db.links[id]
	if !ok {
		return domain.ErrLinkNotFound
	}
	l.Status, l.UpdatedAt = status, updatedAt
	r.db.links[id] = l
	return nil
}

type memReceipts struct {
	repository.ReceiptRepository
	db *memDB
}

func (r memReceipts) GetByID(_ context.Context, kind entity.ReceiptKind, id string) (*entity.Receipt, error) {
	rec, ok := r.db.receipts[id]
	if !ok || kind != entity.ReceiptImport {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

type memProducts struct {
	repository.ProductRepository
	db *memDB
}

func (r memProducts) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := r.db.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

type memUsers struct {
	repository.UserRepository
	db *memDB
}

func (r memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := r.db.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

type memStocks struct {
	repository.StockRepository
	db *memDB
}

func (r memStocks) ListViews(_ context.Context, onlyWarning bool) ([]entity.StockView, error) {
	out := make([]entity.StockView, 0, len(r.db.views))
	for _, v := range r.db.views {
		if !onlyWarning || v.Warning {
			out = append(out, v)
		}
	}
	return out, nil
}
