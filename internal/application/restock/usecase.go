package restock

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// UseCase solicitudes de reposición: el almacenista las crea, compras (import_staff) las vincula
// a comprobantes de entrada y el estado avanza al recibir la mercancía.
type UseCase struct {
	tx       TxRunner
	restocks repository.RestockRepository
	stocks   repository.StockRepository
	log      zerolog.Logger
	now      func() time.Time
}

// NewUseCase construye el caso de uso. restocks y stocks son las lecturas fuera de transacción.
func NewUseCase(tx TxRunner, restocks repository.RestockRepository, stocks repository.StockRepository, log zerolog.Logger) *UseCase {
	return &UseCase{tx: tx, restocks: restocks, stocks: stocks, log: log, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// CreateInput datos de una solicitud nueva.
type CreateInput struct {
	ProductID   string
	RequestedBy string
	NotifiedTo  string
	Quantity    int64
	Note        string
}

// LinkInput vínculo de una solicitud con un comprobante de entrada.
type LinkInput struct {
	RequestID       string
	ImportReceiptID string
	CreatedBy       string
	Note            string
}

// Detail solicitud con sus vínculos.
type Detail struct {
	Request entity.RestockView
	Links   []*entity.RestockLink
}

// Create registra una solicitud pendiente. El destinatario debe ser un import_staff activo.
func (uc *UseCase) Create(ctx context.Context, in CreateInput) (*entity.RestockView, error) {
	if strings.TrimSpace(in.RequestedBy) == "" {
		return nil, domain.ErrUnauthorized
	}
	if !isUUID(in.ProductID) || !isUUID(in.NotifiedTo) {
		return nil, fmt.Errorf("producto o destinatario: %w", domain.ErrInvalidInput)
	}
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("cantidad %d: %w", in.Quantity, domain.ErrInvalidInput)
	}

	now := uc.now()
	view := entity.RestockView{RestockRequest: entity.RestockRequest{
		ID:          uuid.New().String(),
		ProductID:   in.ProductID,
		RequestedBy: in.RequestedBy,
		NotifiedTo:  in.NotifiedTo,
		Quantity:    in.Quantity,
		Note:        strings.TrimSpace(in.Note),
		Status:      entity.RestockPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}}
	err := uc.tx.RunRestock(ctx, func(
		restockRepo repository.RestockRepository,
		_ repository.ReceiptRepository,
		productRepo repository.ProductRepository,
		userRepo repository.UserRepository,
	) error {
		product, err := productRepo.GetByID(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if !product.IsAvailable() {
			return fmt.Errorf("producto %s: %w", in.ProductID, domain.ErrProductUnavailable)
		}
		requester, err := userRepo.GetByID(ctx, in.RequestedBy)
		if err != nil {
			return err
		}
		if requester == nil {
			return domain.ErrUnauthorized
		}
		notified, err := userRepo.GetByID(ctx, in.NotifiedTo)
		if err != nil {
			return err
		}
		if notified == nil || notified.Role != entity.RoleImportStaff || notified.Status != "active" {
			return fmt.Errorf("destinatario %s no es personal de compras activo: %w", in.NotifiedTo, domain.ErrInvalidInput)
		}
		if err := restockRepo.Create(ctx, &view.RestockRequest); err != nil {
			return err
		}
		view.ProductName = product.Name
		view.RequesterName = requester.FullName
		view.NotifiedName = notified.FullName
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("request_id", view.ID).
		Str("product_id", view.ProductID).
		Str("requested_by", view.RequestedBy).
		Int64("quantity", view.Quantity).
		Msg("solicitud de reposición creada")
	return &view, nil
}

// List solicitudes por estado (vacío o "all" = todas).
func (uc *UseCase) List(ctx context.Context, status string) ([]entity.RestockView, error) {
	if status != "" && status != entity.StatusAll && !entity.RestockStatus(status).Valid() {
		return nil, fmt.Errorf("estado %q: %w", status, domain.ErrInvalidInput)
	}
	return uc.restocks.List(ctx, status)
}

// Get solicitud con sus vínculos, cargados en paralelo.
func (uc *UseCase) Get(ctx context.Context, id string) (*Detail, error) {
	if !isUUID(id) {
		return nil, domain.ErrRestockNotFound
	}
	var (
		view  *entity.RestockView
		links []*entity.RestockLink
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		view, err = uc.restocks.GetByID(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		links, err = uc.restocks.ListLinks(gctx, id, "")
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if view == nil {
		return nil, domain.ErrRestockNotFound
	}
	return &Detail{Request: *view, Links: links}, nil
}

// UpdateStatus cambia el estado de la solicitud. Cancelarla cancela también sus vínculos pendientes.
// Repetir el estado actual no es un error.
func (uc *UseCase) UpdateStatus(ctx context.Context, id, status, actorID string) (*entity.RestockRequest, error) {
	to := entity.RestockStatus(status)
	if !to.Valid() {
		return nil, fmt.Errorf("estado %q: %w", status, domain.ErrInvalidInput)
	}
	if !isUUID(id) {
		return nil, domain.ErrRestockNotFound
	}
	var req *entity.RestockRequest
	err := uc.tx.RunRestock(ctx, func(
		restockRepo repository.RestockRepository,
		_ repository.ReceiptRepository,
		_ repository.ProductRepository,
		_ repository.UserRepository,
	) error {
		var err error
		req, err = restockRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if req == nil {
			return domain.ErrRestockNotFound
		}
		if req.Status == to {
			return nil
		}
		if !entity.CanTransitionRestock(req.Status, to) {
			return fmt.Errorf("solicitud %s en estado %s: %w", id, req.Status, domain.ErrConflict)
		}
		now := uc.now()
		if to == entity.RestockCancelled {
			pending, err := restockRepo.ListLinks(ctx, id, string(entity.LinkPending))
			if err != nil {
				return err
			}
			for _, l := range pending {
				if err := restockRepo.UpdateLinkStatus(ctx, l.ID, entity.LinkCancelled, now); err != nil {
					return err
				}
			}
		}
		if err := restockRepo.UpdateStatus(ctx, id, to, now); err != nil {
			return err
		}
		uc.log.Info().
			Str("request_id", id).
			Str("from", string(req.Status)).
			Str("to", string(to)).
			Str("user_id", actorID).
			Msg("estado de solicitud de reposición")
		req.Status = to
		req.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

// Link vincula un comprobante de entrada que incluye el producto solicitado.
// Una solicitud pendiente pasa a in_progress.
func (uc *UseCase) Link(ctx context.Context, in LinkInput) (*entity.RestockLink, error) {
	if strings.TrimSpace(in.CreatedBy) == "" {
		return nil, domain.ErrUnauthorized
	}
	if !isUUID(in.RequestID) {
		return nil, domain.ErrRestockNotFound
	}
	if !isUUID(in.ImportReceiptID) {
		return nil, domain.ErrReceiptNotFound
	}
	now := uc.now()
	link := &entity.RestockLink{
		ID:              uuid.New().String(),
		RequestID:       in.RequestID,
		ImportReceiptID: in.ImportReceiptID,
		Note:            strings.TrimSpace(in.Note),
		Status:          entity.LinkPending,
		CreatedBy:       in.CreatedBy,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	err := uc.tx.RunRestock(ctx, func(
		restockRepo repository.RestockRepository,
		receiptRepo repository.ReceiptRepository,
		_ repository.ProductRepository,
		_ repository.UserRepository,
	) error {
		req, err := restockRepo.GetForUpdate(ctx, in.RequestID)
		if err != nil {
			return err
		}
		if req == nil {
			return domain.ErrRestockNotFound
		}
		if !req.Status.Open() {
			return fmt.Errorf("solicitud %s en estado %s: %w", req.ID, req.Status, domain.ErrConflict)
		}
		receipt, err := receiptRepo.GetByID(ctx, entity.ReceiptImport, in.ImportReceiptID)
		if err != nil {
			return err
		}
		if receipt == nil {
			return domain.ErrReceiptNotFound
		}
		if receipt.Status == entity.StatusRejected {
			return fmt.Errorf("comprobante %s rechazado: %w", receipt.ID, domain.ErrConflict)
		}
		if !hasProduct(receipt, req.ProductID) {
			return fmt.Errorf("el comprobante %s no incluye el producto %s: %w", receipt.ID, req.ProductID, domain.ErrInvalidInput)
		}
		if err := restockRepo.CreateLink(ctx, link); err != nil {
			return err
		}
		if req.Status == entity.RestockPending {
			return restockRepo.UpdateStatus(ctx, req.ID, entity.RestockInProgress, now)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("link_id", link.ID).
		Str("request_id", link.RequestID).
		Str("receipt_id", link.ImportReceiptID).
		Msg("comprobante vinculado a solicitud de reposición")
	return link, nil
}

// GetLink vínculo por id.
func (uc *UseCase) GetLink(ctx context.Context, id string) (*entity.RestockLink, error) {
	if !isUUID(id) {
		return nil, domain.ErrLinkNotFound
	}
	link, err := uc.restocks.GetLink(ctx, id)
	if err != nil {
		return nil, err
	}
	if link == nil {
		return nil, domain.ErrLinkNotFound
	}
	return link, nil
}

// ListLinks vínculos, opcionalmente de una solicitud y en un estado.
func (uc *UseCase) ListLinks(ctx context.Context, requestID, status string) ([]*entity.RestockLink, error) {
	if status != "" && status != entity.StatusAll && !entity.LinkStatus(status).Valid() {
		return nil, fmt.Errorf("estado %q: %w", status, domain.ErrInvalidInput)
	}
	if requestID != "" && !isUUID(requestID) {
		return []*entity.RestockLink{}, nil
	}
	return uc.restocks.ListLinks(ctx, requestID, status)
}

// UpdateLinkStatus marca un vínculo como recibido o cancelado.
// received exige el comprobante aprobado y completa la solicitud. Si se cancela el último vínculo
// activo, la solicitud vuelve a pending.
func (uc *UseCase) UpdateLinkStatus(ctx context.Context, id, status, actorID string) (*entity.RestockLink, error) {
	to := entity.LinkStatus(status)
	if !to.Valid() {
		return nil, fmt.Errorf("estado %q: %w", status, domain.ErrInvalidInput)
	}
	if !isUUID(id) {
		return nil, domain.ErrLinkNotFound
	}
	var link *entity.RestockLink
	err := uc.tx.RunRestock(ctx, func(
		restockRepo repository.RestockRepository,
		receiptRepo repository.ReceiptRepository,
		_ repository.ProductRepository,
		_ repository.UserRepository,
	) error {
		var err error
		link, err = restockRepo.GetLinkForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if link == nil {
			return domain.ErrLinkNotFound
		}
		if link.Status == to {
			return nil
		}
		if !entity.CanTransitionLink(link.Status, to) {
			return fmt.Errorf("vínculo %s en estado %s: %w", id, link.Status, domain.ErrConflict)
		}
		req, err := restockRepo.GetForUpdate(ctx, link.RequestID)
		if err != nil {
			return err
		}
		if req == nil {
			return domain.ErrRestockNotFound
		}
		now := uc.now()

		switch to {
		case entity.LinkReceived:
			receipt, err := receiptRepo.GetByID(ctx, entity.ReceiptImport, link.ImportReceiptID)
			if err != nil {
				return err
			}
			if receipt == nil {
				return domain.ErrReceiptNotFound
			}
			if receipt.Status != entity.StatusApproved {
				return fmt.Errorf("comprobante %s en estado %s: %w", receipt.ID, receipt.Status, domain.ErrConflict)
			}
			if req.Status.Open() {
				if err := restockRepo.UpdateStatus(ctx, req.ID, entity.RestockCompleted, now); err != nil {
					return err
				}
			}
		case entity.LinkCancelled:
			if req.Status == entity.RestockInProgress {
				active, err := activeLinks(ctx, restockRepo, req.ID, link.ID)
				if err != nil {
					return err
				}
				if active == 0 {
					if err := restockRepo.UpdateStatus(ctx, req.ID, entity.RestockPending, now); err != nil {
						return err
					}
				}
			}
		}
		if err := restockRepo.UpdateLinkStatus(ctx, link.ID, to, now); err != nil {
			return err
		}
		uc.log.Info().
			Str("link_id", link.ID).
			Str("request_id", link.RequestID).
			Str("from", string(link.Status)).
			Str("to", string(to)).
			Str("user_id", actorID).
			Msg("estado de vínculo de reposición")
		link.Status = to
		link.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return link, nil
}

// activeLinks cuenta los vínculos pending o received de la solicitud, sin contar except.
func activeLinks(ctx context.Context, repo repository.RestockRepository, requestID, except string) (int, error) {
	links, err := repo.ListLinks(ctx, requestID, "")
	if err != nil {
		return 0, err
	}
	n := 0
	for _, l := range links {
		if l.ID != except && l.Status != entity.LinkCancelled {
			n++
		}
	}
	return n, nil
}

func hasProduct(receipt *entity.Receipt, productID string) bool {
	for _, l := range receipt.Lines {
		if l.ProductID == productID {
			return true
		}
	}
	return false
}

func isUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
