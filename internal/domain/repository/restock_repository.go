package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// RestockRepository solicitudes de reposición y sus vínculos con comprobantes de entrada.
// Las lecturas por id devuelven (nil, nil) si no existe.
type RestockRepository interface {
	// Create inserta la solicitud. domain.ErrDuplicate si el producto ya tiene una abierta.
	Create(ctx context.Context, req *entity.RestockRequest) error
	GetByID(ctx context.Context, id string) (*entity.RestockView, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.RestockRequest, error)
	// List status vacío o "all" = sin filtro; más recientes primero.
	List(ctx context.Context, status string) ([]entity.RestockView, error)
	// OpenProductIDs productos con una solicitud pending o in_progress.
	OpenProductIDs(ctx context.Context) (map[string]bool, error)
	UpdateStatus(ctx context.Context, id string, status entity.RestockStatus, updatedAt time.Time) error

	// CreateLink domain.ErrDuplicate si el comprobante ya está vinculado a la solicitud.
	CreateLink(ctx context.Context, link *entity.RestockLink) error
	GetLink(ctx context.Context, id string) (*entity.RestockLink, error)
	GetLinkForUpdate(ctx context.Context, id string) (*entity.RestockLink, error)
	ListLinks(ctx context.Context, requestID, status string) ([]*entity.RestockLink, error)
	UpdateLinkStatus(ctx context.Context, id string, status entity.LinkStatus, updatedAt time.Time) error
}
