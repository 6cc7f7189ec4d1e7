package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/restock"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// restockService lo implementa *restock.UseCase.
type restockService interface {
	Create(ctx context.Context, in restock.CreateInput) (*entity.RestockView, error)
	List(ctx context.Context, status string) ([]entity.RestockView, error)
	Get(ctx context.Context, id string) (*restock.Detail, error)
	UpdateStatus(ctx context.Context, id, status, actorID string) (*entity.RestockRequest, error)
	Suggestions(ctx context.Context) ([]restock.Suggestion, error)
	Link(ctx context.Context, in restock.LinkInput) (*entity.RestockLink, error)
	GetLink(ctx context.Context, id string) (*entity.RestockLink, error)
	ListLinks(ctx context.Context, requestID, status string) ([]*entity.RestockLink, error)
	UpdateLinkStatus(ctx context.Context, id, status, actorID string) (*entity.RestockLink, error)
}

var _ restockService = (*restock.UseCase)(nil)

// RestockHandler solicitudes de reposición y vínculos con comprobantes de entrada.
type RestockHandler struct {
	svc restockService
}

// NewRestockHandler construye el handler.
func NewRestockHandler(svc restockService) *RestockHandler {
	return &RestockHandler{svc: svc}
}

// List godoc
// @Summary      Listar solicitudes de reposición
// @Tags         restocks
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "pending | in_progress | completed | cancelled | all"
// @Success      200  {array}   dto.RestockResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/restocks [get]
func (h *RestockHandler) List(c *fiber.Ctx) error {
	list, err := h.svc.List(c.UserContext(), c.Query("status"))
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.RestockResponse, 0, len(list))
	for _, v := range list {
		out = append(out, toRestockResponse(v))
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear solicitud de reposición (storekeeper)
// @Tags         restocks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRestockRequest  true  "product_id, notified_to, requested_quantity"
// @Success      201  {object}  dto.RestockResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/restocks [post]
func (h *RestockHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateRestockRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	view, err := h.svc.Create(c.UserContext(), restock.CreateInput{
		ProductID:   in.ProductID,
		RequestedBy: GetUserID(c),
		NotifiedTo:  in.NotifiedTo,
		Quantity:    in.Quantity,
		Note:        in.Note,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toRestockResponse(*view))
}

// Get godoc
// @Summary      Solicitud de reposición con sus vínculos
// @Tags         restocks
// @Security     Bearer
// @Produce      json
// @Param        request_id  path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.RestockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/restocks/{request_id} [get]
func (h *RestockHandler) Get(c *fiber.Ctx) error {
	detail, err := h.svc.Get(c.UserContext(), c.Params("request_id"))
	if err != nil {
		return writeError(c, err)
	}
	out := toRestockResponse(detail.Request)
	out.Links = toLinkList(detail.Links)
	return c.JSON(out)
}

// UpdateStatus godoc
// @Summary      Cambiar el estado de una solicitud (storekeeper)
// @Tags         restocks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        request_id  path  string                          true  "ID de la solicitud"
// @Param        body        body  dto.UpdateRestockStatusRequest  true  "request_status"
// @Success      200  {object}  dto.RestockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/restocks/{request_id} [put]
func (h *RestockHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateRestockStatusRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	req, err := h.svc.UpdateStatus(c.UserContext(), c.Params("request_id"), in.Status, GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toRestockResponse(entity.RestockView{RestockRequest: *req}))
}

// Suggestions godoc
// @Summary      Productos en alerta con cantidad sugerida de reposición
// @Tags         restocks
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.RestockSuggestionResponse
// @Router       /api/restocks/suggestions [get]
func (h *RestockHandler) Suggestions(c *fiber.Ctx) error {
	list, err := h.svc.Suggestions(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.RestockSuggestionResponse, 0, len(list))
	for _, s := range list {
		out = append(out, dto.RestockSuggestionResponse{
			ProductID:    s.ProductID,
			ProductName:  s.ProductName,
			Unit:         s.Unit,
			CurrentStock: s.CurrentStock,
			Minimum:      s.Minimum,
			IdealStock:   s.IdealStock,
			SuggestedQty: s.SuggestedQty,
			DeficitPct:   s.DeficitPct,
			OpenRequest:  s.OpenRequest,
			Priority:     s.Priority,
		})
	}
	return c.JSON(out)
}

// ListLinks godoc
// @Summary      Listar vínculos de reposición
// @Tags         restocks
// @Security     Bearer
// @Produce      json
// @Param        request_id  query  string  false  "ID de la solicitud"
// @Param        status      query  string  false  "pending | received | cancelled | all"
// @Success      200  {array}  dto.RestockLinkResponse
// @Router       /api/restocks/links [get]
func (h *RestockHandler) ListLinks(c *fiber.Ctx) error {
	list, err := h.svc.ListLinks(c.UserContext(), c.Query("request_id"), c.Query("status"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toLinkList(list))
}

// CreateLink godoc
// @Summary      Vincular un comprobante de entrada a una solicitud (import_staff)
// @Tags         restocks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRestockLinkRequest  true  "restock_request_id, import_receipt_id"
// @Success      201  {object}  dto.RestockLinkResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/restocks/links [post]
func (h *RestockHandler) CreateLink(c *fiber.Ctx) error {
	var in dto.CreateRestockLinkRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	link, err := h.svc.Link(c.UserContext(), restock.LinkInput{
		RequestID:       in.RequestID,
		ImportReceiptID: in.ImportReceiptID,
		CreatedBy:       GetUserID(c),
		Note:            in.Note,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toLinkResponse(link))
}

// GetLink godoc
// @Summary      Vínculo de reposición
// @Tags         restocks
// @Security     Bearer
// @Produce      json
// @Param        link_id  path  string  true  "ID del vínculo"
// @Success      200  {object}  dto.RestockLinkResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/restocks/links/{link_id} [get]
func (h *RestockHandler) GetLink(c *fiber.Ctx) error {
	link, err := h.svc.GetLink(c.UserContext(), c.Params("link_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toLinkResponse(link))
}

// UpdateLink godoc
// @Summary      Marcar un vínculo como recibido o cancelado (storekeeper)
// @Tags         restocks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        link_id  path  string                        true  "ID del vínculo"
// @Param        body     body  dto.UpdateRestockLinkRequest  true  "link_status"
// @Success      200  {object}  dto.RestockLinkResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/restocks/links/{link_id} [put]
func (h *RestockHandler) UpdateLink(c *fiber.Ctx) error {
	var in dto.UpdateRestockLinkRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	link, err := h.svc.UpdateLinkStatus(c.UserContext(), c.Params("link_id"), in.Status, GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toLinkResponse(link))
}

func toRestockResponse(v entity.RestockView) dto.RestockResponse {
	return dto.RestockResponse{
		ID:            v.ID,
		ProductID:     v.ProductID,
		ProductName:   v.ProductName,
		RequestedBy:   v.RequestedBy,
		RequesterName: v.RequesterName,
		NotifiedTo:    v.NotifiedTo,
		NotifiedName:  v.NotifiedName,
		Quantity:      v.Quantity,
		Note:          v.Note,
		Status:        string(v.Status),
		CreatedAt:     v.CreatedAt,
		UpdatedAt:     v.UpdatedAt,
	}
}

func toLinkResponse(l *entity.RestockLink) dto.RestockLinkResponse {
	return dto.RestockLinkResponse{
		ID:              l.ID,
		RequestID:       l.RequestID,
		ImportReceiptID: l.ImportReceiptID,
		Note:            l.Note,
		Status:          string(l.Status),
		CreatedBy:       l.CreatedBy,
		CreatedAt:       l.CreatedAt,
		UpdatedAt:       l.UpdatedAt,
	}
}

func toLinkList(list []*entity.RestockLink) []dto.RestockLinkResponse {
	out := make([]dto.RestockLinkResponse, 0, len(list))
	for _, l := range list {
		out = append(out, toLinkResponse(l))
	}
	return out
}
