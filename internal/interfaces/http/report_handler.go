package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/reports"
)

// ReportHandler reportes mensuales, inventario y dashboard.
type ReportHandler struct {
	uc  *reports.UseCase
	now func() time.Time
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *reports.UseCase) *ReportHandler {
	return &ReportHandler{uc: uc, now: time.Now}
}

// periodQuery ?month=&year=; cero = mes en curso.
type periodQuery struct {
	Month int `query:"month"`
	Year  int `query:"year"`
}

func (h *ReportHandler) period(c *fiber.Ctx) (int, int, bool, error) {
	var q periodQuery
	if err := c.QueryParser(&q); err != nil {
		return 0, 0, false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "INVALID_PARAMS", Message: "parámetros de consulta inválidos",
		})
	}
	now := h.now()
	if q.Month == 0 {
		q.Month = int(now.Month())
	}
	if q.Year == 0 {
		q.Year = now.Year()
	}
	return q.Month, q.Year, true, nil
}

// Movements godoc
// @Summary      Reporte mensual de entradas o salidas aprobadas por producto
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        kind   path   string  true   "import | export"
// @Param        month  query  int     false  "Mes (1-12). Default: mes actual."
// @Param        year   query  int     false  "Año. Default: año actual."
// @Success      200  {object}  dto.MovementReport
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/{kind} [get]
func (h *ReportHandler) Movements(c *fiber.Ctx) error {
	kind, ok, err := kindParam(c)
	if !ok {
		return err
	}
	month, year, ok, err := h.period(c)
	if !ok {
		return err
	}
	report, err := h.uc.Movements(c.UserContext(), kind, month, year)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(report)
}

// Inventory godoc
// @Summary      Foto del inventario actual
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.InventorySnapshotRow
// @Router       /api/reports/inventory [get]
func (h *ReportHandler) Inventory(c *fiber.Ctx) error {
	rows, err := h.uc.Inventory(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(rows)
}

// Dashboard godoc
// @Summary      Resumen del mes: entradas, salidas y productos bajo el mínimo
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        month  query  int  false  "Mes (1-12). Default: mes actual."
// @Param        year   query  int  false  "Año. Default: año actual."
// @Success      200  {object}  dto.DashboardSummary
// @Router       /api/reports/dashboard [get]
func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	month, year, ok, err := h.period(c)
	if !ok {
		return err
	}
	summary, err := h.uc.Dashboard(c.UserContext(), month, year)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(summary)
}
