package reports

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// Cache caché versionada de reportes (Redis). Una decisión confirmada incrementa la versión.
type Cache interface {
	BuildKey(ctx context.Context, parts ...string) (string, error)
	FetchJSON(ctx context.Context, key string, dest any, loader func(context.Context) (any, error)) error
}

// UseCase reportes mensuales de entradas/salidas, inventario actual y dashboard.
type UseCase struct {
	reports repository.ReportRepository
	stocks  repository.StockRepository
	cache   Cache
	loc     *time.Location
}

// NewUseCase construye el caso de uso. cache puede ser nil (sin caché).
func NewUseCase(reports repository.ReportRepository, stocks repository.StockRepository, cache Cache) *UseCase {
	return &UseCase{reports: reports, stocks: stocks, cache: cache, loc: time.UTC}
}

// WithLocation fija la zona horaria con la que se delimitan los meses.
func (uc *UseCase) WithLocation(loc *time.Location) *UseCase {
	if loc != nil {
		uc.loc = loc
	}
	return uc
}

func validPeriod(month, year int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("mes %d: %w", month, domain.ErrInvalidInput)
	}
	if year < 2000 || year > 2100 {
		return fmt.Errorf("año %d: %w", year, domain.ErrInvalidInput)
	}
	return nil
}

func (uc *UseCase) cached(ctx context.Context, dest any, loader func(context.Context) (any, error), parts ...string) error {
	if uc.cache == nil {
		v, err := loader(ctx)
		if err != nil {
			return err
		}
		return assign(dest, v)
	}
	key, err := uc.cache.BuildKey(ctx, parts...)
	if err != nil {
		return err
	}
	return uc.cache.FetchJSON(ctx, key, dest, loader)
}

// assign copia el resultado del loader al destino cuando no hay caché (misma forma que un acierto de caché).
func assign(dest, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

// Movements reporte mensual por producto de comprobantes aprobados (kind = import | export).
func (uc *UseCase) Movements(ctx context.Context, kind entity.ReceiptKind, month, year int) (*dto.MovementReport, error) {
	if !kind.Valid() {
		return nil, domain.ErrInvalidInput
	}
	if err := validPeriod(month, year); err != nil {
		return nil, err
	}
	var out dto.MovementReport
	err := uc.cached(ctx, &out, func(ctx context.Context) (any, error) {
		return uc.loadMovements(ctx, kind, month, year)
	}, "report", "movements", string(kind), fmt.Sprintf("%04d-%02d", year, month))
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (uc *UseCase) loadMovements(ctx context.Context, kind entity.ReceiptKind, month, year int) (dto.MovementReport, error) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, uc.loc)
	end := start.AddDate(0, 1, 0)
	totals, err := uc.reports.MovementTotals(ctx, kind, start, end)
	if err != nil {
		return dto.MovementReport{}, err
	}
	report := dto.MovementReport{
		Kind:       string(kind),
		Month:      month,
		Year:       year,
		Rows:       make([]dto.MovementReportRow, 0, len(totals)),
		TotalValue: decimal.Zero,
	}
	for _, t := range totals {
		report.Rows = append(report.Rows, dto.MovementReportRow{
			ProductID:   t.ProductID,
			ProductName: t.ProductName,
			Unit:        t.Unit,
			Quantity:    t.Quantity,
			Value:       t.Value,
		})
		report.TotalQty += t.Quantity
		report.TotalValue = report.TotalValue.Add(t.Value)
	}
	return report, nil
}

// Inventory existencias actuales de los productos disponibles.
func (uc *UseCase) Inventory(ctx context.Context) ([]dto.InventorySnapshotRow, error) {
	var out []dto.InventorySnapshotRow
	err := uc.cached(ctx, &out, func(ctx context.Context) (any, error) {
		return uc.loadInventory(ctx)
	}, "report", "inventory")
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (uc *UseCase) loadInventory(ctx context.Context) ([]dto.InventorySnapshotRow, error) {
	views, err := uc.stocks.ListViews(ctx, false)
	if err != nil {
		return nil, err
	}
	rows := make([]dto.InventorySnapshotRow, 0, len(views))
	for _, v := range views {
		rows = append(rows, dto.InventorySnapshotRow{
			ProductID:     v.ProductID,
			ProductName:   v.ProductName,
			Unit:          v.Unit,
			CurrentStock:  v.Quantity,
			MinimumLevel:  v.Minimum,
			Warning:       v.Warning,
			ProductStatus: v.ProductStatus,
			LastUpdatedAt: v.UpdatedAt,
		})
	}
	return rows, nil
}

// Dashboard resumen del mes: entradas, salidas e inventario bajo mínimo, consultados en paralelo.
func (uc *UseCase) Dashboard(ctx context.Context, month, year int) (*dto.DashboardSummary, error) {
	if err := validPeriod(month, year); err != nil {
		return nil, err
	}
	var out dto.DashboardSummary
	err := uc.cached(ctx, &out, func(ctx context.Context) (any, error) {
		return uc.loadDashboard(ctx, month, year)
	}, "report", "dashboard", fmt.Sprintf("%04d-%02d", year, month))
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (uc *UseCase) loadDashboard(ctx context.Context, month, year int) (dto.DashboardSummary, error) {
	summary := dto.DashboardSummary{Month: month, Year: year}
	var inventory []dto.InventorySnapshotRow

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := uc.loadMovements(gctx, entity.ReceiptImport, month, year)
		summary.Imports = r
		return err
	})
	g.Go(func() error {
		r, err := uc.loadMovements(gctx, entity.ReceiptExport, month, year)
		summary.Exports = r
		return err
	})
	g.Go(func() error {
		var err error
		inventory, err = uc.loadInventory(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return dto.DashboardSummary{}, err
	}

	summary.LowStock = []dto.InventorySnapshotRow{}
	for _, row := range inventory {
		if row.Warning {
			summary.LowStock = append(summary.LowStock, row)
		}
	}
	summary.WarningCount = len(summary.LowStock)
	return summary, nil
}
