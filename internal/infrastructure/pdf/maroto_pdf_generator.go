// Package pdf genera la versión imprimible de los comprobantes de entrada y salida.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Tipo de comprobante  │  N° + Fecha + Estado        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CONTRAPARTE: Proveedor / Cliente                            │
//	│  CREADO POR                                                  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Producto | Unidad | P.Unit | Subtotal         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL                                                       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DECISIÓN: Aprobador + Fecha + Motivo                        │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/application/approval"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorGreen   = &props.Color{Red: 0, Green: 120, Blue: 60}
	colorRed     = &props.Color{Red: 170, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ approval.ReceiptPDFRenderer = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa approval.ReceiptPDFRenderer usando Maroto v2.
type MarotoPDFGenerator struct {
	author string
}

// NewMarotoPDFGenerator construye el generador; author se usa en los metadatos del documento.
func NewMarotoPDFGenerator(author string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{author: author}
}

// RenderReceipt genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) RenderReceipt(_ context.Context, detail *approval.ReceiptDetail) ([]byte, error) {
	if detail == nil {
		return nil, fmt.Errorf("pdf: comprobante vacío")
	}
	s := detail.Summary

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(kindTitle(s.Kind), true).
		WithAuthor(nonEmpty(g.author, "almacen-api"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(s))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(partiesRow(s))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(detail.Lines)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(s.TotalAmount))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(decisionRows(detail)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func kindTitle(kind entity.ReceiptKind) string {
	if kind == entity.ReceiptExport {
		return "COMPROBANTE DE SALIDA"
	}
	return "COMPROBANTE DE ENTRADA"
}

func counterpartyLabel(kind entity.ReceiptKind) string {
	if kind == entity.ReceiptExport {
		return "CLIENTE"
	}
	return "PROVEEDOR"
}

// statusLabel texto y color del estado.
func statusLabel(status entity.ReceiptStatus) (string, *props.Color) {
	switch status {
	case entity.StatusApproved:
		return "APROBADO", colorGreen
	case entity.StatusRejected:
		return "RECHAZADO", colorRed
	default:
		return "PENDIENTE", colorGray
	}
}

// headerRow: tipo de comprobante (izq) y número + fecha + estado (der).
func headerRow(s repository.ReceiptSummary) core.Row {
	label, color := statusLabel(s.Status)
	return row.New(22).Add(
		col.New(7).Add(
			text.New(kindTitle(s.Kind), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New("N° "+strings.ToUpper(shortID(s.ID)), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 1,
			}),
			text.New("Fecha: "+s.CreatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
			text.New(label, props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 14, Color: color,
			}),
		),
	)
}

// partiesRow: contraparte y usuario que registró el comprobante.
func partiesRow(s repository.ReceiptSummary) core.Row {
	return row.New(14).Add(
		col.New(7).Add(
			text.New(counterpartyLabel(s.Kind), props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(s.CounterpartyName, s.CounterpartyID), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
		),
		col.New(5).Add(
			text.New("REGISTRADO POR", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(s.CreatorName, "—"), props.Text{
				Size: 9, Align: align.Right, Top: 6,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Producto", 5, align.Left),
		h("Unidad", 1, align.Center),
		h("Precio Unit.", 2, align.Right),
		h("Subtotal", 3, align.Right),
	)
}

// tableDetailRows: una fila por línea del comprobante.
func tableDetailRows(lines []repository.ReceiptLineView) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				fmt.Sprintf("%d", l.Quantity),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(5).Add(text.New(
				nonEmpty(l.ProductName, l.ProductID),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(1).Add(text.New(
				l.Unit,
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(2).Add(text.New(
				"$"+formatMoney(l.UnitPrice),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(3).Add(text.New(
				"$"+formatMoney(l.LineTotal),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

func totalRow(total decimal.Decimal) core.Row {
	return row.New(10).Add(
		col.New(6),
		col.New(3).Add(text.New("TOTAL:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2, Top: 2,
		})),
		col.New(3).Add(text.New("$"+formatMoney(total), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1, Top: 2,
		})),
	)
}

// decisionRows: bloque del aprobador. Pendiente si aún no hay decisión.
func decisionRows(detail *approval.ReceiptDetail) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("DECISIÓN DEL ALMACENISTA", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
	}
	rec := detail.Approval
	if rec == nil {
		return append(rows, row.New(6).Add(col.New(12).Add(
			text.New("Pendiente de aprobación", props.Text{Size: 8, Color: colorGray, Top: 1}),
		)))
	}
	label, color := statusLabel(rec.Decision)
	return append(rows,
		row.New(6).Add(
			col.New(4).Add(text.New(label, props.Text{Style: fontstyle.Bold, Size: 9, Color: color, Top: 1})),
			col.New(4).Add(text.New("Por: "+nonEmpty(detail.Summary.ApproverName, rec.ApproverID), props.Text{Size: 8, Top: 1})),
			col.New(4).Add(text.New(rec.DecidedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 1, Color: colorGray,
			})),
		),
		row.New(8).Add(col.New(12).Add(
			text.New("Motivo: "+nonEmpty(rec.Reason, "—"), props.Text{Size: 8, Top: 1}),
		)),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// formatMoney redondea a entero e inserta puntos de miles.
// Ej: 25000 → "25.000", -1000000 → "-1.000.000"
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(0)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	n := len(s)
	if n <= 3 {
		return sign + s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf)
}
