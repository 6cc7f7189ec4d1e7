package restock

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
)

// idealFactor el stock ideal tras reponer es el mínimo por este factor.
var idealFactor = decimal.NewFromFloat(1.5)

// Suggestion producto bajo su mínimo con la cantidad sugerida de reposición.
type Suggestion struct {
	ProductID    string
	ProductName  string
	Unit         string
	CurrentStock int64
	Minimum      int64
	IdealStock   int64
	SuggestedQty int64
	DeficitPct   decimal.Decimal // cuánto falta para el mínimo, en % del mínimo
	OpenRequest  bool            // ya existe una solicitud pending o in_progress
	Priority     int             // 1 = más urgente
}

// Suggestions lista los productos en alerta de stock con la cantidad a pedir para llegar al ideal.
// Orden: sin solicitud abierta primero, luego mayor déficit relativo, luego mayor cantidad sugerida.
func (uc *UseCase) Suggestions(ctx context.Context) ([]Suggestion, error) {
	views, err := uc.stocks.ListViews(ctx, true)
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return []Suggestion{}, nil
	}

	// Sin el mapa de solicitudes abiertas la lista sigue siendo útil.
	open, err := uc.restocks.OpenProductIDs(ctx)
	if err != nil {
		uc.log.Warn().Err(err).Msg("solicitudes abiertas para sugerencias de reposición")
		open = map[string]bool{}
	}

	hundred := decimal.NewFromInt(100)
	out := make([]Suggestion, 0, len(views))
	for _, v := range views {
		minimum := decimal.NewFromInt(v.Minimum)
		ideal := minimum.Mul(idealFactor).Ceil().IntPart()
		suggested := ideal - v.Quantity
		if suggested < 0 {
			suggested = 0
		}
		deficit := decimal.Zero
		if v.Minimum > 0 {
			deficit = minimum.Sub(decimal.NewFromInt(v.Quantity)).Div(minimum).Mul(hundred).Round(2)
		}
		out = append(out, Suggestion{
			ProductID:    v.ProductID,
			ProductName:  v.ProductName,
			Unit:         v.Unit,
			CurrentStock: v.Quantity,
			Minimum:      v.Minimum,
			IdealStock:   ideal,
			SuggestedQty: suggested,
			DeficitPct:   deficit,
			OpenRequest:  open[v.ProductID],
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.OpenRequest != b.OpenRequest {
			return !a.OpenRequest
		}
		if !a.DeficitPct.Equal(b.DeficitPct) {
			return a.DeficitPct.GreaterThan(b.DeficitPct)
		}
		if a.SuggestedQty != b.SuggestedQty {
			return a.SuggestedQty > b.SuggestedQty
		}
		return a.ProductName < b.ProductName
	})
	for i := range out {
		out[i].Priority = i + 1
	}
	return out, nil
}
