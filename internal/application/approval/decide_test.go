package approval_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/approval"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

const (
	receiptA    = "11111111-1111-1111-1111-111111111111"
	receiptB    = "22222222-2222-2222-2222-222222222222"
	productLow  = "00000000-0000-0000-0000-00000000000a"
	productHigh = "00000000-0000-0000-0000-00000000000b"
	approverID  = "99999999-9999-9999-9999-999999999999"
)

var fixedNow = time.Date(2024, 5, 10, 9, 30, 0, 0, time.UTC)

func line(productID string, qty int64) entity.ReceiptLine {
	return entity.ReceiptLine{ID: productID + "-line", ProductID: productID, Quantity: qty}
}

func newUseCase(store *memStore, cache *fakeCache, alerts *fakeAlerts) *approval.DecideUseCase {
	var (
		c approval.CacheInvalidator
		a approval.AlertPublisher
	)
	if cache != nil {
		c = cache
	}
	if alerts != nil {
		a = alerts
	}
	return approval.NewDecideUseCase(store, c, a, zerolog.Nop()).WithClock(func() time.Time { return fixedNow })
}

func TestDecide_ExportApprovedLowersStockAndSetsWarning(t *testing.T) {
	store := newMemStore()
	store.addProduct(productLow, "Tornillo", 10, 5)
	store.addReceipt(entity.ReceiptExport, receiptA, line(productLow, 7))
	cache, alerts := &fakeCache{}, &fakeAlerts{}
	uc := newUseCase(store, cache, alerts)

	res, err := uc.Decide(context.Background(), approval.DecideInput{
		Kind: entity.ReceiptExport, ReceiptID: receiptA, ApproverID: approverID, Verdict: "approved",
	})
	require.NoError(t, err)

	st := store.stock(productLow)
	assert.Equal(t, int64(3), st.Quantity)
	assert.True(t, st.Warning)
	assert.Equal(t, fixedNow, st.UpdatedAt)
	assert.Equal(t, entity.StatusApproved, store.status(entity.ReceiptExport, receiptA))

	require.NotNil(t, res.Approval)
	assert.Equal(t, approval.DefaultExportReason, res.Approval.Reason)
	assert.Equal(t, approverID, res.Approval.ApproverID)
	assert.Equal(t, entity.StatusApproved, res.Approval.Decision)
	assert.Equal(t, fixedNow, res.Approval.DecidedAt)
	assert.Contains(t, res.Message, "aprobado")

	require.Len(t, res.Adjustments, 1)
	assert.Equal(t, approval.StockAdjustment{
		ProductID: productLow, ProductName: "Tornillo", Before: 10, After: 3, Minimum: 5, Warning: true,
	}, res.Adjustments[0])

	assert.Equal(t, 1, cache.bumps)
	require.Len(t, alerts.alerts, 1)
	assert.Equal(t, productLow, alerts.alerts[0].ProductID)
	assert.Equal(t, int64(3), alerts.alerts[0].Quantity)
}

func TestDecide_ExportInsufficientStockLeavesEverythingUntouched(t *testing.T) {
	store := newMemStore()
	store.addProduct(productLow, "Tornillo", 3, 5)
	store.addReceipt(entity.ReceiptExport, receiptA, line(productLow, 7))
	cache := &fakeCache{}
	uc := newUseCase(store, cache, nil)

	res, err := uc.Decide(context.Background(), approval.DecideInput{
		Kind: entity.ReceiptExport, ReceiptID: receiptA, ApproverID: approverID, Verdict: "approved",
	})
	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	var insufficient *domain.InsufficientStockError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, productLow, insufficient.ProductID)
	assert.Equal(t, int64(3), insufficient.Available)
	assert.Equal(t, int64(7), insufficient.Requested)

	assert.Equal(t, int64(3), store.quantity(productLow))
	assert.Equal(t, entity.StatusPending, store.status(entity.ReceiptExport, receiptA))
	assert.Zero(t, store.approvalCount())
	assert.Zero(t, cache.bumps)
}

func TestDecide_SecondLineFailureRollsBackFirstLine(t *testing.T) {
	store := newMemStore()
	store.addProduct(productLow, "Tornillo", 50, 5)
	store.addProduct(productHigh, "Tuerca", 1, 0)
	// Orden de las líneas invertido: el motor las procesa por product_id ascendente.
	store.addReceipt(entity.ReceiptExport, receiptA, line(productHigh, 2), line(productLow, 10))
	uc := newUseCase(store, nil, nil)

	_, err := uc.Decide(context.Background(), approval.DecideInput{
		Kind: entity.ReceiptExport, ReceiptID: receiptA, ApproverID: approverID, Verdict: "approved",
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, int64(50), store.quantity(productLow))
	assert.Equal(t, int64(1), store.quantity(productHigh))
	assert.Equal(t, entity.StatusPending, store.status(entity.ReceiptExport, receiptA))
	assert.Zero(t, store.approvalCount())
}

func TestDecide_ImportApprovedRaisesStockAndClearsWarning(t *testing.T) {
	store := newMemStore()
	store.addProduct(productLow, "Tornillo", 2, 5)
	store.addReceipt(entity.ReceiptImport, receiptA, line(productLow, 3))
	alerts := &fakeAlerts{}
	uc := newUseCase(store, nil, alerts)

	res, err := uc.Decide(context.Background(), approval.DecideInput{
		Kind: entity.ReceiptImport, ReceiptID: receiptA, ApproverID: approverID, Verdict: "approved",
	})
	require.NoError(t, err)

	st := store.stock(productLow)
	assert.Equal(t, int64(5), st.Quantity)
	assert.False(t, st.Warning, "cantidad igual al mínimo no es alerta")
	assert.Equal(t, approval.DefaultImportApproved, res.Approval.Reason)
	assert.Empty(t, alerts.alerts)
}

func TestDecide_RejectDoesNotTouchStock(t *testing.T) {
	store := newMemStore()
	store.addProduct(productLow, "Tornillo", 10, 5)
	store.addReceipt(entity.ReceiptImport, receiptA, line(productLow, 4))
	uc := newUseCase(store, nil, nil)

	res, err := uc.Decide(context.Background(), approval.DecideInput{
		Kind: entity.ReceiptImport, ReceiptID: receiptA, ApproverID: approverID,
		Verdict: "rejected", Reason: "  mercancía dañada ",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(10), store.quantity(productLow))
	assert.Equal(t, entity.StatusRejected, store.status(entity.ReceiptImport, receiptA))
	assert.Equal(t, "mercancía dañada", res.Approval.Reason)
	assert.Empty(t, res.Adjustments)
	assert.Contains(t, res.Message, "rechazado")
}

func TestDecide_ReasonDefaults(t *testing.T) {
	t.Run("entrada rechazada sin motivo", func(t *testing.T) {
		store := newMemStore()
		store.addProduct(productLow, "Tornillo", 10, 5)
		store.addReceipt(entity.ReceiptImport, receiptA, line(productLow, 4))
		uc := newUseCase(store, nil, nil)

		_, err := uc.Decide(context.Background(), approval.DecideInput{
			Kind: entity.ReceiptImport, ReceiptID: receiptA, ApproverID: approverID, Verdict: "rejected", Reason: "   ",
		})
		require.ErrorIs(t, err, domain.ErrReasonRequired)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Zero(t, store.txCount, "la validación ocurre antes de abrir la transacción")
		assert.Equal(t, entity.StatusPending, store.status(entity.ReceiptImport, receiptA))
	})

	t.Run("salida rechazada sin motivo", func(t *testing.T) {
		store := newMemStore()
		store.addProduct(productLow, "Tornillo", 10, 5)
		store.addReceipt(entity.ReceiptExport, receiptA, line(productLow, 4))
		uc := newUseCase(store, nil, nil)

		res, err := uc.Decide(context.Background(), approval.DecideInput{
			Kind: entity.ReceiptExport, ReceiptID: receiptA, ApproverID: approverID, Verdict: "rejected",
		})
		require.NoError(t, err)
		assert.Equal(t, approval.DefaultExportReason, res.Approval.Reason)
		assert.Equal(t, entity.StatusRejected, store.status(entity.ReceiptExport, receiptA))
	})
}

func TestDecide_TerminalStateIsFinal(t *testing.T) {
	store := newMemStore()
	store.addProduct(productLow, "Tornillo", 10, 5)
	store.addReceipt(entity.ReceiptImport, receiptA, line(productLow, 4))
	uc := newUseCase(store, nil, nil)
	in := approval.DecideInput{Kind: entity.ReceiptImport, ReceiptID: receiptA, ApproverID: approverID, Verdict: "approved"}

	_, err := uc.Decide(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, int64(14), store.quantity(productLow))

	for _, verdict := range []string{"approved", "rejected"} {
		in.Verdict = verdict
		in.Reason = "otra vez"
		_, err = uc.Decide(context.Background(), in)
		assert.ErrorIs(t, err, domain.ErrConflict, verdict)
	}
	assert.Equal(t, int64(14), store.quantity(productLow))
	assert.Equal(t, entity.StatusApproved, store.status(entity.ReceiptImport, receiptA))
	assert.Equal(t, 1, store.approvalCount())
}

func TestDecide_ReceiptNotFound(t *testing.T) {
	store := newMemStore()
	uc := newUseCase(store, nil, nil)

	_, err := uc.Decide(context.Background(), approval.DecideInput{
		Kind: entity.ReceiptExport, ReceiptID: receiptB, ApproverID: approverID, Verdict: "approved",
	})
	assert.ErrorIs(t, err, domain.ErrReceiptNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDecide_ReceiptKindsAreSeparate(t *testing.T) {
	store := newMemStore()
	store.addProduct(productLow, "Tornillo", 10, 5)
	store.addReceipt(entity.ReceiptImport, receiptA, line(productLow, 4))
	uc := newUseCase(store, nil, nil)

	_, err := uc.Decide(context.Background(), approval.DecideInput{
		Kind: entity.ReceiptExport, ReceiptID: receiptA, ApproverID: approverID, Verdict: "approved",
	})
	assert.ErrorIs(t, err, domain.ErrReceiptNotFound)
	assert.Equal(t, entity.StatusPending, store.status(entity.ReceiptImport, receiptA))
}

func TestDecide_MissingStockRow(t *testing.T) {
	store := newMemStore()
	store.addProduct(productLow, "Tornillo", 10, 5)
	store.addReceipt(entity.ReceiptImport, receiptA, line(productLow, 1), line(productHigh, 1))
	uc := newUseCase(store, nil, nil)

	_, err := uc.Decide(context.Background(), approval.DecideInput{
		Kind: entity.ReceiptImport, ReceiptID: receiptA, ApproverID: approverID, Verdict: "approved",
	})
	var missing *domain.StockNotFoundError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, productHigh, missing.ProductID)
	assert.ErrorIs(t, err, domain.ErrStockNotFound)

	assert.Equal(t, int64(10), store.quantity(productLow))
	assert.Equal(t, entity.StatusPending, store.status(entity.ReceiptImport, receiptA))
	assert.Zero(t, store.approvalCount())
}

func TestDecide_MissingProductWithStockRow(t *testing.T) {
	store := newMemStore()
	store.addProduct(productLow, "Tornillo", 10, 5)
	store.addProduct(productHigh, "Tuerca", 10, 5)
	delete(store.products, productHigh)
	store.addReceipt(entity.ReceiptImport, receiptA, line(productLow, 1), line(productHigh, 1))
	uc := newUseCase(store, nil, nil)

	_, err := uc.Decide(context.Background(), approval.DecideInput{
		Kind: entity.ReceiptImport, ReceiptID: receiptA, ApproverID: approverID, Verdict: "approved",
	})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NotErrorIs(t, err, domain.ErrStockNotFound)
	assert.Contains(t, err.Error(), productHigh)

	assert.Equal(t, int64(10), store.quantity(productLow))
	assert.Equal(t, entity.StatusPending, store.status(entity.ReceiptImport, receiptA))
	assert.Zero(t, store.approvalCount())
}

func TestDecide_RepeatedProductLinesMergeIntoOneAdjustment(t *testing.T) {
	store := newMemStore()
	store.addProduct(productLow, "Tornillo", 10, 5)
	store.addReceipt(entity.ReceiptExport, receiptA, line(productLow, 3), line(productLow, 4))
	uc := newUseCase(store, nil, nil)

	res, err := uc.Decide(context.Background(), approval.DecideInput{
		Kind: entity.ReceiptExport, ReceiptID: receiptA, ApproverID: approverID, Verdict: "approved",
	})
	require.NoError(t, err)
	require.Len(t, res.Adjustments, 1)
	assert.Equal(t, int64(10), res.Adjustments[0].Before)
	assert.Equal(t, int64(3), res.Adjustments[0].After)
	assert.Equal(t, int64(3), store.quantity(productLow))
}

func TestDecide_InvalidInput(t *testing.T) {
	cases := []struct {
		name string
		in   approval.DecideInput
		want error
	}{
		{"sin aprobador", approval.DecideInput{Kind: entity.ReceiptImport, ReceiptID: receiptA, Verdict: "approved"}, domain.ErrUnauthorized},
		{"tipo desconocido", approval.DecideInput{Kind: "transfer", ReceiptID: receiptA, ApproverID: approverID, Verdict: "approved"}, domain.ErrInvalidInput},
		{"id no uuid", approval.DecideInput{Kind: entity.ReceiptImport, ReceiptID: "abc", ApproverID: approverID, Verdict: "approved"}, domain.ErrInvalidInput},
		{"veredicto pending", approval.DecideInput{Kind: entity.ReceiptImport, ReceiptID: receiptA, ApproverID: approverID, Verdict: "pending"}, domain.ErrInvalidInput},
		{"veredicto vacío", approval.DecideInput{Kind: entity.ReceiptImport, ReceiptID: receiptA, ApproverID: approverID}, domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newMemStore()
			store.addProduct(productLow, "Tornillo", 10, 5)
			store.addReceipt(entity.ReceiptImport, receiptA, line(productLow, 1))
			uc := newUseCase(store, nil, nil)

			_, err := uc.Decide(context.Background(), tc.in)
			assert.ErrorIs(t, err, tc.want)
			assert.Zero(t, store.txCount)
		})
	}
}

func TestDecide_SideEffectFailuresDoNotFailDecision(t *testing.T) {
	store := newMemStore()
	store.addProduct(productLow, "Tornillo", 6, 5)
	store.addReceipt(entity.ReceiptExport, receiptA, line(productLow, 2))
	uc := newUseCase(store, &fakeCache{err: errors.New("redis caído")}, &fakeAlerts{err: errors.New("cola caída")})

	res, err := uc.Decide(context.Background(), approval.DecideInput{
		Kind: entity.ReceiptExport, ReceiptID: receiptA, ApproverID: approverID, Verdict: "approved",
	})
	require.NoError(t, err)
	assert.True(t, res.Adjustments[0].Warning)
	assert.Equal(t, int64(4), store.quantity(productLow))
}

func TestDecide_ConcurrentDecisionsOnSameReceipt(t *testing.T) {
	store := newMemStore()
	store.addProduct(productLow, "Tornillo", 100, 5)
	store.addReceipt(entity.ReceiptExport, receiptA, line(productLow, 10))
	uc := newUseCase(store, nil, nil)

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		ok        int
		conflicts int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Decide(context.Background(), approval.DecideInput{
				Kind: entity.ReceiptExport, ReceiptID: receiptA, ApproverID: approverID, Verdict: "approved",
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrConflict):
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, workers-1, conflicts)
	assert.Equal(t, int64(90), store.quantity(productLow))
	assert.Equal(t, 1, store.approvalCount())
}

func TestDecide_StockIsConservedAcrossDecisions(t *testing.T) {
	store := newMemStore()
	store.addProduct(productLow, "Tornillo", 20, 5)
	ids := []string{
		"30000000-0000-0000-0000-000000000001",
		"30000000-0000-0000-0000-000000000002",
		"30000000-0000-0000-0000-000000000003",
		"30000000-0000-0000-0000-000000000004",
	}
	store.addReceipt(entity.ReceiptImport, ids[0], line(productLow, 15))
	store.addReceipt(entity.ReceiptExport, ids[1], line(productLow, 30))
	store.addReceipt(entity.ReceiptExport, ids[2], line(productLow, 50)) // insuficiente
	store.addReceipt(entity.ReceiptImport, ids[3], line(productLow, 8))  // rechazada
	uc := newUseCase(store, nil, nil)

	decide := func(kind entity.ReceiptKind, id, verdict string) error {
		_, err := uc.Decide(context.Background(), approval.DecideInput{
			Kind: kind, ReceiptID: id, ApproverID: approverID, Verdict: verdict, Reason: "revisado",
		})
		return err
	}
	require.NoError(t, decide(entity.ReceiptImport, ids[0], "approved"))
	require.NoError(t, decide(entity.ReceiptExport, ids[1], "approved"))
	require.ErrorIs(t, decide(entity.ReceiptExport, ids[2], "approved"), domain.ErrInsufficientStock)
	require.NoError(t, decide(entity.ReceiptImport, ids[3], "rejected"))

	// inicial + entradas aprobadas - salidas aprobadas
	st := store.stock(productLow)
	assert.Equal(t, int64(20+15-30), st.Quantity)
	assert.Equal(t, st.Quantity < 5, st.Warning)
	assert.Equal(t, 3, store.approvalCount())
}
