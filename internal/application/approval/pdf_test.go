package approval_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/approval"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

type fakeRenderer struct {
	got *approval.ReceiptDetail
	err error
}

func (f *fakeRenderer) RenderReceipt(_ context.Context, detail *approval.ReceiptDetail) ([]byte, error) {
	f.got = detail
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.3"), nil
}

func TestPDFDownload(t *testing.T) {
	store := newMemStore()
	store.addProduct(productLow, "Tornillo", 10, 5)
	store.addReceipt(entity.ReceiptExport, receiptA, line(productLow, 2))
	renderer := &fakeRenderer{}
	uc := approval.NewPDFUseCase(newQuery(store), renderer)

	doc, name, err := uc.Download(context.Background(), entity.ReceiptExport, receiptA)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.3"), doc)
	assert.Contains(t, name, "export_")
	assert.Contains(t, name, ".pdf")
	require.NotNil(t, renderer.got)
	assert.Len(t, renderer.got.Lines, 1)
}

func TestPDFDownload_NotFound(t *testing.T) {
	renderer := &fakeRenderer{}
	uc := approval.NewPDFUseCase(newQuery(newMemStore()), renderer)

	_, _, err := uc.Download(context.Background(), entity.ReceiptImport, "no-existe")
	assert.ErrorIs(t, err, domain.ErrReceiptNotFound)
	assert.Nil(t, renderer.got)
}

func TestPDFDownload_RendererError(t *testing.T) {
	store := newMemStore()
	store.addProduct(productLow, "Tornillo", 10, 5)
	store.addReceipt(entity.ReceiptImport, receiptA, line(productLow, 2))
	uc := approval.NewPDFUseCase(newQuery(store), &fakeRenderer{err: errors.New("fuente")})

	_, _, err := uc.Download(context.Background(), entity.ReceiptImport, receiptA)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fuente")
}

func TestPDFDownload_IDMalFormado(t *testing.T) {
	renderer := &fakeRenderer{}
	uc := approval.NewPDFUseCase(newQuery(newMemStore()), renderer)

	_, _, err := uc.Download(context.Background(), entity.ReceiptExport, "abc")
	assert.ErrorIs(t, err, domain.ErrReceiptNotFound)
	assert.Nil(t, renderer.got)
}
