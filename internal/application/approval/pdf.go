package approval

import (
	"context"
	"fmt"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// ReceiptPDFRenderer genera la representación imprimible de un comprobante.
type ReceiptPDFRenderer interface {
	RenderReceipt(ctx context.Context, detail *ReceiptDetail) ([]byte, error)
}

// PDFUseCase arma el detalle de un comprobante y lo pasa al renderer.
type PDFUseCase struct {
	query    *QueryUseCase
	renderer ReceiptPDFRenderer
}

// NewPDFUseCase construye el caso de uso.
func NewPDFUseCase(query *QueryUseCase, renderer ReceiptPDFRenderer) *PDFUseCase {
	return &PDFUseCase{query: query, renderer: renderer}
}

// Download devuelve los bytes del PDF y el nombre de archivo sugerido.
func (uc *PDFUseCase) Download(ctx context.Context, kind entity.ReceiptKind, id string) ([]byte, string, error) {
	detail, err := uc.query.Detail(ctx, kind, id)
	if err != nil {
		return nil, "", err
	}
	doc, err := uc.renderer.RenderReceipt(ctx, detail)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return doc, fmt.Sprintf("%s_%s.pdf", kind, shortID(id)), nil
}

// shortID primeros 8 caracteres del id (número visible del comprobante).
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
