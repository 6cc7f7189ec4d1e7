package receipts

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// TxRunner transacción de alta de comprobantes.
type TxRunner interface {
	RunReceipt(ctx context.Context, fn func(
		receiptRepo repository.ReceiptRepository,
		productRepo repository.ProductRepository,
		customerRepo repository.CustomerRepository,
		supplierRepo repository.SupplierRepository,
	) error) error
}
