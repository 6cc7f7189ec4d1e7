package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Almacen-api/internal/application/approval"
	"github.com/jhoicas/Almacen-api/internal/application/catalog"
	"github.com/jhoicas/Almacen-api/internal/application/receipts"
	"github.com/jhoicas/Almacen-api/internal/application/restock"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var (
	_ approval.TxRunner = (*TxRunner)(nil)
	_ receipts.TxRunner = (*TxRunner)(nil)
	_ catalog.TxRunner  = (*TxRunner)(nil)
	_ restock.TxRunner  = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// run inicia una transacción READ COMMITTED, ejecuta fn con la tx y hace Commit o Rollback.
// Las filas leídas con FOR UPDATE quedan bloqueadas hasta el final de la tx.
func (r *TxRunner) run(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunApproval transacción del motor de aprobación: comprobante, decisión y stock.
func (r *TxRunner) RunApproval(ctx context.Context, fn func(
	receiptRepo repository.ReceiptRepository,
	approvalRepo repository.ApprovalRepository,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewReceiptRepository(tx), NewApprovalRepository(tx), NewStockRepository(tx), NewProductRepository(tx))
	})
}

// RunReceipt transacción de alta de comprobantes (cabecera + líneas).
func (r *TxRunner) RunReceipt(ctx context.Context, fn func(
	receiptRepo repository.ReceiptRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	supplierRepo repository.SupplierRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewReceiptRepository(tx), NewProductRepository(tx), NewCustomerRepository(tx), NewSupplierRepository(tx))
	})
}

// RunCatalog transacción de producto + fila de stock.
func (r *TxRunner) RunCatalog(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	stockRepo repository.StockRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewProductRepository(tx), NewStockRepository(tx))
	})
}

// RunRestock transacción de solicitudes de reposición y sus vínculos con comprobantes de entrada.
func (r *TxRunner) RunRestock(ctx context.Context, fn func(
	restockRepo repository.RestockRepository,
	receiptRepo repository.ReceiptRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewRestockRepository(tx), NewReceiptRepository(tx), NewProductRepository(tx), NewUserRepository(tx))
	})
}
