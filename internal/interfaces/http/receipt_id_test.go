package http_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Almacen-api/internal/application/approval"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	apphttp "github.com/jhoicas/Almacen-api/internal/interfaces/http"
)

// errStorage lo que devuelve Postgres al castear un texto que no es UUID.
var errStorage = errors.New("ERROR: invalid input syntax for type uuid: \"abc\" (SQLSTATE 22P02)")

// failingReceipts falla en cualquier consulta: el id mal formado no debe llegar a la base.
type failingReceipts struct{ repository.ReceiptRepository }

func (failingReceipts) Summary(context.Context, entity.ReceiptKind, string) (*repository.ReceiptSummary, error) {
	return nil, errStorage
}

func (failingReceipts) Lines(context.Context, entity.ReceiptKind, string) ([]repository.ReceiptLineView, error) {
	return nil, errStorage
}

type failingApprovals struct{ repository.ApprovalRepository }

func (failingApprovals) ListByReceipt(context.Context, entity.ReceiptKind, string) ([]*entity.ApprovalRecord, error) {
	return nil, errStorage
}

type unusedRenderer struct{}

func (unusedRenderer) RenderReceipt(context.Context, *approval.ReceiptDetail) ([]byte, error) {
	return nil, errStorage
}

func TestReceiptRoutes_IDMalFormado(t *testing.T) {
	query := approval.NewQueryUseCase(failingReceipts{}, failingApprovals{})
	env := &testEnv{decider: &fakeDecider{}, creator: &fakeCreator{}}
	env.app = fiber.New()
	apphttp.Router(env.app, apphttp.RouterDeps{
		Decider:   env.decider,
		Query:     query,
		PDF:       approval.NewPDFUseCase(query, unusedRenderer{}),
		Creator:   env.creator,
		JWTSecret: testJWTSecret,
	})

	paths := []string{
		"/api/approvals/export/abc",
		"/api/approvals/import/abc/pdf",
		"/api/exports/abc",
		"/api/imports/1234",
	}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			resp, body := env.do(t, http.MethodGet, path, "storekeeper", "")
			assert.Equal(t, http.StatusNotFound, resp.StatusCode, string(body))
			assert.Contains(t, string(body), "RECEIPT_NOT_FOUND")
		})
	}
}
