package queue

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/approval"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{Type: task.Type(), Queue: QueueAlerts}, nil
}

func (f *fakeEnqueuer) Close() error { return nil }

type fakeStocks struct {
	views []entity.StockView
	err   error
	only  bool
}

func (f *fakeStocks) Create(context.Context, *entity.StockEntry) error { return nil }
func (f *fakeStocks) GetByProduct(context.Context, string) (*entity.StockEntry, error) {
	return nil, nil
}
func (f *fakeStocks) GetByProductForUpdate(context.Context, string) (*entity.StockEntry, error) {
	return nil, nil
}
func (f *fakeStocks) GetByIDForUpdate(context.Context, string) (*entity.StockEntry, error) {
	return nil, nil
}
func (f *fakeStocks) SetQuantity(context.Context, string, entity.StockUpdate) (*entity.StockEntry, error) {
	return nil, nil
}
func (f *fakeStocks) ListViews(_ context.Context, onlyWarning bool) ([]entity.StockView, error) {
	f.only = onlyWarning
	return f.views, f.err
}

func sampleAlert() approval.LowStockAlert {
	return approval.LowStockAlert{
		ProductID: "p1", ProductName: "Tornillo", Quantity: 3, Minimum: 5,
		ReceiptID: "r1", Kind: string(entity.ReceiptExport),
	}
}

func TestNewLowStockTask(t *testing.T) {
	task, err := NewLowStockTask(sampleAlert())
	require.NoError(t, err)
	assert.Equal(t, TaskStockLow, task.Type())

	var got approval.LowStockAlert
	require.NoError(t, json.Unmarshal(task.Payload(), &got))
	assert.Equal(t, sampleAlert(), got)
}

func TestPublisher_PublishLowStock(t *testing.T) {
	enq := &fakeEnqueuer{}
	p := NewPublisherWithClient(enq)

	require.NoError(t, p.PublishLowStock(context.Background(), sampleAlert()))
	require.Len(t, enq.tasks, 1)
	assert.Equal(t, TaskStockLow, enq.tasks[0].Type())
}

func TestPublisher_EnqueueError(t *testing.T) {
	p := NewPublisherWithClient(&fakeEnqueuer{err: errors.New("redis caído")})
	err := p.PublishLowStock(context.Background(), sampleAlert())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis caído")
}

func TestPublisher_NilIsNoop(t *testing.T) {
	var p *Publisher
	assert.NoError(t, p.PublishLowStock(context.Background(), sampleAlert()))
	assert.NoError(t, p.Close())
}

func TestHandleLowStock(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandlers(&fakeStocks{}, zerolog.New(&buf))

	task, err := NewLowStockTask(sampleAlert())
	require.NoError(t, err)
	require.NoError(t, h.HandleLowStock(context.Background(), task))
	assert.Contains(t, buf.String(), `"product_id":"p1"`)
	assert.Contains(t, buf.String(), `"minimum":5`)
}

func TestHandleLowStock_BadPayloadSkipsRetry(t *testing.T) {
	h := NewHandlers(&fakeStocks{}, zerolog.Nop())
	err := h.HandleLowStock(context.Background(), asynq.NewTask(TaskStockLow, []byte("{no-json")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}

func TestHandleDigest(t *testing.T) {
	var buf bytes.Buffer
	stocks := &fakeStocks{views: []entity.StockView{
		{StockEntry: entity.StockEntry{ProductID: "p1", Quantity: 2, Warning: true}, ProductName: "Tornillo", Minimum: 5},
		{StockEntry: entity.StockEntry{ProductID: "p2", Quantity: 0, Warning: true}, ProductName: "Tuerca", Minimum: 1},
	}}
	h := NewHandlers(stocks, zerolog.New(&buf))

	require.NoError(t, h.HandleDigest(context.Background(), NewDigestTask()))
	assert.True(t, stocks.only)
	assert.Contains(t, buf.String(), `"count":2`)
	assert.Contains(t, buf.String(), "Tuerca")
}

func TestHandleDigest_Empty(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandlers(&fakeStocks{}, zerolog.New(&buf))
	require.NoError(t, h.HandleDigest(context.Background(), NewDigestTask()))
	assert.Contains(t, buf.String(), "sin productos")
}

func TestHandleDigest_RepoError(t *testing.T) {
	h := NewHandlers(&fakeStocks{err: errors.New("db")}, zerolog.Nop())
	assert.Error(t, h.HandleDigest(context.Background(), NewDigestTask()))
}
