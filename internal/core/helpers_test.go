package core_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"warehouse-ledger/internal/core"
)

var testNow = time.Date(2025, 3, 15, 10, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

// memPersister keeps the document as encoded JSON so every load sees what a real backend would.
type memPersister struct {
	mu      sync.Mutex
	data    []byte
	saves   int
	failErr error
}

func (p *memPersister) Load(ctx context.Context) (*core.Document, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.data == nil {
		return nil, core.ErrNoDocument
	}
	var doc core.Document
	if err := json.Unmarshal(p.data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (p *memPersister) Save(ctx context.Context, doc *core.Document) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failErr != nil {
		return p.failErr
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	p.data = data
	p.saves++
	return nil
}

func (p *memPersister) failWith(err error) {
	p.mu.Lock()
	p.failErr = err
	p.mu.Unlock()
}

var errDiskFull = errors.New("disk full")

type services struct {
	store     *core.Store
	orders    core.PurchaseOrderService
	inventory core.InventoryService
	sales     core.SalesService
	payables  core.PayablesService
	reports   core.ReportingService
}

func newServices(t *testing.T, p core.Persister) services {
	t.Helper()
	store := core.NewStore(p, core.WithClock(fixedClock), core.WithIDGenerator(core.NewSequenceIDs()))
	if err := store.Open(context.Background()); err != nil {
		t.Fatalf("open store: %v", err)
	}
	thresholds := core.DefaultThresholds()
	return services{
		store:     store,
		orders:    core.NewPurchaseOrderService(store),
		inventory: core.NewInventoryService(store, thresholds),
		sales:     core.NewSalesService(store),
		payables:  core.NewPayablesService(store),
		reports:   core.NewReportingService(store, thresholds),
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func orderInput(item string, qty int, price string) core.OrderInput {
	return core.OrderInput{
		Vendor:               "V1",
		Item:                 item,
		OrderedQty:           qty,
		UnitPrice:            dec(price),
		ExpectedDeliveryDate: "2025-03-20",
	}
}

func mustCreate(t *testing.T, svc services, in core.OrderInput) *core.PurchaseOrder {
	t.Helper()
	po, err := svc.orders.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	return po
}

func mustReceive(t *testing.T, svc services, in core.ReceiptInput) *core.ReceiptResult {
	t.Helper()
	res, err := svc.orders.Receive(context.Background(), in)
	if err != nil {
		t.Fatalf("receive %d against %s: %v", in.Qty, in.OrderID, err)
	}
	return res
}

// assertStatusInvariant checks Closed exactly when received covers ordered, for every order.
func assertStatusInvariant(t *testing.T, svc services) {
	t.Helper()
	for _, po := range svc.orders.List() {
		closed := po.Status == core.POStatusClosed
		if closed != (po.ReceivedQty >= po.OrderedQty) {
			t.Errorf("order %s: status %s with received %d of %d", po.ID, po.Status, po.ReceivedQty, po.OrderedQty)
		}
	}
}
