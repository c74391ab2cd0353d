package core_test

import (
	"context"
	"errors"
	"testing"

	"warehouse-ledger/internal/core"
)

func TestReceiveClosesFullyReceivedOrder(t *testing.T) {
	svc := newServices(t, nil)
	stockBefore := svc.inventory.CurrentStock("RAM-16G")

	po := mustCreate(t, svc, orderInput("RAM-16G", 50, "10"))
	res := mustReceive(t, svc, core.ReceiptInput{OrderID: po.ID, Qty: 50, InvoiceAmount: dec("500")})

	if res.Order.Status != core.POStatusClosed {
		t.Errorf("status = %s, want Closed", res.Order.Status)
	}
	if res.Overage {
		t.Error("overage reported for an exact receipt")
	}
	if got := svc.inventory.CurrentStock("RAM-16G"); got != stockBefore+50 {
		t.Errorf("stock = %d, want %d", got, stockBefore+50)
	}

	unpaid, err := svc.payables.Query(core.PayableUnpaid)
	if err != nil {
		t.Fatalf("query payables: %v", err)
	}
	if len(unpaid) != 1 {
		t.Fatalf("unpaid payables = %d, want 1", len(unpaid))
	}
	entry := unpaid[0]
	if !entry.Amount.Equal(dec("500")) {
		t.Errorf("amount = %s, want 500", entry.Amount)
	}
	if entry.OrderRef != po.ID || entry.Vendor != "V1" {
		t.Errorf("payable not traced to order: %+v", entry)
	}
	if entry.Date != "2025-03-15" {
		t.Errorf("payable date = %s, want 2025-03-15", entry.Date)
	}
	if entry.Description != "Receipt RAM-16G x50" {
		t.Errorf("description = %q", entry.Description)
	}
}

func TestReceiveOverage(t *testing.T) {
	ctx := context.Background()
	svc := newServices(t, nil)
	po := mustCreate(t, svc, orderInput("RAM-16G", 50, "10"))
	stockBefore := svc.inventory.CurrentStock("RAM-16G")

	_, err := svc.orders.Receive(ctx, core.ReceiptInput{OrderID: po.ID, Qty: 60, InvoiceAmount: dec("600")})
	var overage *core.OverageError
	if !errors.As(err, &overage) {
		t.Fatalf("err = %v, want *OverageError", err)
	}
	if overage.Remaining != 50 || overage.Requested != 60 {
		t.Errorf("overage = %+v", overage)
	}
	if !errors.Is(err, core.ErrOverage) {
		t.Error("overage error does not match ErrOverage")
	}

	got, _ := svc.orders.Get(po.ID)
	if got.ReceivedQty != 0 || got.Status != core.POStatusOpen {
		t.Errorf("order mutated by rejected receipt: %+v", got)
	}
	if stock := svc.inventory.CurrentStock("RAM-16G"); stock != stockBefore {
		t.Errorf("stock = %d, want %d", stock, stockBefore)
	}
	if all, _ := svc.payables.Query(""); len(all) != 0 {
		t.Errorf("payables = %d, want 0", len(all))
	}

	res := mustReceive(t, svc, core.ReceiptInput{OrderID: po.ID, Qty: 60, InvoiceAmount: dec("600"), AllowOverage: true})
	if res.Order.ReceivedQty != 110 {
		t.Errorf("received = %d, want 110", res.Order.ReceivedQty)
	}
	if res.Order.Status != core.POStatusClosed {
		t.Errorf("status = %s, want Closed", res.Order.Status)
	}
	if !res.Overage {
		t.Error("confirmed overage not reported")
	}
	if res.Order.Remaining() != 0 {
		t.Errorf("remaining = %d, want 0", res.Order.Remaining())
	}
}

func TestReceiveIsMonotonic(t *testing.T) {
	svc := newServices(t, nil)
	po := mustCreate(t, svc, orderInput("SSD-1TB", 10, "80"))

	last := 0
	for _, q := range []int{1, 2, 3, 4} {
		res := mustReceive(t, svc, core.ReceiptInput{OrderID: po.ID, Qty: q, InvoiceAmount: dec("80")})
		if res.Order.ReceivedQty < last {
			t.Fatalf("received went from %d to %d", last, res.Order.ReceivedQty)
		}
		last = res.Order.ReceivedQty
		assertStatusInvariant(t, svc)
	}
	if last != 10 {
		t.Errorf("received = %d, want 10", last)
	}
	if all, _ := svc.payables.Query(""); len(all) != 4 {
		t.Errorf("payables = %d, want one per receipt", len(all))
	}
}

func TestReceiveRejections(t *testing.T) {
	ctx := context.Background()
	svc := newServices(t, nil)
	open := mustCreate(t, svc, orderInput("RAM-16G", 5, "10"))
	closed := mustCreate(t, svc, orderInput("RAM-16G", 5, "10"))
	mustReceive(t, svc, core.ReceiptInput{OrderID: closed.ID, Qty: 5, InvoiceAmount: dec("50")})

	tests := []struct {
		name string
		in   core.ReceiptInput
		want error
	}{
		{"zero quantity", core.ReceiptInput{OrderID: open.ID, Qty: 0, InvoiceAmount: dec("1")}, core.ErrValidation},
		{"negative quantity", core.ReceiptInput{OrderID: open.ID, Qty: -2, InvoiceAmount: dec("1")}, core.ErrValidation},
		{"negative invoice", core.ReceiptInput{OrderID: open.ID, Qty: 1, InvoiceAmount: dec("-1")}, core.ErrValidation},
		{"unknown order", core.ReceiptInput{OrderID: "PO-9999", Qty: 1, InvoiceAmount: dec("1")}, core.ErrNotFound},
		{"closed order", core.ReceiptInput{OrderID: closed.ID, Qty: 1, InvoiceAmount: dec("1"), AllowOverage: true}, core.ErrConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := svc.store.Snapshot()
			_, err := svc.orders.Receive(ctx, tt.in)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			after := svc.store.Snapshot()
			if len(after.Payables) != len(before.Payables) || after.Stock["RAM-16G"] != before.Stock["RAM-16G"] {
				t.Error("rejected receipt changed the ledger")
			}
		})
	}
}

func TestReceiveRollsBackOnPersistenceFailure(t *testing.T) {
	ctx := context.Background()
	p := &memPersister{}
	svc := newServices(t, p)
	po := mustCreate(t, svc, orderInput("CPU-i9", 10, "300"))
	stockBefore := svc.inventory.CurrentStock("CPU-i9")

	p.failWith(errDiskFull)
	_, err := svc.orders.Receive(ctx, core.ReceiptInput{OrderID: po.ID, Qty: 4, InvoiceAmount: dec("1200")})
	if !errors.Is(err, core.ErrPersistence) {
		t.Fatalf("err = %v, want ErrPersistence", err)
	}
	if !errors.Is(err, errDiskFull) {
		t.Errorf("persistence error does not unwrap to cause: %v", err)
	}

	got, _ := svc.orders.Get(po.ID)
	if got.ReceivedQty != 0 {
		t.Errorf("received = %d after failed save, want 0", got.ReceivedQty)
	}
	if stock := svc.inventory.CurrentStock("CPU-i9"); stock != stockBefore {
		t.Errorf("stock = %d after failed save, want %d", stock, stockBefore)
	}
	if all, _ := svc.payables.Query(""); len(all) != 0 {
		t.Errorf("payables = %d after failed save, want 0", len(all))
	}

	p.failWith(nil)
	mustReceive(t, svc, core.ReceiptInput{OrderID: po.ID, Qty: 4, InvoiceAmount: dec("1200")})
	if stock := svc.inventory.CurrentStock("CPU-i9"); stock != stockBefore+4 {
		t.Errorf("stock = %d after retry, want %d", stock, stockBefore+4)
	}
}
