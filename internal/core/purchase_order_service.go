package core

import (
	"context"
	"fmt"
	"slices"
	"strings"
)

type purchaseOrderService struct {
	store *Store
}

// NewPurchaseOrderService constructs a PurchaseOrderService over the given store.
func NewPurchaseOrderService(store *Store) PurchaseOrderService {
	return &purchaseOrderService{store: store}
}

// Create records a new Open purchase order with nothing received.
func (s *purchaseOrderService) Create(ctx context.Context, in OrderInput) (*PurchaseOrder, error) {
	in, err := normalizeOrderInput(in)
	if err != nil {
		return nil, err
	}

	var created PurchaseOrder
	err = s.store.mutate(ctx, "purchase_order.create", func(doc *Document) error {
		if err := doc.checkSource(in.Source); err != nil {
			return err
		}
		created = PurchaseOrder{
			ID:                   s.store.newID(doc, PrefixPurchaseOrder),
			Source:               in.Source,
			Vendor:               in.Vendor,
			Item:                 in.Item,
			ManufactureDate:      in.ManufactureDate,
			OrderedQty:           in.OrderedQty,
			UnitPrice:            in.UnitPrice,
			ExpectedDeliveryDate: in.ExpectedDeliveryDate,
			ReceivedQty:          0,
			EmailStatus:          EmailNotSent,
			Status:               POStatusOpen,
		}
		doc.PurchaseOrders = append(doc.PurchaseOrders, created)
		doc.remember(created.Vendor, created.Item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Edit replaces the editable fields of an Open order.
// Once anything has been received the item can no longer change: the stock is already booked to it.
func (s *purchaseOrderService) Edit(ctx context.Context, id string, in OrderInput) (*PurchaseOrder, error) {
	in, err := normalizeOrderInput(in)
	if err != nil {
		return nil, err
	}

	var edited PurchaseOrder
	err = s.store.mutate(ctx, "purchase_order.edit", func(doc *Document) error {
		i, err := doc.orderIndex(id)
		if err != nil {
			return err
		}
		po := &doc.PurchaseOrders[i]
		if po.Status == POStatusClosed {
			return fmt.Errorf("%w: purchase order %s is closed and cannot be edited", ErrLocked, id)
		}
		if po.ReceivedQty > 0 && po.Item != in.Item {
			return fmt.Errorf("%w: purchase order %s has received %d of %s; item cannot change",
				ErrConflict, id, po.ReceivedQty, po.Item)
		}
		if err := doc.checkSource(in.Source); err != nil {
			return err
		}

		po.Source = in.Source
		po.Vendor = in.Vendor
		po.Item = in.Item
		po.ManufactureDate = in.ManufactureDate
		po.OrderedQty = in.OrderedQty
		po.UnitPrice = in.UnitPrice
		po.ExpectedDeliveryDate = in.ExpectedDeliveryDate
		po.recomputeStatus()

		doc.remember(po.Vendor, po.Item)
		edited = *po
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &edited, nil
}

// Delete removes an order that is Open and has nothing received.
func (s *purchaseOrderService) Delete(ctx context.Context, id string) error {
	return s.store.mutate(ctx, "purchase_order.delete", func(doc *Document) error {
		i, err := doc.orderIndex(id)
		if err != nil {
			return err
		}
		po := doc.PurchaseOrders[i]
		if po.Status != POStatusOpen || po.ReceivedQty > 0 {
			return fmt.Errorf("%w: purchase order %s cannot be deleted: status %s, received %d",
				ErrConflict, id, po.Status, po.ReceivedQty)
		}
		doc.PurchaseOrders = slices.Delete(doc.PurchaseOrders, i, i+1)
		return nil
	})
}

// Receive books goods arriving against an Open order. The received quantity, the stock level
// and the new payable are committed together or not at all.
func (s *purchaseOrderService) Receive(ctx context.Context, in ReceiptInput) (*ReceiptResult, error) {
	if in.Qty <= 0 {
		return nil, validationf("received quantity must be positive, got %d", in.Qty)
	}
	if in.InvoiceAmount.IsNegative() {
		return nil, validationf("invoice amount cannot be negative, got %s", in.InvoiceAmount)
	}

	var result ReceiptResult
	err := s.store.mutate(ctx, "purchase_order.receive", func(doc *Document) error {
		i, err := doc.orderIndex(in.OrderID)
		if err != nil {
			return err
		}
		po := &doc.PurchaseOrders[i]
		if po.Status != POStatusOpen {
			return fmt.Errorf("%w: purchase order %s is %s and cannot be received", ErrConflict, po.ID, po.Status)
		}

		remaining := po.Remaining()
		overage := in.Qty > remaining
		if overage && !in.AllowOverage {
			return &OverageError{OrderID: po.ID, Requested: in.Qty, Remaining: remaining}
		}

		po.ReceivedQty += in.Qty
		po.recomputeStatus()

		if err := applyReceipt(doc, po.Item, in.Qty); err != nil {
			return err
		}

		entry := createPayable(doc, PayableEntry{
			ID:          s.store.newID(doc, PrefixPayable),
			OrderRef:    po.ID,
			Date:        s.store.today(),
			Vendor:      po.Vendor,
			Description: fmt.Sprintf("Receipt %s x%d", po.Item, in.Qty),
			Amount:      in.InvoiceAmount,
		})

		result = ReceiptResult{Order: *po, Payable: entry, Overage: overage}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// SendEmail marks the order as e-mailed to the vendor and awaiting their read.
func (s *purchaseOrderService) SendEmail(ctx context.Context, id string) (*PurchaseOrder, error) {
	return s.setEmailStatus(ctx, id, "purchase_order.email_sent", func(po *PurchaseOrder) error {
		po.EmailStatus = EmailSentUnread
		return nil
	})
}

// MarkEmailRead records the vendor's read receipt. The order must have been e-mailed first.
func (s *purchaseOrderService) MarkEmailRead(ctx context.Context, id string) (*PurchaseOrder, error) {
	return s.setEmailStatus(ctx, id, "purchase_order.email_read", func(po *PurchaseOrder) error {
		if po.EmailStatus == EmailNotSent {
			return fmt.Errorf("%w: purchase order %s has not been e-mailed", ErrConflict, po.ID)
		}
		po.EmailStatus = EmailRead
		return nil
	})
}

func (s *purchaseOrderService) setEmailStatus(ctx context.Context, id, op string, apply func(po *PurchaseOrder) error) (*PurchaseOrder, error) {
	var updated PurchaseOrder
	err := s.store.mutate(ctx, op, func(doc *Document) error {
		i, err := doc.orderIndex(id)
		if err != nil {
			return err
		}
		po := &doc.PurchaseOrders[i]
		if po.Status == POStatusClosed {
			return fmt.Errorf("%w: purchase order %s is closed", ErrLocked, id)
		}
		if err := apply(po); err != nil {
			return err
		}
		updated = *po
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *purchaseOrderService) Get(id string) (*PurchaseOrder, error) {
	var (
		po  PurchaseOrder
		err error
	)
	s.store.view(func(doc *Document) {
		var i int
		if i, err = doc.orderIndex(id); err == nil {
			po = doc.PurchaseOrders[i]
		}
	})
	if err != nil {
		return nil, err
	}
	return &po, nil
}

func (s *purchaseOrderService) List() []PurchaseOrder {
	var orders []PurchaseOrder
	s.store.view(func(doc *Document) {
		orders = slices.Clone(doc.PurchaseOrders)
	})
	return orders
}

// normalizeOrderInput trims text fields and applies the field rules shared by Create and Edit.
func normalizeOrderInput(in OrderInput) (OrderInput, error) {
	in.Vendor = strings.TrimSpace(in.Vendor)
	in.Item = strings.TrimSpace(in.Item)
	in.ManufactureDate = strings.TrimSpace(in.ManufactureDate)
	in.ExpectedDeliveryDate = strings.TrimSpace(in.ExpectedDeliveryDate)
	in.Source = Source(strings.TrimSpace(string(in.Source)))
	if in.Source == "" {
		in.Source = SourceDirectEntry
	}

	switch {
	case in.Vendor == "":
		return in, validationf("vendor is required")
	case in.Item == "":
		return in, validationf("item is required")
	case in.ExpectedDeliveryDate == "":
		return in, validationf("expected delivery date is required")
	case in.OrderedQty <= 0:
		return in, validationf("ordered quantity must be positive, got %d", in.OrderedQty)
	case in.UnitPrice.IsNegative():
		return in, validationf("unit price cannot be negative, got %s", in.UnitPrice)
	}

	if err := parseDate("expected delivery date", in.ExpectedDeliveryDate); err != nil {
		return in, err
	}
	if in.ManufactureDate != "" {
		if err := parseDate("manufacture date", in.ManufactureDate); err != nil {
			return in, err
		}
	}
	return in, nil
}
