package core

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// VendorBalance is the unpaid total owed to one vendor.
type VendorBalance struct {
	Vendor  string          `json:"vendor"`
	Amount  decimal.Decimal `json:"amount"`
	Entries int             `json:"entries"`
}

// PayablesService manages the accounts-payable ledger. Entries are created only by receipts.
type PayablesService interface {
	// Pay settles an Unpaid entry. Paying twice returns ErrAlreadyPaid.
	Pay(ctx context.Context, id string) (*PayableEntry, error)

	// Query returns entries with the given status in insertion order. An empty status returns all.
	Query(status PayableStatus) ([]PayableEntry, error)

	Get(id string) (*PayableEntry, error)

	// OutstandingByVendor sums unpaid amounts per vendor, sorted by vendor.
	OutstandingByVendor() []VendorBalance
}

type payablesService struct {
	store *Store
}

func NewPayablesService(store *Store) PayablesService {
	return &payablesService{store: store}
}

// createPayable appends an Unpaid entry to the ledger. Only the receipt transaction calls it.
func createPayable(doc *Document, entry PayableEntry) PayableEntry {
	entry.Status = PayableUnpaid
	entry.PaymentDate = ""
	doc.Payables = append(doc.Payables, entry)
	return entry
}

func (s *payablesService) Pay(ctx context.Context, id string) (*PayableEntry, error) {
	var paid PayableEntry
	err := s.store.mutate(ctx, "payable.pay", func(doc *Document) error {
		i, err := doc.payableIndex(id)
		if err != nil {
			return err
		}
		entry := &doc.Payables[i]
		if entry.Status == PayablePaid {
			return fmt.Errorf("%w: payable %s was paid on %s", ErrAlreadyPaid, id, entry.PaymentDate)
		}
		entry.Status = PayablePaid
		entry.PaymentDate = s.store.today()
		paid = *entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &paid, nil
}

func (s *payablesService) Query(status PayableStatus) ([]PayableEntry, error) {
	if status != "" && !status.IsValid() {
		return nil, validationf("unknown payable status %q", status)
	}
	out := []PayableEntry{}
	s.store.view(func(doc *Document) {
		for _, entry := range doc.Payables {
			if status == "" || entry.Status == status {
				out = append(out, entry)
			}
		}
	})
	return out, nil
}

func (s *payablesService) Get(id string) (*PayableEntry, error) {
	var (
		entry PayableEntry
		err   error
	)
	s.store.view(func(doc *Document) {
		var i int
		if i, err = doc.payableIndex(id); err == nil {
			entry = doc.Payables[i]
		}
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *payablesService) OutstandingByVendor() []VendorBalance {
	byVendor := map[string]*VendorBalance{}
	s.store.view(func(doc *Document) {
		for _, entry := range doc.Payables {
			if entry.Status != PayableUnpaid {
				continue
			}
			b, ok := byVendor[entry.Vendor]
			if !ok {
				b = &VendorBalance{Vendor: entry.Vendor}
				byVendor[entry.Vendor] = b
			}
			b.Amount = b.Amount.Add(entry.Amount)
			b.Entries++
		}
	})

	out := make([]VendorBalance, 0, len(byVendor))
	for _, b := range byVendor {
		out = append(out, *b)
	}
	slices.SortFunc(out, func(a, b VendorBalance) int {
		return strings.Compare(a.Vendor, b.Vendor)
	})
	return out
}
