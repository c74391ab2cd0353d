package core

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

var purchaseOrderCSVHeader = []string{
	"id", "source", "vendor", "item", "manufactureDate", "orderedQty",
	"unitPrice", "total", "expectedDeliveryDate", "receivedQty", "status",
}

// WritePurchaseOrderCSV writes orders as CSV with a header row. Status is the derived display status.
func WritePurchaseOrderCSV(w io.Writer, orders []PurchaseOrder) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(purchaseOrderCSVHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, po := range orders {
		row := []string{
			po.ID,
			string(po.Source),
			po.Vendor,
			po.Item,
			po.ManufactureDate,
			strconv.Itoa(po.OrderedQty),
			po.UnitPrice.String(),
			po.Total().String(),
			po.ExpectedDeliveryDate,
			strconv.Itoa(po.ReceivedQty),
			string(DerivedDisplayStatus(po)),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row for %s: %w", po.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
