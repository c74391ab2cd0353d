package cli

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"warehouse-ledger/internal/app"
	"warehouse-ledger/internal/core"
)

func header(out io.Writer, width int, title string) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, strings.Repeat("=", width))
	fmt.Fprintf(out, "  %s\n", title)
	fmt.Fprintln(out, strings.Repeat("=", width))
}

func rule(out io.Writer, width int, ch string) {
	fmt.Fprintln(out, strings.Repeat(ch, width))
}

func printOrders(out io.Writer, orders []app.OrderView) {
	header(out, 96, "PURCHASE ORDERS")
	if len(orders) == 0 {
		fmt.Fprintln(out, "  No purchase orders found.")
		rule(out, 96, "=")
		return
	}
	fmt.Fprintf(out, "  %-22s %-16s %-14s %6s %10s %-11s %s\n",
		"ID", "VENDOR", "ITEM", "QTY", "TOTAL", "DELIVERY", "STATUS")
	rule(out, 96, "-")
	for _, o := range orders {
		fmt.Fprintf(out, "  %-22s %-16s %-14s %6d %10s %-11s %s\n",
			o.ID, o.Vendor, o.Item, o.OrderedQty, o.Total.StringFixed(2), o.ExpectedDeliveryDate, o.DisplayLabel)
	}
	rule(out, 96, "=")
}

func printStock(out io.Writer, levels []core.StockLevel, total decimal.Decimal, withTotal bool) {
	header(out, 72, "STOCK")
	if len(levels) == 0 {
		fmt.Fprintln(out, "  No stock on hand.")
		rule(out, 72, "=")
		return
	}
	fmt.Fprintf(out, "  %-24s %8s %12s %12s  %s\n", "ITEM", "QTY", "LAST PRICE", "VALUE", "CLASS")
	rule(out, 72, "-")
	for _, l := range levels {
		fmt.Fprintf(out, "  %-24s %8d %12s %12s  %s\n",
			l.Item, l.Qty, l.LatestPrice.StringFixed(2), l.Valuation.StringFixed(2), l.Class)
	}
	if withTotal {
		rule(out, 72, "-")
		fmt.Fprintf(out, "  %-24s %8s %12s %12s\n", "TOTAL", "", "", total.StringFixed(2))
	}
	rule(out, 72, "=")
}

func printSales(out io.Writer, sales []core.SalesRecord) {
	header(out, 62, "SALES")
	if len(sales) == 0 {
		fmt.Fprintln(out, "  No sales recorded.")
		rule(out, 62, "=")
		return
	}
	fmt.Fprintf(out, "  %-10s %-20s %6s %10s %10s\n", "DATE", "ITEM", "QTY", "PRICE", "TOTAL")
	rule(out, 62, "-")
	for _, s := range sales {
		fmt.Fprintf(out, "  %-10s %-20s %6d %10s %10s\n",
			s.Date, s.Item, s.Qty, s.UnitPrice.StringFixed(2), s.Total.StringFixed(2))
	}
	rule(out, 62, "=")
}

func printPayables(out io.Writer, result *app.PayablesResult) {
	header(out, 90, "PAYABLES")
	if len(result.Payables) == 0 {
		fmt.Fprintln(out, "  No payables found.")
		rule(out, 90, "=")
		return
	}
	fmt.Fprintf(out, "  %-22s %-10s %-16s %12s %-7s %s\n", "ID", "DATE", "VENDOR", "AMOUNT", "STATUS", "DESCRIPTION")
	rule(out, 90, "-")
	for _, p := range result.Payables {
		fmt.Fprintf(out, "  %-22s %-10s %-16s %12s %-7s %s\n",
			p.ID, p.Date, p.Vendor, p.Amount.StringFixed(2), p.Status, p.Description)
	}
	rule(out, 90, "-")
	fmt.Fprintf(out, "  %-22s %-10s %-16s %12s\n", "TOTAL", "", "", result.Total.StringFixed(2))
	rule(out, 90, "=")
}

func printOutstanding(out io.Writer, result *app.OutstandingResult) {
	header(out, 50, "OUTSTANDING BY VENDOR")
	if len(result.Vendors) == 0 {
		fmt.Fprintln(out, "  Nothing owed.")
		rule(out, 50, "=")
		return
	}
	for _, v := range result.Vendors {
		fmt.Fprintf(out, "  %-24s %4d %16s\n", v.Vendor, v.Entries, v.Amount.StringFixed(2))
	}
	rule(out, 50, "-")
	fmt.Fprintf(out, "  %-24s %4s %16s\n", "TOTAL", "", result.Total.StringFixed(2))
	rule(out, 50, "=")
}

func printSalesMix(out io.Writer, result *app.SalesMixResult) {
	header(out, 40, "SALES MIX  "+result.Month)
	if len(result.Items) == 0 {
		fmt.Fprintln(out, "  No sales this month.")
		rule(out, 40, "=")
		return
	}
	items := make([]string, 0, len(result.Items))
	for item := range result.Items {
		items = append(items, item)
	}
	slices.Sort(items)
	for _, item := range items {
		fmt.Fprintf(out, "  %-28s %8d\n", item, result.Items[item])
	}
	rule(out, 40, "=")
}

func printTrend(out io.Writer, points []core.TrendPoint) {
	header(out, 40, "INBOUND / OUTBOUND TREND")
	fmt.Fprintf(out, "  %-10s %12s %12s\n", "MONTH", "RECEIVED", "SOLD")
	rule(out, 40, "-")
	for _, p := range points {
		fmt.Fprintf(out, "  %-10s %12d %12d\n", p.Month, p.ReceivedQty, p.SoldQty)
	}
	rule(out, 40, "=")
}

func printFinancial(out io.Writer, f *core.FinancialSummary) {
	header(out, 40, "FINANCIAL SUMMARY  "+f.Month)
	fmt.Fprintf(out, "  %-20s %16s\n", "Revenue", f.TotalRevenue.StringFixed(2))
	fmt.Fprintf(out, "  %-20s %16s\n", "Cost", f.TotalCost.StringFixed(2))
	rule(out, 40, "-")
	fmt.Fprintf(out, "  %-20s %16s\n", "Gross margin", f.GrossMargin.StringFixed(2))
	rule(out, 40, "=")
}

func printHealth(out io.Writer, items []core.StockHealth) {
	header(out, 56, "STOCK HEALTH")
	if len(items) == 0 {
		fmt.Fprintln(out, "  No stock on hand.")
		rule(out, 56, "=")
		return
	}
	for _, h := range items {
		fmt.Fprintf(out, "  %-24s %8d  %-10s %s\n", h.Item, h.Qty, h.Class, h.Action)
	}
	rule(out, 56, "=")
}

func printSchedule(out io.Writer, deliveries []core.ScheduledDelivery) {
	header(out, 80, "DELIVERY SCHEDULE")
	if len(deliveries) == 0 {
		fmt.Fprintln(out, "  No deliveries pending.")
		rule(out, 80, "=")
		return
	}
	for _, d := range deliveries {
		fmt.Fprintf(out, "  %-10s %-22s %-16s %-16s %6d\n", d.DeliveryDate, d.OrderID, d.Vendor, d.Item, d.Remaining)
	}
	rule(out, 80, "=")
}
