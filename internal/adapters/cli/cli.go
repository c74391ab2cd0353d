package cli

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"warehouse-ledger/internal/app"
	"warehouse-ledger/internal/core"
)

// ErrUsage is returned when the command line cannot be parsed.
var ErrUsage = errors.New("usage")

const commands = "orders, create-po, edit-po, delete-po, receive, email, email-read, stock, sell, sales, " +
	"payables, pay, report, export, schema"

// Run executes a one-shot CLI command, writing its output to out.
// args is os.Args[1:]; the first element is the subcommand name.
func Run(ctx context.Context, svc app.ApplicationService, args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: app <command>\nAvailable: %s", ErrUsage, commands)
	}
	cmd, rest := args[0], args[1:]

	switch cmd {
	case "orders", "po":
		fs := newFlagSet(cmd)
		status := fs.String("status", "", "Open, PartiallyReceived or Closed")
		if err := parse(fs, rest); err != nil {
			return err
		}
		result, err := svc.ListPurchaseOrders(ctx, core.DisplayStatus(*status))
		if err != nil {
			return err
		}
		printOrders(out, result.Orders)

	case "create-po":
		fs := newFlagSet(cmd)
		req := orderFlags(fs)
		if err := parse(fs, rest); err != nil {
			return err
		}
		result, err := svc.CreatePurchaseOrder(ctx, *req)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Purchase order %s created.\n", result.Order.ID)

	case "edit-po":
		fs := newFlagSet(cmd)
		id := fs.String("id", "", "purchase order id")
		req := orderFlags(fs)
		if err := parse(fs, rest, id); err != nil {
			return err
		}
		result, err := svc.EditPurchaseOrder(ctx, *id, *req)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Purchase order %s updated: %s\n", result.Order.ID, result.Order.DisplayLabel)

	case "delete-po":
		fs := newFlagSet(cmd)
		id := fs.String("id", "", "purchase order id")
		if err := parse(fs, rest, id); err != nil {
			return err
		}
		if err := svc.DeletePurchaseOrder(ctx, *id); err != nil {
			return err
		}
		fmt.Fprintf(out, "Purchase order %s deleted.\n", *id)

	case "receive", "rcv":
		fs := newFlagSet(cmd)
		id := fs.String("id", "", "purchase order id")
		qty := fs.Int("qty", 0, "quantity received")
		invoice := decimalFlag(fs, "invoice", "invoice amount")
		overage := fs.Bool("allow-overage", false, "accept more than the remaining quantity")
		if err := parse(fs, rest, id); err != nil {
			return err
		}
		result, err := svc.ReceiveGoods(ctx, app.ReceiveGoodsRequest{
			OrderID:       *id,
			Quantity:      *qty,
			InvoiceAmount: *invoice,
			AllowOverage:  *overage,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Received %d on %s (%s). Payable %s: %s owed to %s.\n",
			*qty, result.Order.ID, result.Order.DisplayLabel,
			result.Payable.ID, result.Payable.Amount.StringFixed(2), result.Payable.Vendor)
		if result.Overage {
			fmt.Fprintln(out, "WARNING: receipt exceeded the ordered quantity.")
		}

	case "email":
		fs := newFlagSet(cmd)
		id := fs.String("id", "", "purchase order id")
		if err := parse(fs, rest, id); err != nil {
			return err
		}
		result, err := svc.SendOrderEmail(ctx, *id)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Purchase order %s e-mailed to %s.\n", result.Order.ID, result.Order.Vendor)

	case "email-read":
		fs := newFlagSet(cmd)
		id := fs.String("id", "", "purchase order id")
		if err := parse(fs, rest, id); err != nil {
			return err
		}
		result, err := svc.MarkOrderEmailRead(ctx, *id)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Purchase order %s e-mail marked read.\n", result.Order.ID)

	case "stock":
		fs := newFlagSet(cmd)
		item := fs.String("item", "", "show a single item")
		if err := parse(fs, rest); err != nil {
			return err
		}
		if *item != "" {
			printStock(out, []core.StockLevel{svc.GetItemStock(ctx, *item)}, decimal.Zero, false)
			return nil
		}
		result := svc.GetStockLevels(ctx)
		printStock(out, result.Levels, result.TotalValue, true)

	case "sell":
		fs := newFlagSet(cmd)
		item := fs.String("item", "", "item sold")
		qty := fs.Int("qty", 0, "quantity sold")
		price := decimalFlag(fs, "price", "unit sale price")
		date := fs.String("date", "", "sale date YYYY-MM-DD, default today")
		if err := parse(fs, rest); err != nil {
			return err
		}
		rec, err := svc.RecordSale(ctx, app.RecordSaleRequest{Date: *date, Item: *item, Quantity: *qty, UnitPrice: *price})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Sold %d x %s on %s for %s.\n", rec.Qty, rec.Item, rec.Date, rec.Total.StringFixed(2))

	case "sales":
		fs := newFlagSet(cmd)
		item := fs.String("item", "", "history of a single item")
		if err := parse(fs, rest); err != nil {
			return err
		}
		result := svc.ListSales(ctx)
		if *item != "" {
			result = svc.SalesHistory(ctx, *item)
		}
		printSales(out, result.Sales)

	case "payables", "ap":
		fs := newFlagSet(cmd)
		status := fs.String("status", "", "Unpaid or Paid")
		outstanding := fs.Bool("outstanding", false, "show unpaid totals per vendor")
		if err := parse(fs, rest); err != nil {
			return err
		}
		if *outstanding {
			printOutstanding(out, svc.OutstandingPayables(ctx))
			return nil
		}
		result, err := svc.ListPayables(ctx, core.PayableStatus(*status))
		if err != nil {
			return err
		}
		printPayables(out, result)

	case "pay":
		fs := newFlagSet(cmd)
		id := fs.String("id", "", "payable id")
		if err := parse(fs, rest, id); err != nil {
			return err
		}
		entry, err := svc.PayPayable(ctx, *id)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Payable %s paid on %s.\n", entry.ID, entry.PaymentDate)

	case "report":
		return runReport(ctx, svc, rest, out)

	case "export":
		return svc.ExportPurchaseOrders(ctx, out)

	case "schema":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(svc.DocumentSchema())

	default:
		return fmt.Errorf("%w: unknown command %q\nAvailable: %s", ErrUsage, cmd, commands)
	}
	return nil
}

func runReport(ctx context.Context, svc app.ApplicationService, args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: app report mix|trend|financial|health|schedule", ErrUsage)
	}
	kind := args[0]
	fs := newFlagSet("report " + kind)
	month := fs.String("month", "", "month YYYY-MM, default current")
	months := fs.Int("months", 6, "trend length in months")
	asOf := fs.String("as-of", "", "list only deliveries due on or before YYYY-MM-DD")
	if err := parse(fs, args[1:]); err != nil {
		return err
	}

	switch kind {
	case "mix":
		result, err := svc.SalesMix(ctx, *month)
		if err != nil {
			return err
		}
		printSalesMix(out, result)
	case "trend":
		result, err := svc.Trend(ctx, *months)
		if err != nil {
			return err
		}
		printTrend(out, result.Points)
	case "financial", "fin":
		result, err := svc.FinancialSummary(ctx, *month)
		if err != nil {
			return err
		}
		printFinancial(out, result)
	case "health":
		printHealth(out, svc.StockHealth(ctx).Items)
	case "schedule":
		result := svc.DeliverySchedule(ctx)
		if *asOf != "" {
			var err error
			if result, err = svc.PendingReceipts(ctx, *asOf); err != nil {
				return err
			}
		}
		printSchedule(out, result.Deliveries)
	default:
		return fmt.Errorf("%w: unknown report %q", ErrUsage, kind)
	}
	return nil
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// parse parses args and checks that every required string flag was given.
func parse(fs *flag.FlagSet, args []string, required ...*string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUsage, fs.Name(), err)
	}
	for _, v := range required {
		if strings.TrimSpace(*v) == "" {
			return fmt.Errorf("%w: %s: -id is required", ErrUsage, fs.Name())
		}
	}
	return nil
}

func decimalFlag(fs *flag.FlagSet, name, usage string) *decimal.Decimal {
	d := new(decimal.Decimal)
	fs.Func(name, usage, func(s string) error {
		v, err := decimal.NewFromString(s)
		if err != nil {
			return err
		}
		*d = v
		return nil
	})
	return d
}

func orderFlags(fs *flag.FlagSet) *app.PurchaseOrderRequest {
	req := &app.PurchaseOrderRequest{}
	fs.Func("source", "DirectEntry, ProcurementPlan, OrderForm or QuotationTransfer", func(s string) error {
		req.Source = core.Source(s)
		return nil
	})
	fs.StringVar(&req.Vendor, "vendor", "", "vendor name")
	fs.StringVar(&req.Item, "item", "", "item name")
	fs.StringVar(&req.ManufactureDate, "mfg", "", "manufacture date YYYY-MM-DD")
	fs.IntVar(&req.Quantity, "qty", 0, "ordered quantity")
	fs.Func("price", "unit purchase price", func(s string) error {
		v, err := decimal.NewFromString(s)
		if err != nil {
			return err
		}
		req.UnitPrice = v
		return nil
	})
	fs.StringVar(&req.ExpectedDeliveryDate, "delivery", "", "expected delivery date YYYY-MM-DD")
	return req
}
