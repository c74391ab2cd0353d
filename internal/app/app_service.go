package app

import (
	"context"
	"fmt"
	"io"

	"github.com/invopop/jsonschema"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"warehouse-ledger/internal/core"
)

// maxTrendMonths bounds the trend window.
const maxTrendMonths = 36

type appService struct {
	store            *core.Store
	orderService     core.PurchaseOrderService
	inventoryService core.InventoryService
	salesService     core.SalesService
	payablesService  core.PayablesService
	reportingService core.ReportingService
	logger           *zap.Logger
}

// NewAppService wires the ledger services over store and returns an ApplicationService.
func NewAppService(store *core.Store, thresholds core.StockThresholds, logger *zap.Logger) ApplicationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &appService{
		store:            store,
		orderService:     core.NewPurchaseOrderService(store),
		inventoryService: core.NewInventoryService(store, thresholds),
		salesService:     core.NewSalesService(store),
		payablesService:  core.NewPayablesService(store),
		reportingService: core.NewReportingService(store, thresholds),
		logger:           logger,
	}
}

func (s *appService) Memory(ctx context.Context) core.MemoryLists {
	return s.store.Memory()
}

// ListPurchaseOrders returns orders, filtered by display status when status is non-empty.
func (s *appService) ListPurchaseOrders(ctx context.Context, status core.DisplayStatus) (*OrderListResult, error) {
	switch status {
	case "", core.DisplayOpen, core.DisplayPartiallyReceived, core.DisplayClosed:
	default:
		return nil, fmt.Errorf("%w: unknown order status %q", core.ErrValidation, status)
	}

	orders := s.orderService.List()
	views := make([]OrderView, 0, len(orders))
	for _, po := range orders {
		if status != "" && core.DerivedDisplayStatus(po) != status {
			continue
		}
		views = append(views, newOrderView(po))
	}
	return &OrderListResult{Orders: views}, nil
}

func (s *appService) GetPurchaseOrder(ctx context.Context, id string) (*OrderResult, error) {
	po, err := s.orderService.Get(id)
	if err != nil {
		return nil, err
	}
	return &OrderResult{Order: newOrderView(*po)}, nil
}

func (s *appService) CreatePurchaseOrder(ctx context.Context, req PurchaseOrderRequest) (*OrderResult, error) {
	po, err := s.orderService.Create(ctx, req.toInput())
	if err != nil {
		return nil, err
	}
	s.logger.Info("purchase order created",
		zap.String("id", po.ID), zap.String("vendor", po.Vendor),
		zap.String("item", po.Item), zap.Int("qty", po.OrderedQty))
	return &OrderResult{Order: newOrderView(*po)}, nil
}

func (s *appService) EditPurchaseOrder(ctx context.Context, id string, req PurchaseOrderRequest) (*OrderResult, error) {
	po, err := s.orderService.Edit(ctx, id, req.toInput())
	if err != nil {
		return nil, err
	}
	s.logger.Info("purchase order edited", zap.String("id", po.ID))
	return &OrderResult{Order: newOrderView(*po)}, nil
}

func (s *appService) DeletePurchaseOrder(ctx context.Context, id string) error {
	if err := s.orderService.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("purchase order deleted", zap.String("id", id))
	return nil
}

func (s *appService) ReceiveGoods(ctx context.Context, req ReceiveGoodsRequest) (*ReceiptResult, error) {
	res, err := s.orderService.Receive(ctx, core.ReceiptInput{
		OrderID:       req.OrderID,
		Qty:           req.Quantity,
		InvoiceAmount: req.InvoiceAmount,
		AllowOverage:  req.AllowOverage,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("goods received",
		zap.String("order", res.Order.ID), zap.Int("qty", req.Quantity),
		zap.String("payable", res.Payable.ID), zap.Bool("overage", res.Overage))
	return &ReceiptResult{Order: newOrderView(res.Order), Payable: res.Payable, Overage: res.Overage}, nil
}

func (s *appService) SendOrderEmail(ctx context.Context, id string) (*OrderResult, error) {
	po, err := s.orderService.SendEmail(ctx, id)
	if err != nil {
		return nil, err
	}
	return &OrderResult{Order: newOrderView(*po)}, nil
}

func (s *appService) MarkOrderEmailRead(ctx context.Context, id string) (*OrderResult, error) {
	po, err := s.orderService.MarkEmailRead(ctx, id)
	if err != nil {
		return nil, err
	}
	return &OrderResult{Order: newOrderView(*po)}, nil
}

func (s *appService) ExportPurchaseOrders(ctx context.Context, w io.Writer) error {
	return core.WritePurchaseOrderCSV(w, s.orderService.List())
}

func (s *appService) GetStockLevels(ctx context.Context) *StockResult {
	levels := s.inventoryService.StockLevels()
	total := decimal.Zero
	for _, l := range levels {
		total = total.Add(l.Valuation)
	}
	return &StockResult{Levels: levels, TotalValue: total}
}

func (s *appService) GetItemStock(ctx context.Context, item string) core.StockLevel {
	return s.inventoryService.Level(item)
}

func (s *appService) RecordSale(ctx context.Context, req RecordSaleRequest) (*core.SalesRecord, error) {
	rec, err := s.salesService.RecordSale(ctx, core.SaleInput{
		Date:      req.Date,
		Item:      req.Item,
		Qty:       req.Quantity,
		UnitPrice: req.UnitPrice,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("sale recorded", zap.String("item", rec.Item), zap.Int("qty", rec.Qty), zap.String("total", rec.Total.String()))
	return rec, nil
}

func (s *appService) ListSales(ctx context.Context) *SalesResult {
	return &SalesResult{Sales: s.salesService.List()}
}

func (s *appService) SalesHistory(ctx context.Context, item string) *SalesResult {
	return &SalesResult{Sales: s.salesService.ItemHistory(item)}
}

func (s *appService) ListPayables(ctx context.Context, status core.PayableStatus) (*PayablesResult, error) {
	entries, err := s.payablesService.Query(status)
	if err != nil {
		return nil, err
	}
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Amount)
	}
	return &PayablesResult{Payables: entries, Total: total}, nil
}

func (s *appService) OutstandingPayables(ctx context.Context) *OutstandingResult {
	vendors := s.payablesService.OutstandingByVendor()
	total := decimal.Zero
	for _, v := range vendors {
		total = total.Add(v.Amount)
	}
	return &OutstandingResult{Vendors: vendors, Total: total}
}

func (s *appService) PayPayable(ctx context.Context, id string) (*core.PayableEntry, error) {
	entry, err := s.payablesService.Pay(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("payable paid", zap.String("id", entry.ID), zap.String("amount", entry.Amount.String()))
	return entry, nil
}

func (s *appService) SalesMix(ctx context.Context, month string) (*SalesMixResult, error) {
	month = s.monthOrCurrent(month)
	items, err := s.reportingService.SalesMixByMonth(month)
	if err != nil {
		return nil, err
	}
	return &SalesMixResult{Month: month, Items: items}, nil
}

func (s *appService) Trend(ctx context.Context, months int) (*TrendResult, error) {
	if months <= 0 || months > maxTrendMonths {
		return nil, fmt.Errorf("%w: months must be between 1 and %d, got %d", core.ErrValidation, maxTrendMonths, months)
	}
	points, err := s.reportingService.TrendSeries(core.RecentMonthKeys(s.store.Now(), months))
	if err != nil {
		return nil, err
	}
	return &TrendResult{Points: points}, nil
}

func (s *appService) FinancialSummary(ctx context.Context, month string) (*core.FinancialSummary, error) {
	return s.reportingService.FinancialSummary(s.monthOrCurrent(month))
}

func (s *appService) StockHealth(ctx context.Context) *StockHealthResult {
	return &StockHealthResult{Items: s.reportingService.StockHealthReport()}
}

func (s *appService) DeliverySchedule(ctx context.Context) *ScheduleResult {
	return &ScheduleResult{Deliveries: s.reportingService.DeliverySchedule()}
}

func (s *appService) PendingReceipts(ctx context.Context, asOf string) (*ScheduleResult, error) {
	if asOf == "" {
		asOf = s.store.Now().Format("2006-01-02")
	}
	deliveries, err := s.reportingService.PendingReceipts(asOf)
	if err != nil {
		return nil, err
	}
	return &ScheduleResult{Deliveries: deliveries}, nil
}

func (s *appService) RecentMonths(ctx context.Context, n int) []string {
	return core.RecentMonthKeys(s.store.Now(), n)
}

func (s *appService) DocumentSchema() *jsonschema.Schema {
	return core.DocumentSchema()
}

func (s *appService) Flush(ctx context.Context) error {
	return s.store.Flush(ctx)
}

func (s *appService) monthOrCurrent(month string) string {
	if month == "" {
		return s.store.Now().Format("2006-01")
	}
	return month
}
