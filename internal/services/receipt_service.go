package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"checky/internal/common"
	"checky/internal/models"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

// ReceiptService renders an order as a printable PDF receipt.
type ReceiptService interface {
	Render(ctx context.Context, tenantID, orderID uuid.UUID, w io.Writer) error
}

type receiptService struct {
	orders      OrderService
	restaurants RestaurantService
	menu        MenuService
}

func NewReceiptService(orders OrderService, restaurants RestaurantService, menu MenuService) ReceiptService {
	return &receiptService{orders: orders, restaurants: restaurants, menu: menu}
}

func (s *receiptService) Render(ctx context.Context, tenantID, orderID uuid.UUID, w io.Writer) error {
	order, err := s.orders.GetByID(ctx, tenantID, orderID)
	if err != nil {
		return err
	}
	restaurant, err := s.restaurants.GetByID(ctx, tenantID)
	if err != nil {
		return err
	}
	names, err := s.itemNames(ctx, tenantID, order.Items)
	if err != nil {
		return err
	}
	return writeReceipt(w, restaurant, order, names)
}

// itemNames resolves menu item names for the lines. Items deleted since the
// order was placed are shown by id.
func (s *receiptService) itemNames(ctx context.Context, tenantID uuid.UUID, lines []models.OrderItem) (map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string, len(lines))
	for _, line := range lines {
		if _, ok := names[line.MenuItemID]; ok {
			continue
		}
		item, err := s.menu.GetItem(ctx, tenantID, line.MenuItemID)
		switch {
		case err == nil:
			names[line.MenuItemID] = item.Name
		case errors.Is(err, common.ErrNotFound):
			names[line.MenuItemID] = "Item " + line.MenuItemID.String()[:8]
		default:
			return nil, err
		}
	}
	return names, nil
}

func writeReceipt(w io.Writer, restaurant *models.Restaurant, order *models.Order, names map[uuid.UUID]string) error {
	const (
		margin   = 8.0
		width    = 80.0
		lineH    = 5.0
		qtyW     = 10.0
		amountW  = 20.0
		contentW = width - 2*margin
	)

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "mm",
		Size:    gofpdf.SizeType{Wd: width, Ht: 200 + float64(len(order.Items))*lineH},
	})
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	money := func(d decimal.Decimal) string {
		return d.StringFixed(2)
	}

	pdf.SetFont("Arial", "B", 12)
	pdf.MultiCell(contentW, 6, tr(restaurant.Name), "", "C", false)
	pdf.SetFont("Arial", "", 8)
	for _, line := range []*string{restaurant.Address, restaurant.Phone} {
		if line != nil && *line != "" {
			pdf.MultiCell(contentW, 4, tr(*line), "", "C", false)
		}
	}
	pdf.Ln(2)

	pdf.CellFormat(contentW, 4, tr(order.OrderNumber), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 4, order.CreatedAt.Format("02 Jan 2006 15:04"), "", 1, "L", false, 0, "")
	if order.TableNumber != nil {
		pdf.CellFormat(contentW, 4, tr("Table "+*order.TableNumber), "", 1, "L", false, 0, "")
	}
	if order.CustomerName != nil {
		pdf.CellFormat(contentW, 4, tr(*order.CustomerName), "", 1, "L", false, 0, "")
	}
	pdf.Ln(1)

	pdf.SetFont("Arial", "B", 8)
	pdf.CellFormat(qtyW, lineH, "Qty", "B", 0, "L", false, 0, "")
	pdf.CellFormat(contentW-qtyW-amountW, lineH, "Item", "B", 0, "L", false, 0, "")
	pdf.CellFormat(amountW, lineH, "Amount", "B", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 8)
	for _, line := range order.Items {
		pdf.CellFormat(qtyW, lineH, fmt.Sprintf("%d", line.Quantity), "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW-qtyW-amountW, lineH, tr(names[line.MenuItemID]), "", 0, "L", false, 0, "")
		pdf.CellFormat(amountW, lineH, money(line.TotalPrice), "", 1, "R", false, 0, "")
	}
	pdf.Ln(1)

	total := func(label string, amount decimal.Decimal, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Arial", style, 8)
		pdf.CellFormat(contentW-amountW, lineH, label, "", 0, "R", false, 0, "")
		pdf.CellFormat(amountW, lineH, money(amount), "", 1, "R", false, 0, "")
	}
	total("Subtotal", order.Subtotal, false)
	total("Tax", order.TaxAmount, false)
	if !order.ServiceCharge.IsZero() {
		total("Service charge", order.ServiceCharge, false)
	}
	if !order.DiscountAmount.IsZero() {
		total("Discount", order.DiscountAmount.Neg(), false)
	}
	total("Total "+restaurant.CurrencyCode, order.TotalAmount, true)

	pdf.Ln(2)
	pdf.SetFont("Arial", "", 8)
	payment := string(order.PaymentStatus)
	if order.PaymentMethod != nil {
		payment += " (" + *order.PaymentMethod + ")"
	}
	pdf.CellFormat(contentW, 4, tr("Payment: "+payment), "", 1, "C", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render receipt: %w", err)
	}
	return nil
}
