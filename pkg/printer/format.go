package printer

import (
	"fmt"
	"strings"
)

// Receipts are rendered for a 32-column thermal head. The layout is a
// fixed textual contract: reprints must match historical printouts
// byte for byte.
const lineWidth = 32

const divider = "--------------------------------"

// Document is anything the manager can put on paper.
type Document interface {
	Render() string
}

// ReceiptItem is one itemized line: 16 columns of description, 4 of
// right-aligned quantity, 12 of right-aligned two-decimal amount.
type ReceiptItem struct {
	Description string
	Quantity    int
	Amount      float64
}

func (i ReceiptItem) line() string {
	return fmt.Sprintf("%-16.16s%4d%12.2f", i.Description, i.Quantity, i.Amount)
}

func center(s string) string {
	if len(s) >= lineWidth {
		return s[:lineWidth]
	}
	return strings.Repeat(" ", (lineWidth-len(s))/2) + s
}

func totalLine(total float64) string {
	return fmt.Sprintf("%-20s%12.2f", "TOTAL", total)
}

// feed gives the paper enough travel to clear the tear bar.
const feed = "\n\n\n\n"

// PaymentReceipt is the per-collection receipt. It is built entirely
// from the collection's denormalized snapshot so it renders identically
// after the originating loan is gone.
type PaymentReceipt struct {
	CompanyName      string
	CompanyPhone     string
	ClientName       string
	LoanID           string
	Installment      int
	InstallmentCount int
	Amount           float64
	Day              int
	Month            int
	Year             int
	Hour             int
	Minute           int
}

func (r PaymentReceipt) Render() string {
	item := ReceiptItem{
		Description: fmt.Sprintf("Cuota %d de %d", r.Installment, r.InstallmentCount),
		Quantity:    1,
		Amount:      r.Amount,
	}

	lines := []string{
		divider,
		center("COMPROBANTE DE PAGO"),
		divider,
		center(r.CompanyName),
		center(fmt.Sprintf("Tel: %s", r.CompanyPhone)),
		divider,
		fmt.Sprintf("Cliente: %s", r.ClientName),
		fmt.Sprintf("Prestamo: %s", r.LoanID),
		fmt.Sprintf("Fecha: %02d/%02d/%04d %02d:%02d", r.Day, r.Month, r.Year, r.Hour, r.Minute),
		divider,
		item.line(),
		divider,
		totalLine(r.Amount),
		divider,
	}

	return strings.Join(lines, "\n") + feed
}

// DayClose is the end-of-shift close-out: one line per client covering
// every collection since the last sync, plus the grand total.
type DayClose struct {
	CompanyName string
	Day         int
	Month       int
	Year        int
	Hour        int
	Minute      int
	Items       []ReceiptItem
	Total       float64
}

func (r DayClose) Render() string {
	lines := []string{
		divider,
		center("CIERRE DE CAJA"),
		divider,
		center(r.CompanyName),
		fmt.Sprintf("Fecha: %02d/%02d/%04d %02d:%02d", r.Day, r.Month, r.Year, r.Hour, r.Minute),
		divider,
	}

	for _, item := range r.Items {
		lines = append(lines, item.line())
	}

	lines = append(lines, divider, totalLine(r.Total), divider)

	return strings.Join(lines, "\n") + feed
}
