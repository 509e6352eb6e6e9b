package models

import (
	"errors"
	"fmt"
)

var ErrNoRecord = errors.New("models: no matching record found")

// ServerError is a structured error payload reported by the head-office
// server. Callers treat it like a transport failure but it is logged
// distinctly.
type ServerError struct {
	Message string `json:"message"`
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server: %s", e.Message)
}

type UserResponse struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Token    string `json:"token"`
}

type User struct {
	ID       int
	Username string
	Password string
	Name     string
	Type     string
}

// Loan is a downloaded route loan. Immutable once stored; destroyed on
// sync reset.
type Loan struct {
	ID           string  `json:"id"`
	Principal    float64 `json:"principal"`
	InterestRate float64 `json:"interest_rate"`
	Installments int     `json:"installments"`
	Originated   string  `json:"originated"`
	CustomerID   string  `json:"customer_id"`
	CustomerName string  `json:"customer_name"`
	CustomerNIC  string  `json:"customer_nic"`
}

// ScheduledFee is one installment of a loan's repayment schedule. The
// sequence number, not the local row id, is the join key for
// reconciliation.
type ScheduledFee struct {
	ID         int     `json:"id"`
	LoanID     string  `json:"loan_id"`
	Seq        int     `json:"seq"`
	PaidAmount float64 `json:"paid_amount"`
	DueDate    string  `json:"due_date"`
}

// NewCollection is a locally recorded, not-yet-uploaded payment event.
// The capture timestamp is kept as discrete fields so it survives
// serialization across the offline boundary. Company and client fields
// are denormalized on purpose: a receipt must reprint after the
// originating loan has been purged by a sync.
type NewCollection struct {
	ID               int     `json:"id"`
	LoanID           string  `json:"loan_id"`
	FeeSeq           int     `json:"fee_seq"`
	Amount           float64 `json:"amount"`
	Day              int     `json:"day"`
	Month            int     `json:"month"`
	Year             int     `json:"year"`
	Hour             int     `json:"hour"`
	Minute           int     `json:"minute"`
	Second           int     `json:"second"`
	TimeZone         string  `json:"timezone"`
	Installment      int     `json:"installment"`
	InstallmentCount int     `json:"installment_count"`
	CompanyName      string  `json:"company_name"`
	CompanyPhone     string  `json:"company_phone"`
	ClientName       string  `json:"client_name"`
}

// FeeView is the reconciled view of one scheduled fee: the downloaded
// paid amount overlaid with pending local collections. Never persisted;
// recomputed on every read.
type FeeView struct {
	LoanID        string  `json:"loan_id"`
	Seq           int     `json:"seq"`
	DueDate       string  `json:"due_date"`
	DueAmount     float64 `json:"due_amount"`
	PaidAmount    float64 `json:"paid_amount"`
	PendingAmount float64 `json:"pending_amount"`
}

// RouteCustomer, RouteFee and RouteLoan are the wire shapes of a route
// download.
type RouteCustomer struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	NIC  string `json:"nic"`
}

type RouteFee struct {
	Seq        int     `json:"seq"`
	PaidAmount float64 `json:"paid_amount"`
	DueDate    string  `json:"due_date"`
}

type RouteLoan struct {
	ID           string        `json:"id"`
	Principal    float64       `json:"principal"`
	InterestRate float64       `json:"interest_rate"`
	Installments int           `json:"installments"`
	Originated   string        `json:"originated"`
	Customer     RouteCustomer `json:"customer"`
	Fees         []RouteFee    `json:"fees"`
}

type RouteResponse struct {
	Loans []RouteLoan `json:"loans"`
}

// UploadRecord is the wire shape of one collection in a sync batch.
type UploadRecord struct {
	LoanID   string  `json:"loan_id"`
	FeeSeq   int     `json:"fee_seq"`
	Amount   float64 `json:"amount"`
	Day      int     `json:"day"`
	Month    int     `json:"month"`
	Year     int     `json:"year"`
	Hour     int     `json:"hour"`
	Minute   int     `json:"minute"`
	Second   int     `json:"second"`
	TimeZone string  `json:"timezone"`
}
