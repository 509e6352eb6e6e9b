package sqlite

import (
	"database/sql"

	"github.com/crediruta/cobrador/pkg/loan"
	"github.com/crediruta/cobrador/pkg/models"
	"github.com/crediruta/cobrador/pkg/sql/queries"
	"github.com/ssrdive/mysequel"
)

// LoanModel holds the downloaded side of the store: loans and their
// original fee schedules.
type LoanModel struct {
	DB       *sql.DB
	Notifier *Notifier
}

// SaveLoan upserts a loan by id.
func (m *LoanModel) SaveLoan(l models.Loan) error {
	_, err := m.DB.Exec(queries.UPSERT_LOAN, l.ID, l.Principal, l.InterestRate, l.Installments, l.Originated, l.CustomerID, l.CustomerName, l.CustomerNIC)
	if err != nil {
		return err
	}

	m.Notifier.Broadcast("loan")
	return nil
}

// SaveFee upserts a scheduled fee by (loan id, sequence number). Fees
// referencing a loan that has not arrived yet are accepted; the download
// emits records in no guaranteed order.
func (m *LoanModel) SaveFee(f models.ScheduledFee) error {
	_, err := m.DB.Exec(queries.UPSERT_FEE, f.LoanID, f.Seq, f.PaidAmount, f.DueDate)
	if err != nil {
		return err
	}

	m.Notifier.Broadcast("scheduled_fee")
	return nil
}

// SaveRouteLoan upserts one downloaded loan together with its fees in a
// single transaction. Loans already written before a mid-download
// failure stay written.
func (m *LoanModel) SaveRouteLoan(rl models.RouteLoan) error {
	tx, err := m.DB.Begin()
	if err != nil {
		return err
	}

	_, err = tx.Exec(queries.UPSERT_LOAN, rl.ID, rl.Principal, rl.InterestRate, rl.Installments, rl.Originated, rl.Customer.ID, rl.Customer.Name, rl.Customer.NIC)
	if err != nil {
		tx.Rollback()
		return err
	}

	for _, f := range rl.Fees {
		if _, err = tx.Exec(queries.UPSERT_FEE, rl.ID, f.Seq, f.PaidAmount, f.DueDate); err != nil {
			tx.Rollback()
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return err
	}

	m.Notifier.Broadcast("loan")
	m.Notifier.Broadcast("scheduled_fee")
	return nil
}

// Get returns a loan by id.
func (m *LoanModel) Get(id string) (models.Loan, error) {
	var l models.Loan
	err := m.DB.QueryRow(queries.LOAN_BY_ID, id).Scan(&l.ID, &l.Principal, &l.InterestRate, &l.Installments, &l.Originated, &l.CustomerID, &l.CustomerName, &l.CustomerNIC)
	if err == sql.ErrNoRows {
		return models.Loan{}, models.ErrNoRecord
	}
	if err != nil {
		return models.Loan{}, err
	}

	return l, nil
}

// All returns every downloaded loan.
func (m *LoanModel) All() ([]models.Loan, error) {
	var loans []models.Loan
	err := mysequel.QueryToStructs(&loans, m.DB, queries.ALL_LOANS)
	if err != nil {
		return nil, err
	}

	return loans, nil
}

// FeesForLoan returns a loan's schedule as downloaded, ordered by
// sequence number.
func (m *LoanModel) FeesForLoan(loanID string) ([]models.ScheduledFee, error) {
	var fees []models.ScheduledFee
	err := mysequel.QueryToStructs(&fees, m.DB, queries.FEES_FOR_LOAN, loanID)
	if err != nil {
		return nil, err
	}

	return fees, nil
}

// ReconciledFees merges the downloaded schedule with pending local
// collections. The merge is recomputed on every call; collections can
// arrive after fees are first displayed.
func (m *LoanModel) ReconciledFees(loanID string) ([]models.FeeView, error) {
	l, err := m.Get(loanID)
	if err != nil {
		return nil, err
	}

	fees, err := m.FeesForLoan(loanID)
	if err != nil {
		return nil, err
	}

	var collections []models.NewCollection
	err = mysequel.QueryToStructs(&collections, m.DB, queries.COLLECTIONS_FOR_LOAN, loanID)
	if err != nil {
		return nil, err
	}

	return loan.Reconcile(l, fees, collections), nil
}
