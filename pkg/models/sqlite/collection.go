package sqlite

import (
	"database/sql"

	"github.com/crediruta/cobrador/pkg/models"
	"github.com/crediruta/cobrador/pkg/sql/queries"
	"github.com/ssrdive/mysequel"
)

// CollectionModel holds locally recorded, not-yet-uploaded collections.
type CollectionModel struct {
	DB       *sql.DB
	Notifier *Notifier
}

// Record persists one collection event. Single atomic insert; the local
// id is auto-incremented and never reused. Empty snapshot fields are
// stored as empty strings, never as NULL.
func (m *CollectionModel) Record(c models.NewCollection) (int64, error) {
	res, err := m.DB.Exec(queries.INSERT_COLLECTION,
		c.LoanID, c.FeeSeq, c.Amount, c.Day, c.Month, c.Year, c.Hour, c.Minute, c.Second, c.TimeZone,
		c.Installment, c.InstallmentCount, c.CompanyName, c.CompanyPhone, c.ClientName)
	if err != nil {
		return 0, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	m.Notifier.Broadcast("new_collection")
	return id, nil
}

// Get returns a collection by local id.
func (m *CollectionModel) Get(id int) (models.NewCollection, error) {
	var c models.NewCollection
	err := m.DB.QueryRow(queries.COLLECTION_BY_ID, id).Scan(&c.ID, &c.LoanID, &c.FeeSeq, &c.Amount, &c.Day, &c.Month, &c.Year, &c.Hour, &c.Minute, &c.Second, &c.TimeZone, &c.Installment, &c.InstallmentCount, &c.CompanyName, &c.CompanyPhone, &c.ClientName)
	if err == sql.ErrNoRows {
		return models.NewCollection{}, models.ErrNoRecord
	}
	if err != nil {
		return models.NewCollection{}, err
	}

	return c, nil
}

// ForLoan returns pending collections recorded against one loan.
func (m *CollectionModel) ForLoan(loanID string) ([]models.NewCollection, error) {
	var collections []models.NewCollection
	err := mysequel.QueryToStructs(&collections, m.DB, queries.COLLECTIONS_FOR_LOAN, loanID)
	if err != nil {
		return nil, err
	}

	return collections, nil
}

// All returns every pending collection across all loans, oldest first.
func (m *CollectionModel) All() ([]models.NewCollection, error) {
	var collections []models.NewCollection
	err := mysequel.QueryToStructs(&collections, m.DB, queries.ALL_COLLECTIONS)
	if err != nil {
		return nil, err
	}

	return collections, nil
}

// Count returns the number of pending collections.
func (m *CollectionModel) Count() (int, error) {
	var n int
	err := m.DB.QueryRow(queries.COLLECTION_COUNT).Scan(&n)
	if err != nil {
		return 0, err
	}

	return n, nil
}
