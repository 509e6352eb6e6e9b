package helpers

import (
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/crediruta/cobrador/pkg/models"
)

// CollectionsBetween returns pending collections captured between two
// dates inclusive, optionally narrowed to one loan. The capture date is
// stored as discrete fields, so the range compares a packed yyyymmdd.
func CollectionsBetween(db *sql.DB, start, end time.Time, loanID string) ([]models.NewCollection, error) {
	q := sq.
		Select("id", "loan_id", "fee_seq", "amount", "day", "month", "year", "hour", "minute", "second", "timezone",
			"installment", "installment_count", "company_name", "company_phone", "client_name").
		From("new_collection").
		Where(sq.Expr("year*10000 + month*100 + day BETWEEN ? AND ?", packDate(start), packDate(end))).
		OrderBy("id")

	if loanID != "" {
		q = q.Where(sq.Eq{"loan_id": loanID})
	}

	rows, err := q.RunWith(db).Query()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	collections := []models.NewCollection{}
	for rows.Next() {
		var c models.NewCollection
		err = rows.Scan(&c.ID, &c.LoanID, &c.FeeSeq, &c.Amount, &c.Day, &c.Month, &c.Year, &c.Hour, &c.Minute, &c.Second, &c.TimeZone,
			&c.Installment, &c.InstallmentCount, &c.CompanyName, &c.CompanyPhone, &c.ClientName)
		if err != nil {
			return nil, err
		}
		collections = append(collections, c)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return collections, nil
}

func packDate(t time.Time) int {
	return t.Year()*10000 + int(t.Month())*100 + t.Day()
}
