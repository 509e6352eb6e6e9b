package helpers

import (
	"database/sql"
	"testing"
	"time"

	"github.com/crediruta/cobrador/pkg/sql/queries"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(queries.SCHEMA)
	require.NoError(t, err)

	return db
}

func insertCollection(t *testing.T, db *sql.DB, loanID string, day, month, year int, amount float64) {
	t.Helper()

	_, err := db.Exec(`
		INSERT INTO new_collection (loan_id, fee_seq, amount, day, month, year, hour, minute, second, timezone,
			installment, installment_count, company_name, company_phone, client_name)
		VALUES (?, 1, ?, ?, ?, ?, 10, 0, 0, '-06:00', 1, 4, 'Crediruta S.A.', '2233-4455', 'Maria Lopez')`,
		loanID, amount, day, month, year)
	require.NoError(t, err)
}

func TestCollectionsBetween(t *testing.T) {
	db := newTestDB(t)
	insertCollection(t, db, "L1", 31, 8, 2026, 100)
	insertCollection(t, db, "L1", 1, 9, 2026, 200)
	insertCollection(t, db, "L2", 2, 9, 2026, 300)
	insertCollection(t, db, "L1", 3, 9, 2026, 400)

	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)

	got, err := CollectionsBetween(db, start, end, "")
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, 200.0, got[0].Amount)
	require.Equal(t, 300.0, got[1].Amount)
}

func TestCollectionsBetweenByLoan(t *testing.T) {
	db := newTestDB(t)
	insertCollection(t, db, "L1", 1, 9, 2026, 200)
	insertCollection(t, db, "L2", 1, 9, 2026, 300)

	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	got, err := CollectionsBetween(db, start, start, "L2")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "L2", got[0].LoanID)
	require.Equal(t, 300.0, got[0].Amount)
}

func TestCollectionsBetweenSpansMonthEnd(t *testing.T) {
	db := newTestDB(t)
	insertCollection(t, db, "L1", 31, 8, 2026, 100)
	insertCollection(t, db, "L1", 1, 9, 2026, 200)

	start := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	got, err := CollectionsBetween(db, start, end, "")
	require.NoError(t, err)
	require.Len(t, got, 2)
}

func TestCollectionsBetweenEmpty(t *testing.T) {
	db := newTestDB(t)

	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	got, err := CollectionsBetween(db, start, start, "")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got, 0)
}
