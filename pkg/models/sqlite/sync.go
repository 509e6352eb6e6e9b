package sqlite

import (
	"database/sql"
	"errors"
	"sync"

	"github.com/crediruta/cobrador/pkg/models"
	"github.com/crediruta/cobrador/pkg/sql/queries"
	"github.com/ssrdive/mysequel"
)

var (
	// ErrSyncBusy is returned when a sync is requested while another is
	// still running.
	ErrSyncBusy = errors.New("sqlite: sync already in progress")

	// ErrNothingToUpload is returned when there are no pending
	// collections; no network action is taken.
	ErrNothingToUpload = errors.New("sqlite: nothing to upload")
)

// Uploader transmits one batch of collections to the head-office server.
type Uploader interface {
	UploadFees([]models.UploadRecord) error
}

// State is the sync controller's position in its upload cycle.
type State int

const (
	StateIdle State = iota
	StateUploading
	StateResetting
)

func (s State) String() string {
	switch s {
	case StateUploading:
		return "uploading"
	case StateResetting:
		return "resetting"
	default:
		return "idle"
	}
}

// SyncModel batches every pending collection, pushes the batch to the
// server, and only on full success purges the store. A failed upload
// leaves everything intact so the same batch is retried wholesale.
//
// The server must treat the upload endpoint as safe to retry: a crash
// between the server accepting the batch and the local purge completing
// resends the same batch next time (at-least-once delivery).
type SyncModel struct {
	DB       *sql.DB
	Uploader Uploader
	Notifier *Notifier

	mu    sync.Mutex
	state State
}

// State reports the controller's current state.
func (m *SyncModel) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *SyncModel) setState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}

// Sync uploads all pending collections and, on success, wipes the store.
// Returns the batch that was uploaded.
func (m *SyncModel) Sync() ([]models.UploadRecord, error) {
	m.mu.Lock()
	if m.state != StateIdle {
		m.mu.Unlock()
		return nil, ErrSyncBusy
	}
	m.state = StateUploading
	m.mu.Unlock()
	defer m.setState(StateIdle)

	var collections []models.NewCollection
	err := mysequel.QueryToStructs(&collections, m.DB, queries.ALL_COLLECTIONS)
	if err != nil {
		return nil, err
	}

	if len(collections) == 0 {
		return nil, ErrNothingToUpload
	}

	batch := make([]models.UploadRecord, len(collections))
	for i, c := range collections {
		batch[i] = models.UploadRecord{
			LoanID:   c.LoanID,
			FeeSeq:   c.FeeSeq,
			Amount:   c.Amount,
			Day:      c.Day,
			Month:    c.Month,
			Year:     c.Year,
			Hour:     c.Hour,
			Minute:   c.Minute,
			Second:   c.Second,
			TimeZone: c.TimeZone,
		}
	}

	if err := m.Uploader.UploadFees(batch); err != nil {
		return nil, err
	}

	m.setState(StateResetting)
	if err := m.PurgeAll(); err != nil {
		return nil, err
	}

	return batch, nil
}

// PurgeAll deletes loans, scheduled fees and pending collections in one
// transaction.
func (m *SyncModel) PurgeAll() error {
	tx, err := m.DB.Begin()
	if err != nil {
		return err
	}

	for _, stmt := range []string{queries.PURGE_COLLECTIONS, queries.PURGE_FEES, queries.PURGE_LOANS} {
		if _, err = tx.Exec(stmt); err != nil {
			tx.Rollback()
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return err
	}

	m.Notifier.Broadcast("new_collection")
	m.Notifier.Broadcast("scheduled_fee")
	m.Notifier.Broadcast("loan")
	return nil
}
