package sqlite

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/crediruta/cobrador/pkg/models"
)

type fakeUploader struct {
	err     error
	batches [][]models.UploadRecord
}

func (f *fakeUploader) UploadFees(batch []models.UploadRecord) error {
	f.batches = append(f.batches, batch)
	return f.err
}

func seedScenario(t *testing.T, loans *LoanModel, collections *CollectionModel) {
	t.Helper()
	require.NoError(t, loans.SaveRouteLoan(routeLoan()))
	_, err := collections.Record(models.NewCollection{
		LoanID: "L1", FeeSeq: 1, Amount: 300,
		Day: 1, Month: 9, Year: 2026, Hour: 9, Minute: 0, Second: 0, TimeZone: "America/Tegucigalpa",
		Installment: 1, InstallmentCount: 4, ClientName: "Maria Lopez",
	})
	require.NoError(t, err)
}

func TestSyncSuccessClearsStore(t *testing.T) {
	db := newTestDB(t)
	loans := &LoanModel{DB: db}
	collections := &CollectionModel{DB: db}
	uploader := &fakeUploader{}
	syncer := &SyncModel{DB: db, Uploader: uploader}

	seedScenario(t, loans, collections)

	batch, err := syncer.Sync()
	require.NoError(t, err)
	require.Len(t, batch, 1)
	require.Equal(t, "L1", batch[0].LoanID)
	require.Equal(t, 1, batch[0].FeeSeq)
	require.Equal(t, 300.00, batch[0].Amount)
	require.Equal(t, "America/Tegucigalpa", batch[0].TimeZone)

	// All three record kinds are gone.
	remaining, err := loans.All()
	require.NoError(t, err)
	require.Empty(t, remaining)

	fees, err := loans.FeesForLoan("L1")
	require.NoError(t, err)
	require.Empty(t, fees)

	pending, err := collections.All()
	require.NoError(t, err)
	require.Empty(t, pending)

	require.Equal(t, StateIdle, syncer.State())
}

func TestSyncFailureLeavesStoreIntact(t *testing.T) {
	db := newTestDB(t)
	loans := &LoanModel{DB: db}
	collections := &CollectionModel{DB: db}
	uploader := &fakeUploader{err: errors.New("network unreachable")}
	syncer := &SyncModel{DB: db, Uploader: uploader}

	seedScenario(t, loans, collections)

	before, err := collections.All()
	require.NoError(t, err)

	_, err = syncer.Sync()
	require.Error(t, err)

	after, err := collections.All()
	require.NoError(t, err)
	require.Equal(t, before, after)

	remaining, err := loans.All()
	require.NoError(t, err)
	require.Len(t, remaining, 1)

	require.Equal(t, StateIdle, syncer.State())

	// A later sync retries the same batch wholesale.
	uploader.err = nil
	batch, err := syncer.Sync()
	require.NoError(t, err)
	require.Equal(t, uploader.batches[0], batch)
}

func TestSyncNothingToUpload(t *testing.T) {
	db := newTestDB(t)
	uploader := &fakeUploader{}
	syncer := &SyncModel{DB: db, Uploader: uploader}

	_, err := syncer.Sync()
	require.ErrorIs(t, err, ErrNothingToUpload)
	require.Empty(t, uploader.batches)
}

func TestSyncBusy(t *testing.T) {
	db := newTestDB(t)
	syncer := &SyncModel{DB: db}
	syncer.setState(StateUploading)

	_, err := syncer.Sync()
	require.ErrorIs(t, err, ErrSyncBusy)
}

func TestStateString(t *testing.T) {
	require.Equal(t, "idle", StateIdle.String())
	require.Equal(t, "uploading", StateUploading.String())
	require.Equal(t, "resetting", StateResetting.String())
}
