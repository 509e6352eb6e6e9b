package remote

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/crediruta/cobrador/pkg/models"
)

func TestDownloadRoute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/route/R1", r.URL.Path)
		json.NewEncoder(w).Encode(models.RouteResponse{Loans: []models.RouteLoan{
			{
				ID: "L1", Principal: 1000, InterestRate: 5, Installments: 4,
				Originated: "2026-01-15T08:00:00-06:00",
				Customer:   models.RouteCustomer{ID: "C1", Name: "Maria Lopez"},
				Fees:       []models.RouteFee{{Seq: 1, DueDate: "2026-02-15"}},
			},
		}})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	loans, err := c.DownloadRoute("R1")
	require.NoError(t, err)
	require.Len(t, loans, 1)
	require.Equal(t, "L1", loans[0].ID)
	require.Len(t, loans[0].Fees, 1)
}

func TestDownloadRouteServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"message": "unknown route"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.DownloadRoute("R9")

	var serr *models.ServerError
	require.ErrorAs(t, err, &serr)
	require.Equal(t, "unknown route", serr.Message)
}

func TestDownloadRouteTransportError(t *testing.T) {
	c := NewClient("http://127.0.0.1:1")
	_, err := c.DownloadRoute("R1")
	require.Error(t, err)

	// Transport failures pass through untouched, not as server errors.
	var serr *models.ServerError
	require.False(t, errors.As(err, &serr))
}

func TestUploadFees(t *testing.T) {
	var got []models.UploadRecord
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/fees/upload", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	batch := []models.UploadRecord{
		{LoanID: "L1", FeeSeq: 1, Amount: 300, Day: 1, Month: 9, Year: 2026, Hour: 9, TimeZone: "America/Tegucigalpa"},
	}

	c := NewClient(srv.URL)
	require.NoError(t, c.UploadFees(batch))
	require.Equal(t, batch, got)
}

func TestUploadFeesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"message": "batch rejected"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	err := c.UploadFees([]models.UploadRecord{{LoanID: "L1", FeeSeq: 1, Amount: 1}})

	var serr *models.ServerError
	require.ErrorAs(t, err, &serr)
	require.Equal(t, "batch rejected", serr.Message)
}
