// Package remote is the HTTP client to the head-office server: route
// downloads come in, collected fees go back out.
package remote

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/crediruta/cobrador/pkg/models"
)

// Client talks to the head-office server. Transport failures are
// returned as-is; non-2xx responses decode the server's structured
// error payload into *models.ServerError.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient returns a client with the transport timeout applied; calls
// are otherwise not cancellable mid-flight.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// DownloadRoute fetches the route's loan list with nested fee schedules.
func (c *Client) DownloadRoute(routeID string) ([]models.RouteLoan, error) {
	resp, err := c.HTTPClient.Get(fmt.Sprintf("%s/route/%s", c.BaseURL, url.PathEscape(routeID)))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var route models.RouteResponse
	if err := json.NewDecoder(resp.Body).Decode(&route); err != nil {
		return nil, err
	}

	return route.Loans, nil
}

// UploadFees transmits one batch of collections. The endpoint is
// expected to tolerate the same batch arriving twice.
func (c *Client) UploadFees(batch []models.UploadRecord) error {
	body, err := json.Marshal(batch)
	if err != nil {
		return err
	}

	resp, err := c.HTTPClient.Post(fmt.Sprintf("%s/fees/upload", c.BaseURL), "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return checkStatus(resp)
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var serr models.ServerError
	if err := json.NewDecoder(resp.Body).Decode(&serr); err != nil || serr.Message == "" {
		return &models.ServerError{Message: fmt.Sprintf("unexpected status %d", resp.StatusCode)}
	}

	return &serr
}
