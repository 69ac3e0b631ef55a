// Package sheets reads quiz questions from, and appends login audit rows to, a
// Google spreadsheet through the Sheets v4 API.
package sheets

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	sheetsv4 "google.golang.org/api/sheets/v4"
)

// Scope grants read access to questions and append access for audit rows.
const Scope = sheetsv4.SpreadsheetsScope

// Client talks to a single spreadsheet.
type Client struct {
	svc           *sheetsv4.Service
	spreadsheetID string
}

// ClientOption configures a Client.
type ClientOption func(*[]option.ClientOption)

// WithBaseURL points the client at another API root, e.g. a test server.
func WithBaseURL(base string) ClientOption {
	return func(opts *[]option.ClientOption) {
		*opts = append(*opts, option.WithEndpoint(base))
	}
}

// NewClient wraps an already authorized HTTP client.
func NewClient(ctx context.Context, httpClient *http.Client, spreadsheetID string, opts ...ClientOption) (*Client, error) {
	clientOpts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	for _, opt := range opts {
		opt(&clientOpts)
	}
	svc, err := sheetsv4.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, errors.Wrap(err, "sheets service")
	}
	return &Client{svc: svc, spreadsheetID: spreadsheetID}, nil
}

// NewHTTPClient builds a service-account HTTP client. Inline JSON wins over a key
// file; with neither, application default credentials are used.
func NewHTTPClient(ctx context.Context, credentialsJSON, credentialsFile string) (*http.Client, error) {
	var (
		creds *google.Credentials
		err   error
	)
	switch {
	case credentialsJSON != "":
		creds, err = google.CredentialsFromJSON(ctx, []byte(credentialsJSON), Scope)
	case credentialsFile != "":
		var data []byte
		data, err = os.ReadFile(credentialsFile)
		if err != nil {
			return nil, errors.Wrap(err, "read google credentials")
		}
		creds, err = google.CredentialsFromJSON(ctx, data, Scope)
	default:
		creds, err = google.FindDefaultCredentials(ctx, Scope)
	}
	if err != nil {
		return nil, errors.Wrap(err, "google credentials")
	}
	client := oauth2.NewClient(ctx, creds.TokenSource)
	client.Timeout = 10 * time.Second
	return client, nil
}

// Ping reads the spreadsheet metadata to check access.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.svc.Spreadsheets.Get(c.spreadsheetID).
		Fields(googleapi.Field("spreadsheetId")).
		Context(ctx).
		Do()
	return errors.Wrap(err, "get spreadsheet")
}

// Values returns the cells in rng as strings, row by row.
func (c *Client) Values(ctx context.Context, rng string) ([][]string, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, errors.Wrapf(err, "read range %s", rng)
	}
	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, len(raw))
		for i, cell := range raw {
			if cell != nil {
				row[i] = fmt.Sprint(cell)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Append adds rows after the last row of rng, storing values as entered.
func (c *Client) Append(ctx context.Context, rng string, rows [][]string) error {
	body := &sheetsv4.ValueRange{Values: make([][]any, 0, len(rows))}
	for _, row := range rows {
		cells := make([]any, len(row))
		for i, v := range row {
			cells[i] = v
		}
		body.Values = append(body.Values, cells)
	}
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, body).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	return errors.Wrapf(err, "append to %s", rng)
}
