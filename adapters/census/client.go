package census

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"popsynth/domain/microdata"
	"popsynth/internal/errors"
)

// Client fetches PUMS-style microdata as CSV from an HTTP endpoint.
type Client struct {
	query      Query
	httpClient *http.Client
}

// NewClient creates a client for one query descriptor.
func NewClient(query Query) *Client {
	timeout := query.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		query: query,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Fetch retrieves the requested fields as a raw table.
//
// Failure is always loud and typed: transport problems and timeouts are
// NETWORK_ERROR, a 401/403 is a NETWORK_ERROR naming the credential, and a
// response that is not CSV with the requested columns is SCHEMA_ERROR.
func (c *Client) Fetch(ctx context.Context) (*microdata.RawTable, error) {
	req, err := c.buildRequest(ctx)
	if err != nil {
		return nil, errors.NetworkError("failed to build microdata request", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.NetworkError("microdata fetch failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, errors.AuthRejected(resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, errors.NetworkError(fmt.Sprintf("microdata feed returned status %d", resp.StatusCode), nil)
	}

	reader := csv.NewReader(resp.Body)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.SchemaError(fmt.Sprintf("malformed CSV response: %v", err))
	}
	if len(rows) < 1 {
		return nil, errors.SchemaError("response contained no header row")
	}

	table := c.dropIndexColumn(rows)
	if err := c.verifyColumns(table); err != nil {
		return nil, err
	}
	return table, nil
}

// buildRequest assembles the GET with field list and credential in the query
// string, per the feed's contract.
func (c *Client) buildRequest(ctx context.Context) (*http.Request, error) {
	u, err := url.Parse(c.query.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", c.query.BaseURL, err)
	}

	params := u.Query()
	params.Set("get", strings.Join(c.query.Fields, ","))
	params.Set("key", c.query.APIKey)
	u.RawQuery = params.Encode()

	return http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
}

// dropIndexColumn removes the feed's auxiliary leading index column. The
// column is present when the header row has one cell more than the requested
// fields; its header is empty or not a requested field.
func (c *Client) dropIndexColumn(rows [][]string) *microdata.RawTable {
	header := rows[0]
	drop := len(header) == len(c.query.Fields)+1 && !c.isRequestedField(header[0])

	headers := make([]string, 0, len(header))
	for i, h := range header {
		if drop && i == 0 {
			continue
		}
		headers = append(headers, strings.TrimSpace(h))
	}

	dataRows := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		cells := make([]string, 0, len(row))
		for i, cell := range row {
			if drop && i == 0 {
				continue
			}
			cells = append(cells, strings.TrimSpace(cell))
		}
		dataRows = append(dataRows, cells)
	}

	return &microdata.RawTable{Headers: headers, Rows: dataRows}
}

func (c *Client) isRequestedField(header string) bool {
	for _, f := range c.query.Fields {
		if strings.EqualFold(strings.TrimSpace(header), f) {
			return true
		}
	}
	return false
}

// verifyColumns checks every requested field arrived and every row is as wide
// as the header.
func (c *Client) verifyColumns(table *microdata.RawTable) error {
	for _, field := range c.query.Fields {
		if table.ColumnIndex(field) == -1 {
			return errors.SchemaError(fmt.Sprintf("requested column %q missing from response (got %v)", field, table.Headers))
		}
	}
	for i, row := range table.Rows {
		if len(row) != len(table.Headers) {
			return errors.SchemaError(fmt.Sprintf("row %d has %d cells, header has %d", i+1, len(row), len(table.Headers)))
		}
	}
	return nil
}
