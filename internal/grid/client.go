// Package grid serves the error-resolution data grid: the remote row source,
// the column model, cell editors and theme-derived grid parameters.
package grid

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

const (
	defaultTimeout  = 20 * time.Second
	maxResponseSize = 16 << 20
)

// MissingGUIDMessage is shown in place of the grid when no GUID was given.
const MissingGUIDMessage = "GUID is required. Please provide GUID in query parameters (e.g., ?GUID=your-guid-here)"

var ErrMissingGUID = errors.New("guid is required")

// Row is one error-resolution record as returned by the remote API.
type Row struct {
	EDIPackageImportID      int64  `json:"EDIPackageImportID"`
	FileName                string `json:"fileName"`
	FileType                string `json:"filetype"`
	FileFormat              string `json:"fileFormat"`
	EntityID                string `json:"entityId"`
	Status                  string `json:"status"`
	UploadedOn              string `json:"uploadedOn"`
	ProcessedOn             string `json:"processedOn"`
	PackageBundleID         int64  `json:"packageBundleId"`
	LastModified            string `json:"lastModified"`
	TransactionType         string `json:"TransactionType"`
	MasterPackageName       string `json:"MasterPackageName"`
	DataImported            string `json:"DataImported"`
	DataValidated           string `json:"DataValidated"`
	MappingResolved         string `json:"MappingResolved"`
	TransactionStatus       string `json:"TransactionStatus"`
	EDIPackageImportGroupID int64  `json:"EDIPackageImportGroupId"`
	ErrorMessage            string `json:"ErrorMessage"`
}

type envelope struct {
	ResponseData []Row `json:"responseData"`
}

// Client fetches grid rows. Concurrent fetches for the same GUID share one
// request.
type Client struct {
	BaseURL         string
	TransactionType string
	HTTPClient      *http.Client

	group singleflight.Group
}

func NewClient(baseURL, transactionType string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		BaseURL:         strings.TrimSpace(baseURL),
		TransactionType: transactionType,
		HTTPClient:      &http.Client{Timeout: timeout},
	}
}

// Fetch returns the rows for guid. A cancelled ctx returns early.
func (c *Client) Fetch(ctx context.Context, guid string) ([]Row, error) {
	guid = strings.TrimSpace(guid)
	if guid == "" {
		return nil, ErrMissingGUID
	}

	// The shared fetch outlives any single caller; the client timeout bounds it.
	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(guid, func() (any, error) {
		return c.fetch(shared, guid)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			log.Ctx(ctx).Debug().Str("guid", guid).Msg("Shared in-flight grid fetch")
		}
		return res.Val.([]Row), nil
	}
}

func (c *Client) fetch(ctx context.Context, guid string) ([]Row, error) {
	endpoint, err := url.Parse(c.BaseURL)
	if err != nil || endpoint.Scheme == "" {
		return nil, fmt.Errorf("invalid grid API URL %q", c.BaseURL)
	}
	query := endpoint.Query()
	query.Set("TransactionType", c.TransactionType)
	query.Set("GUID", guid)
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build grid request: %w", err)
	}
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Authorization", "Bearer "+guid)
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("call grid API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("read grid response: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("grid API returned %s", resp.Status)
	}

	return ParseResponse(body)
}

var defaultHTTPClient = &http.Client{Timeout: defaultTimeout}

// httpClient never writes to c, so a zero Client is safe to share.
func (c *Client) httpClient() *http.Client {
	if c.HTTPClient == nil {
		return defaultHTTPClient
	}
	return c.HTTPClient
}

// ParseResponse accepts either an array of envelopes or a single envelope
// and returns the first envelope's rows.
func ParseResponse(body []byte) ([]Row, error) {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return nil, errors.New("empty grid response")
	}

	var envelopes []envelope
	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal([]byte(trimmed), &envelopes); err != nil {
			return nil, fmt.Errorf("decode grid response: %w", err)
		}
	} else {
		var single envelope
		if err := json.Unmarshal([]byte(trimmed), &single); err != nil {
			return nil, fmt.Errorf("decode grid response: %w", err)
		}
		envelopes = []envelope{single}
	}
	if len(envelopes) == 0 {
		return nil, errors.New("grid response contained no data")
	}
	rows := envelopes[0].ResponseData
	if rows == nil {
		rows = []Row{}
	}
	return rows, nil
}
