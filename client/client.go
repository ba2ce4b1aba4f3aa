package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"
)

// APIError is any non-2xx response, carrying the server's error message.
type APIError struct {
	Status  int
	Message string
	Reason  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.Status == http.StatusNotFound
}

// Client talks to the registrations API. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client

	mu         sync.Mutex
	token      string
	monthWeeks []string
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Login obtains an admin token and keeps it for subsequent mutations.
func (c *Client) Login(ctx context.Context, password string) error {
	var out struct {
		Token string `json:"token"`
	}
	err := c.do(ctx, http.MethodPost, "/api/admin/login", map[string]string{"password": password}, &out)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.token = out.Token
	c.mu.Unlock()
	return nil
}

// Create submits a batch of registrations and returns the inserted count.
func (c *Client) Create(ctx context.Context, regs []NewRegistration) (int, error) {
	var out struct {
		Count int `json:"count"`
	}
	err := c.do(ctx, http.MethodPost, "/api/registrations",
		map[string][]NewRegistration{"registrations": regs}, &out)
	if err != nil {
		return 0, err
	}
	return out.Count, nil
}

// ListOptions are passed through as query parameters; zero values are
// omitted so the server applies its defaults.
type ListOptions struct {
	SortBy        string
	SortOrder     string
	Country       string
	MonthWeek     string
	ContactMethod string
}

// List loads matching records, normalized for the UI, and refreshes the
// distinct month-week labels observed in this load.
func (c *Client) List(ctx context.Context, opts ListOptions) ([]Record, error) {
	q := url.Values{}
	if opts.SortBy != "" {
		q.Set("sortBy", opts.SortBy)
	}
	if opts.SortOrder != "" {
		q.Set("sortOrder", opts.SortOrder)
	}
	if opts.Country != "" {
		q.Set("country", opts.Country)
	}
	if opts.MonthWeek != "" {
		q.Set("monthWeek", opts.MonthWeek)
	}
	if opts.ContactMethod != "" {
		q.Set("contactMethod", opts.ContactMethod)
	}

	path := "/api/registrations"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var rows []row
	if err := c.do(ctx, http.MethodGet, path, nil, &rows); err != nil {
		return nil, err
	}

	records := make([]Record, len(rows))
	for i, r := range rows {
		records[i] = normalize(r)
	}

	c.mu.Lock()
	c.monthWeeks = MonthWeeks(records)
	c.mu.Unlock()

	return records, nil
}

// MonthWeeks returns the labels from the most recent List call, for the
// filter control.
func (c *Client) MonthWeeks() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.monthWeeks))
	copy(out, c.monthWeeks)
	return out
}

func (c *Client) Get(ctx context.Context, id uint) (Record, error) {
	var r row
	if err := c.do(ctx, http.MethodGet, "/api/registrations/"+strconv.FormatUint(uint64(id), 10), nil, &r); err != nil {
		return Record{}, err
	}
	return normalize(r), nil
}

// Update overwrites the full record. All mutable fields are sent every
// time; the contact date is reformatted to ISO before it leaves.
func (c *Client) Update(ctx context.Context, id uint, rec Record) error {
	return c.do(ctx, http.MethodPut, "/api/registrations/"+strconv.FormatUint(uint64(id), 10), denormalize(rec), nil)
}

// SetRegistered toggles only the registration status.
func (c *Client) SetRegistered(ctx context.Context, id uint, registered bool) error {
	return c.do(ctx, http.MethodPatch,
		"/api/registrations/"+strconv.FormatUint(uint64(id), 10)+"/register",
		map[string]bool{"isRegistered": registered}, nil)
}

func (c *Client) Delete(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, "/api/registrations/"+strconv.FormatUint(uint64(id), 10), nil, nil)
}

// Health reports store connectivity and the store's current time.
type Health struct {
	OK     bool   `json:"ok"`
	Now    string `json:"now"`
	Reason string `json:"reason"`
}

func (c *Client) Health(ctx context.Context) (Health, error) {
	var h Health
	err := c.do(ctx, http.MethodGet, "/api/health", nil, &h)
	return h, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var buf *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		buf = bytes.NewBuffer(data)
	} else {
		buf = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	c.mu.Lock()
	token := c.token
	c.mu.Unlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var envelope struct {
			Error  string `json:"error"`
			Reason string `json:"reason"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&envelope)
		if envelope.Error == "" {
			envelope.Error = resp.Status
		}
		return &APIError{Status: resp.StatusCode, Message: envelope.Error, Reason: envelope.Reason}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
