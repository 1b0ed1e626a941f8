// Package client is a typed HTTP client for the ticketing API together with
// the view state the booking screens are built on.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// APIError is a non-2xx response decoded from the server's error envelope.
type APIError struct {
	Status  int
	Message string
	Detail  string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api error %d: %s (%s)", e.Status, e.Message, e.Detail)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

type Event struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	Category         string    `json:"category"`
	Date             time.Time `json:"date"`
	Venue            string    `json:"venue"`
	Price            float64   `json:"price"`
	Image            string    `json:"image"`
	Capacity         int       `json:"capacity"`
	AvailableTickets int       `json:"availableTickets"`
	Tags             []string  `json:"tags"`
}

type Booking struct {
	ID          string     `json:"id"`
	EventID     string     `json:"eventId"`
	UserID      string     `json:"userId"`
	Tickets     int        `json:"tickets"`
	TotalPrice  float64    `json:"totalPrice"`
	Status      string     `json:"status"`
	BookingDate time.Time  `json:"bookingDate"`
	CancelledAt *time.Time `json:"cancelledAt,omitempty"`
	Event       *Event     `json:"event,omitempty"`
}

// EventInput is the body for creating an event. Image and AvailableTickets
// are optional on the server side.
type EventInput struct {
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	Category         string    `json:"category"`
	Date             time.Time `json:"date"`
	Venue            string    `json:"venue"`
	Price            float64   `json:"price"`
	Image            string    `json:"image,omitempty"`
	Capacity         int       `json:"capacity"`
	AvailableTickets *int      `json:"availableTickets,omitempty"`
	Tags             []string  `json:"tags,omitempty"`
}

type InventoryStatus struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Capacity         int    `json:"capacity"`
	AvailableTickets int    `json:"availableTickets"`
	ActiveBookings   int64  `json:"activeBookings"`
	Consistent       bool   `json:"consistent"`
}

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type authResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type errorEnvelope struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Login stores the returned token for subsequent calls.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	var resp authResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", body, &resp); err != nil {
		return nil, err
	}
	c.SetToken(resp.Token)
	return &resp.User, nil
}

func (c *Client) Register(ctx context.Context, username, email, password string) (*User, error) {
	var resp authResponse
	body := map[string]string{"username": username, "email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/register", body, &resp); err != nil {
		return nil, err
	}
	c.SetToken(resp.Token)
	return &resp.User, nil
}

// ListEvents returns all events, or only those in category when it is set.
func (c *Client) ListEvents(ctx context.Context, category string) ([]Event, error) {
	path := "/api/v1/events"
	if category != "" {
		path += "?category=" + url.QueryEscape(category)
	}
	var events []Event
	if err := c.do(ctx, http.MethodGet, path, nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (c *Client) GetEvent(ctx context.Context, id string) (*Event, error) {
	var event Event
	if err := c.do(ctx, http.MethodGet, "/api/v1/events/"+url.PathEscape(id), nil, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (c *Client) MyBookings(ctx context.Context) ([]Booking, error) {
	var bookings []Booking
	if err := c.do(ctx, http.MethodGet, "/api/v1/bookings/my-bookings", nil, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (c *Client) BookEvent(ctx context.Context, eventID string) (*Booking, error) {
	var booking Booking
	body := map[string]string{"eventId": eventID}
	if err := c.do(ctx, http.MethodPost, "/api/v1/bookings", body, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

func (c *Client) CancelBooking(ctx context.Context, bookingID string) (*Booking, error) {
	var resp struct {
		Message string  `json:"message"`
		Booking Booking `json:"booking"`
	}
	if err := c.do(ctx, http.MethodDelete, "/api/v1/bookings/"+url.PathEscape(bookingID), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Booking, nil
}

// CreateEvent requires an admin token.
func (c *Client) CreateEvent(ctx context.Context, in EventInput) (*Event, error) {
	var event Event
	if err := c.do(ctx, http.MethodPost, "/api/v1/events", in, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// DeleteEvent requires an admin token and returns how many bookings went
// with the event.
func (c *Client) DeleteEvent(ctx context.Context, id string) (int, error) {
	var resp struct {
		DeletedBookings int `json:"deletedBookings"`
	}
	if err := c.do(ctx, http.MethodDelete, "/api/v1/events/"+url.PathEscape(id), nil, &resp); err != nil {
		return 0, err
	}
	return resp.DeletedBookings, nil
}

func (c *Client) InventoryStatus(ctx context.Context, id string) (*InventoryStatus, error) {
	var status InventoryStatus
	if err := c.do(ctx, http.MethodGet, "/api/v1/events/"+url.PathEscape(id)+"/status", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var env errorEnvelope
		if json.Unmarshal(raw, &env) == nil && env.Message != "" {
			apiErr.Message = env.Message
			apiErr.Detail = env.Error
		}
		return apiErr
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
