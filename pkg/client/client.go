// Package client is a Go client for the appointment API. It mirrors the
// behavior of the browser frontend: it holds the bearer token for the
// current session and keeps an optimistic local copy of the appointment
// list, keyed by the authenticated user so that signing in as a different
// user can never surface the previous user's data.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

type Appointment struct {
	ID         string    `json:"id"`
	Department string    `json:"department"`
	Doctor     string    `json:"doctor"`
	Date       string    `json:"appointment_date"`
	Time       string    `json:"appointment_time"`
	CreatedAt  time.Time `json:"created_at"`
}

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.Mutex
	token string
	user  *User
	cache *mirror
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		cache:   newMirror(),
	}
}

func (c *Client) Register(ctx context.Context, firstName, lastName, email, password string) error {
	body := map[string]string{
		"first_name": firstName,
		"last_name":  lastName,
		"email":      email,
		"password":   password,
	}
	return c.do(ctx, http.MethodPost, "/api/auth/register", body, nil)
}

// Login authenticates and installs the session. Logging in as a different
// user than the one that produced the cached appointment list discards
// that cache.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	var resp struct {
		Token string `json:"token"`
		User  User   `json:"user"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &resp); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.token = resp.Token
	c.user = &resp.User
	c.cache.rekey(resp.User.ID)
	c.mu.Unlock()

	u := resp.User
	return &u, nil
}

// Logout drops the token, the user and the cached appointments. The token
// is stateless so there is nothing to tell the server.
func (c *Client) Logout() {
	c.mu.Lock()
	c.token = ""
	c.user = nil
	c.cache.rekey("")
	c.mu.Unlock()
}

// CurrentUser fetches the profile fresh from the server.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &u); err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.user = &u
	c.mu.Unlock()
	return &u, nil
}

// Appointments fetches the caller's appointments. When the server cannot be
// reached and a locally cached list for this user exists, that list is
// returned with stale=true so callers can flag it as unconfirmed. Server
// errors (4xx/5xx) are returned as errors, not masked by the cache.
func (c *Client) Appointments(ctx context.Context) (appts []Appointment, stale bool, err error) {
	var out []Appointment
	err = c.do(ctx, http.MethodGet, "/api/appointments", nil, &out)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err == nil {
		// server response wins over any optimistic local state
		c.cache.replace(out)
		return out, false, nil
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		if cached, ok := c.cache.snapshot(); ok {
			return cached, true, nil
		}
	}
	return nil, false, err
}

// Book creates an appointment. The local mirror is updated optimistically
// and reconciled with the record the server returns; on failure the
// optimistic entry is rolled back.
func (c *Client) Book(ctx context.Context, department, doctor, date, timeLabel string) (*Appointment, error) {
	tempID := "pending-" + uuid.New().String()

	c.mu.Lock()
	c.cache.add(Appointment{
		ID:         tempID,
		Department: department,
		Doctor:     doctor,
		Date:       date,
		Time:       timeLabel,
	})
	c.mu.Unlock()

	var resp struct {
		Appointment Appointment `json:"appointment"`
	}
	body := map[string]string{
		"department":       department,
		"doctor":           doctor,
		"appointment_date": date,
		"appointment_time": timeLabel,
	}
	err := c.do(ctx, http.MethodPost, "/api/appointments", body, &resp)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.take(tempID)
	if err != nil {
		return nil, err
	}
	c.cache.add(resp.Appointment)
	a := resp.Appointment
	return &a, nil
}

// Cancel deletes an appointment. The local mirror drops the entry
// optimistically and restores it if the server refuses.
func (c *Client) Cancel(ctx context.Context, id string) error {
	c.mu.Lock()
	removed, ok := c.cache.take(id)
	c.mu.Unlock()

	err := c.do(ctx, http.MethodDelete, "/api/appointments/"+id, nil, nil)
	if err != nil && ok {
		c.mu.Lock()
		c.cache.add(removed)
		c.mu.Unlock()
	}
	return err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.mu.Lock()
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	c.mu.Unlock()

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(res.Body).Decode(&e)
		return &APIError{Status: res.StatusCode, Message: e.Error}
	}
	if out != nil {
		return json.NewDecoder(res.Body).Decode(out)
	}
	return nil
}
