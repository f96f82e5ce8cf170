package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stub is an in-memory stand-in for the API server, just enough surface for
// the client to talk to.
type stub struct {
	mu     sync.Mutex
	tokens map[string]string        // token -> user id
	users  map[string]stubUser      // email -> user
	appts  map[string][]Appointment // user id -> appointments
	nextID int
}

type stubUser struct {
	id, password string
}

func newStub() *stub {
	return &stub{
		tokens: make(map[string]string),
		users:  make(map[string]stubUser),
		appts:  make(map[string][]Appointment),
	}
}

func (s *stub) addUser(email, password, id string) {
	s.users[email] = stubUser{id: id, password: password}
}

func (s *stub) identify(r *http.Request) (string, bool) {
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) != 2 {
		return "", false
	}
	uid, ok := s.tokens[parts[1]]
	return uid, ok
}

func (s *stub) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req struct{ Email, Password string }
		_ = json.NewDecoder(r.Body).Decode(&req)
		s.mu.Lock()
		defer s.mu.Unlock()
		u, ok := s.users[req.Email]
		if !ok || u.password != req.Password {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "Invalid email or password"})
			return
		}
		tok := "tok-" + u.id
		s.tokens[tok] = u.id
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message": "Login successful",
			"token":   tok,
			"user":    map[string]string{"id": u.id, "email": req.Email},
		})
	})

	mux.HandleFunc("GET /api/appointments", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		uid, ok := s.identify(r)
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		list := s.appts[uid]
		if list == nil {
			list = []Appointment{}
		}
		_ = json.NewEncoder(w).Encode(list)
	})

	mux.HandleFunc("POST /api/appointments", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		uid, ok := s.identify(r)
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var req struct {
			Department string `json:"department"`
			Doctor     string `json:"doctor"`
			Date       string `json:"appointment_date"`
			Time       string `json:"appointment_time"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Department == "" || req.Doctor == "" || req.Date == "" || req.Time == "" {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "All fields are required"})
			return
		}
		s.nextID++
		a := Appointment{
			ID:         fmt.Sprintf("srv-%d", s.nextID),
			Department: req.Department,
			Doctor:     req.Doctor,
			Date:       req.Date,
			Time:       req.Time,
		}
		s.appts[uid] = append(s.appts[uid], a)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message":       "Appointment booked successfully",
			"appointmentId": a.ID,
			"appointment":   a,
		})
	})

	mux.HandleFunc("DELETE /api/appointments/{id}", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		uid, ok := s.identify(r)
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		id := r.PathValue("id")
		list := s.appts[uid]
		for i, a := range list {
			if a.ID == id {
				s.appts[uid] = append(list[:i], list[i+1:]...)
				_ = json.NewEncoder(w).Encode(map[string]string{"message": "Appointment canceled successfully"})
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Appointment not found"})
	})

	return mux
}

func newTestPair(t *testing.T) (*stub, *httptest.Server, *Client) {
	t.Helper()
	st := newStub()
	srv := httptest.NewServer(st.handler())
	t.Cleanup(srv.Close)
	return st, srv, New(srv.URL)
}

func TestLoginAndFetch(t *testing.T) {
	st, _, c := newTestPair(t)
	st.addUser("jane@x.com", "Secret123!", "u1")
	st.appts["u1"] = []Appointment{{ID: "srv-1", Department: "Cardiology", Doctor: "Dr. Carter", Date: "2025-01-10", Time: "10:00 AM"}}

	u, err := c.Login(context.Background(), "jane@x.com", "Secret123!")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)

	appts, stale, err := c.Appointments(context.Background())
	require.NoError(t, err)
	assert.False(t, stale)
	require.Len(t, appts, 1)
	assert.Equal(t, "srv-1", appts[0].ID)
}

func TestLoginFailureIsAPIError(t *testing.T) {
	st, _, c := newTestPair(t)
	st.addUser("jane@x.com", "Secret123!", "u1")

	_, err := c.Login(context.Background(), "jane@x.com", "wrong")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Invalid email or password", apiErr.Message)
}

func TestStaleFallbackWhenServerUnreachable(t *testing.T) {
	st, srv, c := newTestPair(t)
	st.addUser("jane@x.com", "Secret123!", "u1")
	st.appts["u1"] = []Appointment{{ID: "srv-1", Department: "Cardiology"}}

	_, err := c.Login(context.Background(), "jane@x.com", "Secret123!")
	require.NoError(t, err)

	_, stale, err := c.Appointments(context.Background())
	require.NoError(t, err)
	require.False(t, stale)

	srv.Close()

	appts, stale, err := c.Appointments(context.Background())
	require.NoError(t, err, "confirmed cache should be served on network failure")
	assert.True(t, stale, "fallback data must be flagged as stale")
	require.Len(t, appts, 1)
	assert.Equal(t, "srv-1", appts[0].ID)
}

func TestCacheInvalidatedOnUserSwitch(t *testing.T) {
	st, srv, c := newTestPair(t)
	st.addUser("jane@x.com", "Secret123!", "u1")
	st.addUser("john@x.com", "Secret123!", "u2")
	st.appts["u1"] = []Appointment{{ID: "srv-1", Department: "Cardiology"}}

	_, err := c.Login(context.Background(), "jane@x.com", "Secret123!")
	require.NoError(t, err)
	_, _, err = c.Appointments(context.Background())
	require.NoError(t, err)

	// different identity in the same session: the previous mirror is gone
	_, err = c.Login(context.Background(), "john@x.com", "Secret123!")
	require.NoError(t, err)

	srv.Close()

	appts, stale, err := c.Appointments(context.Background())
	require.Error(t, err, "no confirmed cache for this user, must not fall back")
	assert.False(t, stale)
	assert.Nil(t, appts, "another user's appointments must never surface")
}

func TestLogoutClearsSession(t *testing.T) {
	st, srv, c := newTestPair(t)
	st.addUser("jane@x.com", "Secret123!", "u1")
	st.appts["u1"] = []Appointment{{ID: "srv-1"}}

	_, err := c.Login(context.Background(), "jane@x.com", "Secret123!")
	require.NoError(t, err)
	_, _, err = c.Appointments(context.Background())
	require.NoError(t, err)

	c.Logout()
	srv.Close()

	_, _, err = c.Appointments(context.Background())
	require.Error(t, err, "logged-out client must not serve the old cache")
}

func TestBookReconcilesWithServerRecord(t *testing.T) {
	st, srv, c := newTestPair(t)
	st.addUser("jane@x.com", "Secret123!", "u1")

	_, err := c.Login(context.Background(), "jane@x.com", "Secret123!")
	require.NoError(t, err)
	_, _, err = c.Appointments(context.Background())
	require.NoError(t, err)

	a, err := c.Book(context.Background(), "Cardiology", "Dr. Carter", "2025-01-10", "10:00 AM")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(a.ID, "srv-"), "server id wins over the optimistic one")

	srv.Close()

	appts, stale, err := c.Appointments(context.Background())
	require.NoError(t, err)
	assert.True(t, stale)
	require.Len(t, appts, 1)
	assert.Equal(t, a.ID, appts[0].ID, "mirror must hold the reconciled record")
	assert.False(t, strings.HasPrefix(appts[0].ID, "pending-"))
}

func TestBookRollsBackOnRejection(t *testing.T) {
	st, srv, c := newTestPair(t)
	st.addUser("jane@x.com", "Secret123!", "u1")

	_, err := c.Login(context.Background(), "jane@x.com", "Secret123!")
	require.NoError(t, err)
	_, _, err = c.Appointments(context.Background())
	require.NoError(t, err)

	_, err = c.Book(context.Background(), "", "Dr. Carter", "2025-01-10", "10:00 AM")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)

	srv.Close()

	appts, stale, err := c.Appointments(context.Background())
	require.NoError(t, err)
	assert.True(t, stale)
	assert.Empty(t, appts, "rejected optimistic entry must be rolled back")
}

func TestCancelRestoresOnRejection(t *testing.T) {
	st, srv, c := newTestPair(t)
	st.addUser("jane@x.com", "Secret123!", "u1")
	st.appts["u1"] = []Appointment{{ID: "srv-1", Department: "Cardiology"}}

	_, err := c.Login(context.Background(), "jane@x.com", "Secret123!")
	require.NoError(t, err)
	_, _, err = c.Appointments(context.Background())
	require.NoError(t, err)

	err = c.Cancel(context.Background(), "srv-nope")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)

	srv.Close()

	appts, _, err := c.Appointments(context.Background())
	require.NoError(t, err)
	require.Len(t, appts, 1, "failed cancel must leave the mirror intact")
}

func TestCancelRemovesFromMirror(t *testing.T) {
	st, srv, c := newTestPair(t)
	st.addUser("jane@x.com", "Secret123!", "u1")
	st.appts["u1"] = []Appointment{{ID: "srv-1", Department: "Cardiology"}}

	_, err := c.Login(context.Background(), "jane@x.com", "Secret123!")
	require.NoError(t, err)
	_, _, err = c.Appointments(context.Background())
	require.NoError(t, err)

	require.NoError(t, c.Cancel(context.Background(), "srv-1"))

	srv.Close()

	appts, stale, err := c.Appointments(context.Background())
	require.NoError(t, err)
	assert.True(t, stale)
	assert.Empty(t, appts)
}
