// Package apitest runs an in-process fake of the tasklist REST API for tests.
//
// It speaks the same JSON envelopes as the real server, issues HS256 bearer
// tokens and records every request it sees, so tests can assert both on
// behaviour and on "no network call was made".
package apitest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/tasklist/internal/client/models"
	"github.com/etitcombe/logifymw"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
)

// Request is one recorded call.
type Request struct {
	Method        string
	Path          string
	Authorization string
	RequestID     string
}

type user struct {
	profile  models.Profile
	password string
}

type grant struct {
	id         int64
	taskID     int64
	inviteeID  int64
	permission models.Permission
}

type task struct {
	models.Task
	ownerID int64
}

type claims struct {
	jwt.RegisteredClaims
	UserID int64 `json:"uid"`
}

type userKey struct{}

// Server is the fake API. The zero value is not usable; call New.
type Server struct {
	*httptest.Server

	secret []byte

	mu          sync.Mutex
	nextID      int64
	users       map[int64]*user
	tasks       map[int64]*task
	grants      []grant
	permissions []models.Permission
	revoked     map[string]bool
	requests    []Request
	profileGate chan struct{}

	accessLog syncBuffer
}

// syncBuffer lets the access logger write while a test reads.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// New starts a server and registers its shutdown with t.Cleanup.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		secret:  []byte("apitest-secret"),
		nextID:  100,
		users:   make(map[int64]*user),
		tasks:   make(map[int64]*task),
		revoked: make(map[string]bool),
		permissions: []models.Permission{
			{ID: 1, Name: models.PermissionView},
			{ID: 2, Name: models.PermissionEdit},
		},
	}
	s.Server = httptest.NewServer(s.router())
	t.Cleanup(s.Close)
	return s
}

func (s *Server) router() http.Handler {
	r := mux.NewRouter()
	r.Use(s.record)

	r.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/register", s.handleRegister).Methods(http.MethodPost)

	authed := r.NewRoute().Subrouter()
	authed.Use(s.authenticate)
	authed.HandleFunc("/logout", s.handleLogout).Methods(http.MethodPost)
	authed.HandleFunc("/me", s.handleMe).Methods(http.MethodGet)
	authed.HandleFunc("/permissions", s.handlePermissions).Methods(http.MethodGet)
	authed.HandleFunc("/tasks", s.handleListTasks).Methods(http.MethodGet)
	authed.HandleFunc("/tasks", s.handleCreateTask).Methods(http.MethodPost)
	authed.HandleFunc("/tasks/shared", s.handleSharedTasks).Methods(http.MethodGet)
	authed.HandleFunc("/tasks/mark/{id:[0-9]+}", s.handleMark).Methods(http.MethodPost)
	authed.HandleFunc("/tasks/share/{id:[0-9]+}", s.handleShare).Methods(http.MethodPost)
	authed.HandleFunc("/tasks/{id:[0-9]+}", s.handleGetTask).Methods(http.MethodGet)
	authed.HandleFunc("/tasks/{id:[0-9]+}", s.handleUpdateTask).Methods(http.MethodPut)
	authed.HandleFunc("/tasks/{id:[0-9]+}/shared", s.handleSharedWith).Methods(http.MethodGet)

	return logifymw.LogIt2(log.New(&s.accessLog, "apitest ", log.Lmsgprefix), r)
}

// AccessLog is the server's request log, one line per completed request.
func (s *Server) AccessLog() string { return s.accessLog.String() }

// URL of the API root; pass it as the client base URL.
func (s *Server) BaseURL() string { return s.URL }

// AddUser creates an account and returns its id.
func (s *Server) AddUser(name, username, email, password string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUserLocked(name, username, email, password)
}

func (s *Server) addUserLocked(name, username, email, password string) int64 {
	s.nextID++
	id := s.nextID
	s.users[id] = &user{
		profile:  models.Profile{ID: id, Username: username, Name: name, Email: email},
		password: password,
	}
	return id
}

// Token issues a valid credential for userID.
func (s *Server) Token(userID int64) string {
	tok, err := s.issue(userID)
	if err != nil {
		panic(err)
	}
	return tok
}

// AddTask creates a task owned by ownerID and returns its id.
func (s *Server) AddTask(ownerID int64, name, description string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addTaskLocked(ownerID, name, description)
}

func (s *Server) addTaskLocked(ownerID int64, name, description string) int64 {
	s.nextID++
	id := s.nextID
	s.tasks[id] = &task{
		Task: models.Task{
			ID:          id,
			Name:        name,
			Description: description,
			CreatedAt:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Format(time.RFC3339),
		},
		ownerID: ownerID,
	}
	return id
}

// Share grants inviteeID the named permission on taskID.
func (s *Server) Share(taskID, inviteeID int64, permission string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, _ := s.permissionLocked(permission)
	s.nextID++
	s.grants = append(s.grants, grant{id: s.nextID, taskID: taskID, inviteeID: inviteeID, permission: p})
}

// Task returns a copy of the stored task.
func (s *Server) Task(id int64) (models.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return models.Task{}, false
	}
	return t.Task, true
}

// Requests returns a copy of everything recorded so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Count returns how many requests matched method and path.
func (s *Server) Count(method, path string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// HoldProfile makes GET /me block until the returned release func is called
// (or the client gives up). It lets tests race a page unmount against the
// in-flight validation.
func (s *Server) HoldProfile() (release func()) {
	gate := make(chan struct{})
	s.mu.Lock()
	s.profileGate = gate
	s.mu.Unlock()
	var once sync.Once
	return func() { once.Do(func() { close(gate) }) }
}

func (s *Server) issue(userID int64) (string, error) {
	s.mu.Lock()
	s.nextID++
	jti := strconv.FormatInt(s.nextID, 10)
	s.mu.Unlock()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID: userID,
	})
	return token.SignedString(s.secret)
}

func (s *Server) verify(raw string) (int64, error) {
	c := &claims{}
	tok, err := jwt.ParseWithClaims(raw, c, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return 0, err
	}
	if !tok.Valid {
		return 0, errors.New("invalid token")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.revoked[raw] {
		return 0, errors.New("revoked")
	}
	if _, ok := s.users[c.UserID]; !ok {
		return 0, errors.New("unknown user")
	}
	return c.UserID, nil
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
			RequestID:     r.Header.Get("X-Request-ID"),
		})
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || raw == "" {
			writeMessage(w, http.StatusUnauthorized, "Unauthenticated.")
			return
		}
		uid, err := s.verify(raw)
		if err != nil {
			writeMessage(w, http.StatusUnauthorized, "Unauthenticated.")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey{}, uid)))
	})
}

func currentUser(r *http.Request) int64 {
	uid, _ := r.Context().Value(userKey{}).(int64)
	return uid
}

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, models.Message{Message: msg})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeMessage(w, http.StatusBadRequest, fmt.Sprintf("malformed body: %v", err))
		return false
	}
	return true
}
