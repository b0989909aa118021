package apitest

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, s *Server, path, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, s.BaseURL()+path, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestTokens(t *testing.T) {
	s := New(t)
	uid := s.AddUser("Alice", "alice", "alice@example.org", "pw")

	assert.Equal(t, http.StatusOK, get(t, s, "/me", s.Token(uid)).StatusCode)
	assert.Equal(t, http.StatusUnauthorized, get(t, s, "/me", "garbage").StatusCode)
	assert.Equal(t, http.StatusUnauthorized, get(t, s, "/me", "").StatusCode)

	_, err := s.verify(s.Token(uid + 1000))
	assert.Error(t, err, "tokens for unknown users are rejected")
}

func TestRecordingAndAccessLog(t *testing.T) {
	s := New(t)
	get(t, s, "/tasks", "")

	reqs := s.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, Request{Method: "GET", Path: "/tasks"}, reqs[0])
	assert.Equal(t, 1, s.Count("GET", "/tasks"))

	assert.Eventually(t, func() bool {
		return strings.Contains(s.AccessLog(), "/tasks")
	}, time.Second, 10*time.Millisecond)
}

func TestTaskHelpers(t *testing.T) {
	s := New(t)
	owner := s.AddUser("Alice", "alice", "alice@example.org", "pw")
	id := s.AddTask(owner, "t", "d")

	task, ok := s.Task(id)
	require.True(t, ok)
	assert.Equal(t, "t", task.Name)

	_, ok = s.Task(id + 1)
	assert.False(t, ok)
}
