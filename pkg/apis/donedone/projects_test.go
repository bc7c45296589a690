package donedone

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListProjects(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/issuetracker/api/v2/projects.json" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":3,"title":"Website"},{"id":5,"title":"Mobile"}]`))
	}))
	defer srv.Close()

	res := newTestClient(t, nil).Projects().ListProjects(context.Background(), srv.URL+"/", testCreds)
	projects, ok := res.Value()
	require.True(t, ok, res.String())
	assert.Equal(t, []Project{{ID: 3, Title: "Website"}, {ID: 5, Title: "Mobile"}}, projects)
}

func TestListAssignablePeople(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/issuetracker/api/v2/projects/5/available_for_reassignment.json" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`[{"ID":10,"Value":"Fay Fixer"},{"ID":11,"Value":"Tom Tester"}]`))
	}))
	defer srv.Close()

	res := newTestClient(t, nil).Projects().ListAssignablePeople(context.Background(), srv.URL, testCreds, 5)
	people, ok := res.Value()
	require.True(t, ok, res.String())
	assert.Equal(t, []Person{{ID: 10, Name: "Fay Fixer"}, {ID: 11, Name: "Tom Tester"}}, people)
}

func TestListProjectsUnauthorizedIsNotRetried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	waits := &waitRecorder{}
	res := newTestClient(t, waits).Projects().ListProjects(context.Background(), srv.URL, testCreds)

	assert.True(t, res.IsAuthenticationFailed())
	assert.EqualValues(t, 1, calls.Load())
	assert.Zero(t, waits.waits.Load())
}

func TestListProjectsFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{name: "server error", status: http.StatusInternalServerError, message: "Internal Server Error"},
		{name: "forbidden", status: http.StatusForbidden, message: "Forbidden"},
		{name: "malformed json", status: http.StatusOK, body: `[{"id":`, message: "donedone: decode response"},
		{name: "missing field", status: http.StatusOK, body: `[{"id":1}]`, message: `missing field "title"`},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			res := newTestClient(t, &waitRecorder{}).Projects().ListProjects(context.Background(), srv.URL, testCreds)
			require.True(t, res.IsFailed(), res.String())
			assert.Contains(t, res.Message(), tc.message)
			assert.EqualValues(t, 1, calls.Load())
		})
	}
}

func TestListProjectsConnectionFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	waits := &waitRecorder{}
	res := newTestClient(t, waits).Projects().ListProjects(context.Background(), base, testCreds)
	assert.True(t, res.IsFailed())
	assert.Zero(t, waits.waits.Load())
}
