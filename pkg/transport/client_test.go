package transport

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoGetSendsBasicAuthAndFormContentType(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("unexpected method: %s", r.Method)
		}
		want := "Basic " + base64.StdEncoding.EncodeToString([]byte("alice:s3cret"))
		if got := r.Header.Get("Authorization"); got != want {
			t.Errorf("unexpected auth header: %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != ContentTypeForm {
			t.Errorf("unexpected content type: %q", got)
		}
		if r.ContentLength > 0 {
			t.Errorf("GET must not carry a body, got length %d", r.ContentLength)
		}
		_, _ = w.Write([]byte(`[{"id":1}]`))
	}))
	defer srv.Close()

	client := New()
	body, err := client.Do(context.Background(), Request{
		Method:      http.MethodGet,
		URL:         srv.URL,
		Credentials: Credentials{Username: "alice", Password: "s3cret"},
	})
	require.NoError(t, err)
	assert.Equal(t, `[{"id":1}]`, string(body))
}

func TestDoPostSendsBodyWithContentLength(t *testing.T) {
	t.Parallel()

	payload := []byte("--b\r\nhello\r\n--b\r\n")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Content-Type"); got != "multipart/form-data; boundary=b" {
			t.Errorf("unexpected content type: %q", got)
		}
		if r.ContentLength != int64(len(payload)) {
			t.Errorf("unexpected content length: %d", r.ContentLength)
		}
		data, _ := io.ReadAll(r.Body)
		if string(data) != string(payload) {
			t.Errorf("unexpected body: %q", data)
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := New().Do(context.Background(), Request{
		Method:      http.MethodPost,
		URL:         srv.URL,
		ContentType: "multipart/form-data; boundary=b",
		Body:        payload,
	})
	require.NoError(t, err)
}

func TestDoReturnsErrorWithStatusText(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Request-Id", "req-1")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(strings.Repeat("a", 128)))
	}))
	defer srv.Close()

	client := New(WithErrorBodyLimit(16))
	_, err := client.Do(context.Background(), Request{URL: srv.URL})
	require.Error(t, err)

	var trErr *Error
	require.True(t, errors.As(err, &trErr), "expected *Error, got %T", err)
	assert.True(t, trErr.HasResponse())
	assert.Equal(t, http.StatusConflict, trErr.StatusCode)
	assert.Equal(t, "Conflict", trErr.StatusText)
	assert.Equal(t, "req-1", trErr.RequestID)
	assert.Len(t, trErr.Body, 16)
}

func TestDoConnectionFailureHasNoStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := New().Do(context.Background(), Request{URL: url})
	require.Error(t, err)

	var trErr *Error
	require.True(t, errors.As(err, &trErr))
	assert.False(t, trErr.HasResponse())
	assert.Zero(t, trErr.StatusCode)
	assert.NotEmpty(t, trErr.StatusText)
}

func TestDoCanceledContext(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("request must not reach the server")
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Do(ctx, Request{URL: srv.URL})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestDoAppliesBaseHeaders(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Test"); got != "abc" {
			t.Errorf("expected X-Test header abc, got %q", got)
		}
		if got := r.Header.Get("Authorization"); !strings.HasPrefix(got, "Basic ") {
			t.Errorf("base headers must not replace authorization, got %q", got)
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	headers := http.Header{"X-Test": []string{"abc"}, "Authorization": []string{"Bearer nope"}}
	client := New(WithBaseHeaders(headers))
	_, err := client.Do(context.Background(), Request{URL: srv.URL})
	require.NoError(t, err)
}

func TestCredentialsHeaderValue(t *testing.T) {
	t.Parallel()

	creds := Credentials{Username: "user", Password: "pa:ss"}
	assert.Equal(t, "Basic dXNlcjpwYTpzcw==", creds.HeaderValue())
}
