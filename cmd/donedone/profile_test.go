package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SeniorPomidorro/donedone-go-kit/internal/config"
	"github.com/SeniorPomidorro/donedone-go-kit/pkg/transport"
)

func parseProfileFlags(t *testing.T, args ...string) (*pflag.FlagSet, *profileFlags) {
	t.Helper()

	fs := pflag.NewFlagSet("donedone", pflag.ContinueOnError)
	f := &profileFlags{}
	f.register(fs)
	require.NoError(t, fs.Parse(args))
	return fs, f
}

func TestLoadProfileMissingFileWithURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "donedone", "config.ini")
	fs, f := parseProfileFlags(t, "--url", "https://tracker.example.com")

	profile, err := loadProfile(fs, path, f)
	require.NoError(t, err)
	require.NoError(t, profile.Validate())

	want := config.Default()
	want.URL = "https://tracker.example.com"
	assert.Equal(t, want, *profile)
}

func TestLoadProfileMissingFileWithoutURL(t *testing.T) {
	fs, f := parseProfileFlags(t)

	profile, err := loadProfile(fs, filepath.Join(t.TempDir(), "config.ini"), f)
	require.NoError(t, err)
	assert.Error(t, profile.Validate())
}

func TestLoadProfileOverridesOnlySetFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	stored := config.Default()
	stored.URL = "https://old.example.com"
	stored.UserName = "alice"
	stored.Password = "secret"
	stored.FileFormat = "png"
	require.NoError(t, stored.Save(path))

	fs, f := parseProfileFlags(t, "--file-name", "Bug", "--format", ".jpg", "--open-in-browser=false")
	profile, err := loadProfile(fs, path, f)
	require.NoError(t, err)
	assert.Equal(t, "https://old.example.com", profile.URL)
	assert.Equal(t, "Bug", profile.FileName)
	assert.Equal(t, "jpg", profile.FileFormat)
	assert.False(t, profile.OpenItemInBrowser)
	assert.Equal(t, "secret", profile.Password)

	fs, f = parseProfileFlags(t, "--user", "bob")
	profile, err = loadProfile(fs, path, f)
	require.NoError(t, err)
	assert.Equal(t, "bob", profile.UserName)
	assert.Empty(t, profile.Password, "a new user does not inherit the password")
	assert.True(t, profile.OpenItemInBrowser)
}

func TestRunConfigureSavesProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "donedone", "config.ini")
	fs, f := parseProfileFlags(t, "--url", "https://tracker.example.com", "--user", "alice")
	profile, err := loadProfile(fs, path, f)
	require.NoError(t, err)

	var prompts []string
	ask := func(prompt string) (string, error) {
		prompts = append(prompts, prompt)
		return "secret", nil
	}
	require.NoError(t, runConfigure(profile, path, ask))
	assert.Len(t, prompts, 1)

	saved, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://tracker.example.com", saved.URL)
	assert.Equal(t, "alice", saved.UserName)
	assert.Equal(t, "secret", saved.Password)
	assert.Equal(t, config.DefaultFileName, saved.FileName)

	// The stored password is not asked for again.
	require.NoError(t, runConfigure(saved, path, ask))
	assert.Len(t, prompts, 1)
}

func TestRunConfigurePasswordError(t *testing.T) {
	profile := config.Default()
	profile.URL = "https://tracker.example.com"
	profile.UserName = "alice"

	path := filepath.Join(t.TempDir(), "config.ini")
	err := runConfigure(&profile, path, func(string) (string, error) { return "", errors.New("no tty") })
	assert.EqualError(t, err, "failed to read password: no tty")
	assert.NoFileExists(t, path)
}

func TestNewTransport(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != userAgent {
			t.Errorf("unexpected user agent: %q", got)
		}
		if r.URL.Path == "/slow" {
			<-release
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()
	defer close(release)

	tr := newTransport(50*time.Millisecond, transport.DiscardLogger())

	_, err := tr.Do(context.Background(), transport.Request{URL: srv.URL + "/fast"})
	require.NoError(t, err)

	_, err = tr.Do(context.Background(), transport.Request{URL: srv.URL + "/slow"})
	var terr *transport.Error
	require.True(t, errors.As(err, &terr))
	assert.False(t, terr.HasResponse())
}
