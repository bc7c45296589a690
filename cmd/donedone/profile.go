package main

import (
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/SeniorPomidorro/donedone-go-kit/internal/config"
	"github.com/SeniorPomidorro/donedone-go-kit/pkg/transport"
)

const (
	userAgent      = "donedone-go-kit"
	errorBodyLimit = 64 << 10
)

// profileFlags edit the output profile from the command line. Only flags
// that were set overwrite the stored values.
type profileFlags struct {
	url           string
	user          string
	fileName      string
	format        string
	openInBrowser bool
}

func (f *profileFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.url, "url", "", "DoneDone URL, e.g. https://company.mydonedone.com")
	fs.StringVar(&f.user, "user", "", "User name, overrides the profile")
	fs.StringVar(&f.fileName, "file-name", "", "Default attachment name without extension")
	fs.StringVar(&f.format, "format", "", "Default file format when the screenshot has no extension")
	fs.BoolVar(&f.openInBrowser, "open-in-browser", true, "Report the item URL for opening after sending")
}

func (f *profileFlags) apply(fs *pflag.FlagSet, p *config.Profile) {
	if fs.Changed("url") {
		p.URL = strings.TrimSpace(f.url)
	}
	if fs.Changed("user") && f.user != p.UserName {
		p.UserName = f.user
		p.Password = ""
	}
	if fs.Changed("file-name") {
		p.FileName = f.fileName
	}
	if fs.Changed("format") {
		p.FileFormat = strings.TrimPrefix(f.format, ".")
	}
	if fs.Changed("open-in-browser") {
		p.OpenItemInBrowser = f.openInBrowser
	}
}

// loadProfile reads the profile at path, starting from the defaults when it
// does not exist yet, and applies the flags.
func loadProfile(fs *pflag.FlagSet, path string, f *profileFlags) (*config.Profile, error) {
	profile, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, err
	}
	f.apply(fs, profile)
	return profile, nil
}

func newTransport(timeout time.Duration, log logrus.FieldLogger) *transport.Client {
	return transport.New(
		transport.WithTimeout(timeout),
		transport.WithLogger(log),
		transport.WithBaseHeaders(http.Header{"User-Agent": []string{userAgent}}),
		transport.WithErrorBodyLimit(errorBodyLimit),
	)
}
