// Package config persists the output profile: where to send screenshots,
// optional remembered credentials and the last selections made.
package config

import (
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v2"
)

// Defaults of a new profile.
const (
	DefaultName     = "DoneDone"
	DefaultFileName = "Screenshot"

	section = "donedone"
)

// Profile is one configured DoneDone output.
type Profile struct {
	Name              string `yaml:"name"`
	URL               string `yaml:"url"`
	UserName          string `yaml:"user_name"`
	Password          string `yaml:"password"`
	FileName          string `yaml:"file_name"`
	FileFormat        string `yaml:"file_format"`
	OpenItemInBrowser bool   `yaml:"open_item_in_browser"`

	LastProjectID       int `yaml:"last_project_id"`
	LastPriorityLevelID int `yaml:"last_priority_level_id"`
	LastFixerID         int `yaml:"last_fixer_id"`
	LastTesterID        int `yaml:"last_tester_id"`
	LastIssueID         int `yaml:"last_issue_id"`
}

// Default returns the profile a new output starts with.
func Default() Profile {
	return Profile{
		Name:              DefaultName,
		FileName:          DefaultFileName,
		OpenItemInBrowser: true,
		LastIssueID:       1,
	}
}

// Load reads a profile from path. Files ending in .yml or .yaml are YAML,
// everything else is INI.
func Load(path string) (*Profile, error) {
	if isYAML(path) {
		return loadYAML(path)
	}
	return loadINI(path)
}

// LoadOrDefault is Load, except that a missing file yields the defaults of a
// new profile.
func LoadOrDefault(path string) (*Profile, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		p := Default()
		return &p, nil
	}
	return Load(path)
}

// Save writes p to path in the format chosen by the file extension.
func (p *Profile) Save(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return errors.Wrapf(err, "failed to create config directory %s", dir)
		}
	}
	if isYAML(path) {
		return p.saveYAML(path)
	}
	return p.saveINI(path)
}

// Validate checks that the profile can be used to send.
func (p *Profile) Validate() error {
	if strings.TrimSpace(p.URL) == "" {
		return errors.New("url is required")
	}
	parsed, err := url.Parse(p.URL)
	if err != nil {
		return errors.Wrap(err, "invalid url")
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return errors.New("url must include scheme and host")
	}
	return nil
}

// HasCredentials reports whether both user name and password are stored.
func (p *Profile) HasCredentials() bool {
	return p.UserName != "" && p.Password != ""
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return true
	}
	return false
}

func loadYAML(path string) (*Profile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	p := Default()
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", path)
	}
	return &p, nil
}

func (p *Profile) saveYAML(path string) error {
	raw, err := yaml.Marshal(p)
	if err != nil {
		return errors.Wrap(err, "failed to encode profile")
	}
	if err := os.WriteFile(path, raw, 0600); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}

func loadINI(path string) (*Profile, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load config file %s", path)
	}

	d := Default()
	s := cfg.Section(section)
	return &Profile{
		Name:                s.Key("name").MustString(d.Name),
		URL:                 s.Key("url").String(),
		UserName:            s.Key("user_name").String(),
		Password:            s.Key("password").String(),
		FileName:            s.Key("file_name").MustString(d.FileName),
		FileFormat:          s.Key("file_format").String(),
		OpenItemInBrowser:   s.Key("open_item_in_browser").MustBool(d.OpenItemInBrowser),
		LastProjectID:       s.Key("last_project_id").MustInt(d.LastProjectID),
		LastPriorityLevelID: s.Key("last_priority_level_id").MustInt(d.LastPriorityLevelID),
		LastFixerID:         s.Key("last_fixer_id").MustInt(d.LastFixerID),
		LastTesterID:        s.Key("last_tester_id").MustInt(d.LastTesterID),
		LastIssueID:         s.Key("last_issue_id").MustInt(d.LastIssueID),
	}, nil
}

func (p *Profile) saveINI(path string) error {
	cfg := ini.Empty()
	s, err := cfg.NewSection(section)
	if err != nil {
		return errors.Wrap(err, "failed to create section")
	}

	values := []struct{ key, value string }{
		{"name", p.Name},
		{"url", p.URL},
		{"user_name", p.UserName},
		{"password", p.Password},
		{"file_name", p.FileName},
		{"file_format", p.FileFormat},
		{"open_item_in_browser", strconv.FormatBool(p.OpenItemInBrowser)},
		{"last_project_id", strconv.Itoa(p.LastProjectID)},
		{"last_priority_level_id", strconv.Itoa(p.LastPriorityLevelID)},
		{"last_fixer_id", strconv.Itoa(p.LastFixerID)},
		{"last_tester_id", strconv.Itoa(p.LastTesterID)},
		{"last_issue_id", strconv.Itoa(p.LastIssueID)},
	}
	for _, kv := range values {
		if _, err := s.NewKey(kv.key, kv.value); err != nil {
			return errors.Wrapf(err, "failed to set %s", kv.key)
		}
	}

	if err := cfg.SaveTo(path); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return os.Chmod(path, 0600)
}
