package main

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/bgentry/speakeasy"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/SeniorPomidorro/donedone-go-kit/internal/config"
	"github.com/SeniorPomidorro/donedone-go-kit/internal/sender"
	"github.com/SeniorPomidorro/donedone-go-kit/pkg/apis/donedone"
)

func main() {
	var (
		verbose    bool
		list       bool
		configPath string
		filePath   string
		configure  bool
		timeout    time.Duration
		edit       profileFlags
	)
	prompter := &flagPrompter{ask: speakeasy.Ask}
	edit.register(pflag.CommandLine)
	pflag.BoolVar(&configure, "configure", false, "Save the profile flags to --config and exit")
	pflag.DurationVar(&timeout, "timeout", 30*time.Second, "Timeout of a single HTTP request")
	pflag.BoolVar(&verbose, "verbose", false, "Verbose logging")
	pflag.BoolVar(&list, "list", false, "List projects, priority levels and, with --project, assignable people")
	pflag.StringVar(&configPath, "config", filepath.Join(os.Getenv("HOME"), ".donedone", "config.ini"), "Path to the output profile (.ini or .yml)")
	pflag.StringVar(&filePath, "file", "", "Screenshot to send")
	pflag.IntVar(&prompter.selection.ProjectID, "project", 0, "Project ID (defaults to the last one used)")
	pflag.IntVar(&prompter.selection.PriorityLevelID, "priority", 0, "Priority level ID of a new issue")
	pflag.IntVar(&prompter.selection.FixerID, "fixer", 0, "Fixer ID of a new issue")
	pflag.IntVar(&prompter.selection.TesterID, "tester", 0, "Tester ID of a new issue")
	pflag.StringVar(&prompter.selection.Title, "title", "", "Title of a new issue")
	pflag.StringVar(&prompter.selection.Description, "description", "", "Description of a new issue")
	pflag.IntVar(&prompter.selection.IssueID, "issue", 0, "Attach to this existing issue instead of creating one")
	pflag.StringVar(&prompter.selection.Comment, "comment", "", "Comment added with the attachment")
	pflag.StringVar(&prompter.selection.FileName, "name", "", "File name of the attachment without extension")
	pflag.BoolVar(&prompter.remember, "remember", false, "Store the entered credentials in the profile")
	pflag.Parse()

	log := logrus.New()
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	profile, err := loadProfile(pflag.CommandLine, configPath, &edit)
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration file")
	}
	if err := profile.Validate(); err != nil {
		log.WithError(err).Fatalf("Invalid configuration in %s, set --url", configPath)
	}

	out := newPrinter(os.Stdout)
	prompter.out = out

	if configure {
		if err := runConfigure(profile, configPath, prompter.ask); err != nil {
			log.WithError(err).Fatal("Failed to save configuration file")
		}
		out.success("Saved %s", configPath)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client := donedone.NewClient(
		donedone.WithLogger(log),
		donedone.WithTransport(newTransport(timeout, log)),
	)

	if list {
		if err := runList(ctx, client, prompter, *profile, prompter.selection.ProjectID, out); err != nil {
			log.WithError(err).Fatal("Failed to list")
		}
		return
	}

	if filePath == "" {
		log.Fatal("--file is required")
	}
	shot, err := readScreenshot(filePath, profile.FileFormat)
	if err != nil {
		log.WithError(err).Fatal("Failed to read screenshot")
	}

	outcome := sender.New(client, prompter, log).Send(ctx, *profile, shot)
	switch outcome.Status {
	case sender.StatusSuccess:
		out.success("Sent to %s", outcome.URL)
		if outcome.OpenInBrowser {
			out.info("Open %s to view it", outcome.URL)
		}
		if err := outcome.Profile.Save(configPath); err != nil {
			log.WithError(err).Fatal("Failed to save configuration file")
		}
	case sender.StatusCanceled:
		out.warn("Canceled")
		os.Exit(1)
	default:
		out.failure("Failed: %s", outcome.Message)
		os.Exit(1)
	}
}

// readScreenshot loads path and works out its MIME type from the extension,
// falling back to content sniffing.
func readScreenshot(path, fallbackFormat string) (sender.Screenshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return sender.Screenshot{}, errors.Wrapf(err, "failed to read %s", path)
	}

	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		ext = strings.TrimPrefix(fallbackFormat, ".")
	}

	mimeType := ""
	if ext != "" {
		mimeType = mime.TypeByExtension("." + ext)
	}
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	if mediaType, _, err := mime.ParseMediaType(mimeType); err == nil {
		mimeType = mediaType
	}

	return sender.Screenshot{Extension: ext, MIMEType: mimeType, Content: data}, nil
}

// runConfigure stores profile at path, asking for the password of a user
// that has none stored yet. An empty answer leaves the password unset.
func runConfigure(profile *config.Profile, path string, ask func(prompt string) (string, error)) error {
	if profile.UserName != "" && profile.Password == "" {
		password, err := ask(fmt.Sprintf("Password for %s at %s (empty to ask when sending): ", profile.UserName, profile.URL))
		if err != nil {
			return errors.Wrap(err, "failed to read password")
		}
		profile.Password = password
	}
	return profile.Save(path)
}
