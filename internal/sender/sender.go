// Package sender runs the send workflow of a screenshot: log in, look up
// projects and priorities, let the user choose, then create an issue or
// comment on an existing one. Rejected credentials restart the workflow
// with a fresh login.
package sender

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/SeniorPomidorro/donedone-go-kit/internal/config"
	"github.com/SeniorPomidorro/donedone-go-kit/pkg/apis/donedone"
	"github.com/SeniorPomidorro/donedone-go-kit/pkg/result"
	"github.com/SeniorPomidorro/donedone-go-kit/pkg/transport"
)

// ErrCanceled is returned by a Prompter when the user backs out.
var ErrCanceled = errors.New("sender: canceled")

// Status is the final state of a send.
type Status int

const (
	StatusSuccess Status = iota + 1
	StatusCanceled
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusCanceled:
		return "canceled"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Screenshot is the prepared image: bytes plus how to name and label them.
type Screenshot struct {
	Extension string
	MIMEType  string
	Content   []byte
}

// Login is what the user entered in the credentials prompt.
type Login struct {
	Credentials donedone.Credentials
	Remember    bool
}

// Selection is the validated choice of where the screenshot goes.
type Selection struct {
	CreateNewIssue bool

	ProjectID       int
	PriorityLevelID int
	FixerID         int
	TesterID        int
	Title           string
	Description     string

	IssueID int
	Comment string

	FileName string
}

// Validate applies the same rules as the send form.
func (s Selection) Validate() error {
	if s.ProjectID <= 0 {
		return errors.New("project is required")
	}
	if s.CreateNewIssue {
		switch {
		case strings.TrimSpace(s.Title) == "":
			return errors.New("title is required")
		case strings.TrimSpace(s.Description) == "":
			return errors.New("description is required")
		case s.PriorityLevelID <= 0:
			return errors.New("priority level is required")
		case s.FixerID <= 0:
			return errors.New("fixer is required")
		case s.TesterID <= 0:
			return errors.New("tester is required")
		}
	} else if s.IssueID <= 0 {
		return errors.New("issue ID is required")
	}
	if strings.TrimSpace(s.FileName) == "" {
		return errors.New("file name is required")
	}
	return nil
}

// Choices is everything the selection prompt needs.
type Choices struct {
	URL            string
	Projects       []donedone.Project
	PriorityLevels []donedone.PriorityLevel

	// People looks up fixer and tester candidates of a project.
	People func(ctx context.Context, projectID int) result.Result[[]donedone.Person]

	// Last holds the previous selection and the default file name.
	Last Selection
}

// Prompter collects input from the user.
type Prompter interface {
	Login(ctx context.Context, url string, current Login) (Login, error)
	Select(ctx context.Context, choices Choices) (Selection, error)
}

// Outcome is handed back to the host once the workflow ends.
type Outcome struct {
	Status  Status
	Message string

	// URL of the created issue or comment.
	URL     string
	IssueID int

	// Profile carries the remembered selections and, when asked for,
	// credentials. It is only updated on success.
	Profile       config.Profile
	OpenInBrowser bool
}

// Sender drives the workflow against a DoneDone client.
type Sender struct {
	client   *donedone.Client
	prompter Prompter
	logger   logrus.FieldLogger
}

// New creates a Sender. logger may be nil.
func New(client *donedone.Client, prompter Prompter, logger logrus.FieldLogger) *Sender {
	if logger == nil {
		logger = transport.DiscardLogger()
	}
	return &Sender{client: client, prompter: prompter, logger: logger}
}

type step int

const (
	proceed step = iota
	relogin
	abort
)

func inspect[T any](r result.Result[T]) (T, step) {
	value, ok := r.Value()
	switch {
	case ok:
		return value, proceed
	case r.IsAuthenticationFailed():
		return value, relogin
	default:
		return value, abort
	}
}

// Send runs the workflow for shot using profile.
func (s *Sender) Send(ctx context.Context, profile config.Profile, shot Screenshot) Outcome {
	if err := profile.Validate(); err != nil {
		return Outcome{Status: StatusFailed, Message: err.Error(), Profile: profile}
	}

	log := s.logger.WithField("url", profile.URL)
	login := Login{Credentials: donedone.Credentials{Username: profile.UserName, Password: profile.Password}}
	showLogin := !profile.HasCredentials()

	for {
		if showLogin {
			next, err := s.prompter.Login(ctx, profile.URL, login)
			if err != nil {
				return s.stopped(profile, err)
			}
			login = next
		}
		// Any later pass through the loop means the server rejected login.
		showLogin = true
		creds := login.Credentials

		projectsRes := s.client.Projects().ListProjects(ctx, profile.URL, creds)
		projects, st := inspect(projectsRes)
		if st == relogin {
			log.Info("sender: login rejected")
			continue
		}
		if st == abort {
			return failed(profile, projectsRes.Message())
		}

		levelsRes := s.client.Issues().ListPriorityLevels(ctx, profile.URL, creds)
		levels, st := inspect(levelsRes)
		if st == relogin {
			log.Info("sender: login rejected")
			continue
		}
		if st == abort {
			return failed(profile, levelsRes.Message())
		}

		sel, err := s.prompter.Select(ctx, Choices{
			URL:            profile.URL,
			Projects:       projects,
			PriorityLevels: levels,
			People: func(ctx context.Context, projectID int) result.Result[[]donedone.Person] {
				return s.client.Projects().ListAssignablePeople(ctx, profile.URL, creds, projectID)
			},
			Last: Selection{
				ProjectID:       profile.LastProjectID,
				PriorityLevelID: profile.LastPriorityLevelID,
				FixerID:         profile.LastFixerID,
				TesterID:        profile.LastTesterID,
				IssueID:         profile.LastIssueID,
				FileName:        profile.FileName,
			},
		})
		if err != nil {
			return s.stopped(profile, err)
		}
		if err := sel.Validate(); err != nil {
			return failed(profile, err.Error())
		}

		file := donedone.FilePayload{
			Name:     fileName(sel.FileName, shot.Extension),
			MIMEType: shot.MIMEType,
			Content:  shot.Content,
		}

		updated := profile
		updated.LastProjectID = sel.ProjectID
		var targetURL string

		if sel.CreateNewIssue {
			res := s.client.Issues().CreateIssue(ctx, profile.URL, creds, donedone.IssueCreationRequest{
				ProjectID:       sel.ProjectID,
				PriorityLevelID: sel.PriorityLevelID,
				FixerID:         sel.FixerID,
				TesterID:        sel.TesterID,
				Title:           sel.Title,
				Description:     sel.Description,
				Attachment:      file,
			})
			created, st := inspect(res)
			if st == relogin {
				log.Info("sender: login rejected")
				continue
			}
			if st == abort {
				return failed(profile, res.Message())
			}
			targetURL = created.IssueURL
			updated.LastIssueID = created.IssueID
			updated.LastPriorityLevelID = sel.PriorityLevelID
			updated.LastFixerID = sel.FixerID
			updated.LastTesterID = sel.TesterID
		} else {
			res := s.client.Issues().CreateIssueComment(ctx, profile.URL, creds, donedone.CommentCreationRequest{
				ProjectID:  sel.ProjectID,
				IssueID:    sel.IssueID,
				Comment:    sel.Comment,
				Attachment: file,
			})
			created, st := inspect(res)
			if st == relogin {
				log.Info("sender: login rejected")
				continue
			}
			if st == abort {
				return failed(profile, res.Message())
			}
			targetURL = created.CommentURL
			updated.LastIssueID = sel.IssueID
		}

		if login.Remember {
			updated.UserName = creds.Username
			updated.Password = creds.Password
		}

		log.WithField("target", targetURL).Info("sender: screenshot sent")
		return Outcome{
			Status:        StatusSuccess,
			URL:           targetURL,
			IssueID:       updated.LastIssueID,
			Profile:       updated,
			OpenInBrowser: profile.OpenItemInBrowser,
		}
	}
}

func (s *Sender) stopped(profile config.Profile, err error) Outcome {
	if errors.Is(err, ErrCanceled) || errors.Is(err, context.Canceled) {
		return Outcome{Status: StatusCanceled, Profile: profile}
	}
	return failed(profile, err.Error())
}

func failed(profile config.Profile, message string) Outcome {
	return Outcome{Status: StatusFailed, Message: message, Profile: profile}
}

func fileName(name, extension string) string {
	extension = strings.TrimPrefix(extension, ".")
	if extension == "" {
		return name
	}
	return name + "." + extension
}
