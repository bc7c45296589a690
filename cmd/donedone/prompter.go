package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/SeniorPomidorro/donedone-go-kit/internal/sender"
	"github.com/SeniorPomidorro/donedone-go-kit/pkg/apis/donedone"
)

const maxLogins = 3

// flagPrompter answers the send workflow from command line flags and asks
// only for the password.
type flagPrompter struct {
	selection sender.Selection
	remember  bool
	ask       func(prompt string) (string, error)
	out       *printer

	logins int
}

func (p *flagPrompter) Login(ctx context.Context, url string, current sender.Login) (sender.Login, error) {
	if err := ctx.Err(); err != nil {
		return sender.Login{}, err
	}
	if current.Credentials.Username == "" {
		return sender.Login{}, errors.New("user name is required, set it in the profile or pass --user")
	}
	if p.logins >= maxLogins {
		return sender.Login{}, errors.Errorf("login failed %d times", p.logins)
	}
	if p.logins > 0 && p.out != nil {
		p.out.warn("Login rejected for %s", current.Credentials.Username)
	}
	p.logins++

	password, err := p.ask(fmt.Sprintf("Password for %s at %s: ", current.Credentials.Username, url))
	if err != nil {
		return sender.Login{}, errors.Wrap(err, "failed to read password")
	}
	if password == "" {
		return sender.Login{}, sender.ErrCanceled
	}

	return sender.Login{
		Credentials: donedone.Credentials{Username: current.Credentials.Username, Password: password},
		Remember:    p.remember,
	}, nil
}

func (p *flagPrompter) Select(ctx context.Context, choices sender.Choices) (sender.Selection, error) {
	sel := p.selection
	sel.CreateNewIssue = sel.IssueID == 0
	if sel.ProjectID == 0 {
		sel.ProjectID = choices.Last.ProjectID
	}
	if sel.FileName == "" {
		sel.FileName = choices.Last.FileName
	}

	if !hasProject(choices.Projects, sel.ProjectID) {
		return sel, errors.Errorf("project %d not found, use --list to see available projects", sel.ProjectID)
	}
	if !sel.CreateNewIssue {
		return sel, nil
	}

	if sel.PriorityLevelID == 0 {
		sel.PriorityLevelID = choices.Last.PriorityLevelID
	}
	if sel.FixerID == 0 {
		sel.FixerID = choices.Last.FixerID
	}
	if sel.TesterID == 0 {
		sel.TesterID = choices.Last.TesterID
	}
	if !hasPriorityLevel(choices.PriorityLevels, sel.PriorityLevelID) {
		return sel, errors.Errorf("priority level %d not found", sel.PriorityLevelID)
	}

	res := choices.People(ctx, sel.ProjectID)
	people, ok := res.Value()
	if !ok {
		if res.IsAuthenticationFailed() {
			return sel, errors.New("login rejected while loading people")
		}
		return sel, errors.Errorf("failed to load people: %s", res.Message())
	}
	if !hasPerson(people, sel.FixerID) {
		return sel, errors.Errorf("fixer %d cannot be assigned in project %d", sel.FixerID, sel.ProjectID)
	}
	if !hasPerson(people, sel.TesterID) {
		return sel, errors.Errorf("tester %d cannot be assigned in project %d", sel.TesterID, sel.ProjectID)
	}
	return sel, nil
}

func hasProject(projects []donedone.Project, id int) bool {
	for _, p := range projects {
		if p.ID == id {
			return true
		}
	}
	return false
}

func hasPriorityLevel(levels []donedone.PriorityLevel, id int) bool {
	for _, l := range levels {
		if l.ID == id {
			return true
		}
	}
	return false
}

func hasPerson(people []donedone.Person, id int) bool {
	for _, p := range people {
		if p.ID == id {
			return true
		}
	}
	return false
}
