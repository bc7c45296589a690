package main

import (
	"context"

	"github.com/pkg/errors"

	"github.com/SeniorPomidorro/donedone-go-kit/internal/config"
	"github.com/SeniorPomidorro/donedone-go-kit/internal/sender"
	"github.com/SeniorPomidorro/donedone-go-kit/pkg/apis/donedone"
	"github.com/SeniorPomidorro/donedone-go-kit/pkg/result"
)

var errRelogin = errors.New("login rejected")

func unwrap[T any](r result.Result[T]) (T, error) {
	value, ok := r.Value()
	switch {
	case ok:
		return value, nil
	case r.IsAuthenticationFailed():
		return value, errRelogin
	default:
		return value, errors.New(r.Message())
	}
}

// runList prints what can be chosen, logging in again when the server
// rejects the credentials.
func runList(ctx context.Context, client *donedone.Client, prompter sender.Prompter, profile config.Profile, projectID int, out *printer) error {
	login := sender.Login{Credentials: donedone.Credentials{Username: profile.UserName, Password: profile.Password}}
	needLogin := !profile.HasCredentials()

	for {
		if needLogin {
			next, err := prompter.Login(ctx, profile.URL, login)
			if err != nil {
				return err
			}
			login = next
		}
		needLogin = true

		err := printChoices(ctx, client, profile.URL, login.Credentials, projectID, out)
		if err == errRelogin {
			continue
		}
		return err
	}
}

func printChoices(ctx context.Context, client *donedone.Client, baseURL string, creds donedone.Credentials, projectID int, out *printer) error {
	projects, err := unwrap(client.Projects().ListProjects(ctx, baseURL, creds))
	if err != nil {
		return err
	}
	levels, err := unwrap(client.Issues().ListPriorityLevels(ctx, baseURL, creds))
	if err != nil {
		return err
	}

	out.heading("Projects")
	for _, p := range projects {
		out.item(p.ID, p.Title)
	}
	out.heading("Priority levels")
	for _, l := range levels {
		out.item(l.ID, l.Name)
	}

	if projectID == 0 {
		return nil
	}
	people, err := unwrap(client.Projects().ListAssignablePeople(ctx, baseURL, creds, projectID))
	if err != nil {
		return err
	}
	out.heading("People in project %d", projectID)
	for _, p := range people {
		out.item(p.ID, p.Name)
	}
	return nil
}
