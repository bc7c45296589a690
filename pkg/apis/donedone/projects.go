package donedone

import (
	"context"
	"fmt"

	"github.com/SeniorPomidorro/donedone-go-kit/pkg/result"
)

// ProjectsService provides project lookups.
type ProjectsService struct {
	client *Client
}

// ListProjects returns the projects visible to creds.
func (s *ProjectsService) ListProjects(ctx context.Context, baseURL string, creds Credentials) result.Result[[]Project] {
	return call(ctx, s.client, "list_projects", baseURL, creds, "projects.json", nil, decodeList[Project])
}

// ListAssignablePeople returns people who can be set as fixer or tester of
// issues in the project.
func (s *ProjectsService) ListAssignablePeople(ctx context.Context, baseURL string, creds Credentials, projectID int) result.Result[[]Person] {
	resource := fmt.Sprintf("projects/%d/available_for_reassignment.json", projectID)
	return call(ctx, s.client, "list_assignable_people", baseURL, creds, resource, nil, decodeList[Person])
}
