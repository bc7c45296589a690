package donedone

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/SeniorPomidorro/donedone-go-kit/pkg/result"
)

// IssuesService provides priority lookups and issue/comment creation.
type IssuesService struct {
	client *Client
}

// ListPriorityLevels returns the priority levels issues can be filed with.
func (s *IssuesService) ListPriorityLevels(ctx context.Context, baseURL string, creds Credentials) result.Result[[]PriorityLevel] {
	return call(ctx, s.client, "list_priority_levels", baseURL, creds, "priority_levels.json", nil, decodeList[PriorityLevel])
}

// CreateIssue files a new issue with the attachment. Fields are sent as
// given; only the project ID, which forms the path, is checked.
func (s *IssuesService) CreateIssue(ctx context.Context, baseURL string, creds Credentials, req IssueCreationRequest) result.Result[IssueCreated] {
	const operation = "create_issue"

	if req.ProjectID <= 0 {
		return failed[IssueCreated](s.client, operation, errors.New("donedone: project ID is required"))
	}

	payload := &form{
		fields: map[string]string{
			"title":             req.Title,
			"description":       req.Description,
			"priority_level_id": strconv.Itoa(req.PriorityLevelID),
			"fixer_id":          strconv.Itoa(req.FixerID),
			"tester_id":         strconv.Itoa(req.TesterID),
		},
		file: req.Attachment,
	}

	resource := fmt.Sprintf("projects/%d/issues.json", req.ProjectID)
	return call(ctx, s.client, operation, baseURL, creds, resource, payload, decodeObject[IssueCreated])
}

// CreateIssueComment adds a comment with the attachment to an existing issue.
// The file part is sent even when the attachment is empty.
func (s *IssuesService) CreateIssueComment(ctx context.Context, baseURL string, creds Credentials, req CommentCreationRequest) result.Result[CommentCreated] {
	const operation = "create_issue_comment"

	if req.ProjectID <= 0 {
		return failed[CommentCreated](s.client, operation, errors.New("donedone: project ID is required"))
	}
	if req.IssueID <= 0 {
		return failed[CommentCreated](s.client, operation, errors.New("donedone: issue ID is required"))
	}

	payload := &form{
		fields: map[string]string{"comment": req.Comment},
		file:   req.Attachment,
	}

	resource := fmt.Sprintf("projects/%d/issues/%d/comments.json", req.ProjectID, req.IssueID)
	return call(ctx, s.client, operation, baseURL, creds, resource, payload, decodeObject[CommentCreated])
}
