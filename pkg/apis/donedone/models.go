package donedone

import (
	"github.com/SeniorPomidorro/donedone-go-kit/pkg/formdata"
	"github.com/SeniorPomidorro/donedone-go-kit/pkg/transport"
)

// Credentials authenticate a single call.
type Credentials = transport.Credentials

// FilePayload is the attachment sent with issues and comments.
type FilePayload = formdata.File

// Project is a DoneDone project.
type Project struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

// PriorityLevel is an issue priority.
type PriorityLevel struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Person can be assigned as fixer or tester of an issue.
type Person struct {
	ID   int    `json:"ID"`
	Name string `json:"Value"`
}

// IssueCreated is the response of issue creation.
type IssueCreated struct {
	IssueID  int    `json:"IssueID"`
	IssueURL string `json:"IssueURL"`
}

// CommentCreated is the response of comment creation.
type CommentCreated struct {
	CommentURL string `json:"CommentURL"`
}

// IssueCreationRequest describes a new issue with a screenshot attached.
type IssueCreationRequest struct {
	ProjectID       int
	PriorityLevelID int
	FixerID         int
	TesterID        int
	Title           string
	Description     string
	Attachment      FilePayload
}

// CommentCreationRequest attaches a screenshot to an existing issue.
type CommentCreationRequest struct {
	ProjectID  int
	IssueID    int
	Comment    string
	Attachment FilePayload
}

func (Project) requiredKeys() []string        { return []string{"id", "title"} }
func (PriorityLevel) requiredKeys() []string  { return []string{"id", "name"} }
func (Person) requiredKeys() []string         { return []string{"ID", "Value"} }
func (IssueCreated) requiredKeys() []string   { return []string{"IssueID", "IssueURL"} }
func (CommentCreated) requiredKeys() []string { return []string{"CommentURL"} }
