package domain

import (
	"strings"
	"time"
)

// DepartmentType selects the persona used when prompting the model.
// The set is closed; unknown values fall back to DeptGeneral.
type DepartmentType string

const (
	DeptGeneral DepartmentType = "GENERAL"
	DeptHR      DepartmentType = "HR"
	DeptFinance DepartmentType = "FINANCE"
	DeptIT      DepartmentType = "IT"
	DeptLegal   DepartmentType = "LEGAL"
)

// ParseDepartment maps a wire value onto the department set.
func ParseDepartment(s string) DepartmentType {
	switch d := DepartmentType(s); d {
	case DeptGeneral, DeptHR, DeptFinance, DeptIT, DeptLegal:
		return d
	}
	return DeptGeneral
}

// Agent is a named, department-typed chat workspace holding its own
// documents, message history, and follow-up suggestions.
type Agent struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Type        DepartmentType `json:"type"`
	Documents   []Document     `json:"documents"`
	Messages    []Message      `json:"messages"`
	Suggestions []string       `json:"suggestions"`
}

// Document is the extracted plain text of one uploaded file. Documents are
// owned by exactly one agent; there is no cross-agent sharing.
type Document struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	LastUpdated time.Time `json:"last_updated"`
}

// Ref returns the wire form of the document.
func (d Document) Ref() DocumentRef {
	return DocumentRef{Title: d.Title, Content: d.Content}
}

// Message is a single conversation turn. Messages are append-only; once
// created they are never mutated or deleted.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// WelcomeIDPrefix marks locally synthesized welcome messages. They appear in
// the conversation but are never forwarded to the model, since the model
// never produced them.
const WelcomeIDPrefix = "welcome-"

// IsWelcome reports whether the message was synthesized locally rather than
// returned by the model.
func (m Message) IsWelcome() bool {
	return strings.HasPrefix(m.ID, WelcomeIDPrefix)
}

// DocumentRef is the wire form of a document sent to the prompt gateway.
type DocumentRef struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Turn is one entry of forwarded conversation history.
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}
