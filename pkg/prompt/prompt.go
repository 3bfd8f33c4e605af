// Package prompt assembles the system instruction sent to the model:
// a department persona, a fixed grounding rule block, and the bounded
// concatenation of the uploaded documents. Assembly is stateless and
// happens fresh per request.
package prompt

import (
	"fmt"
	"strings"

	"github.com/docdesk/docdesk/pkg/domain"
)

// DefaultMaxContextChars bounds the concatenated document context.
const DefaultMaxContextChars = 30000

// RefusalAnswer is the fixed sentence the model is instructed to return when
// the answer is not present in the supplied documents.
const RefusalAnswer = "I could not find this information in the documents you have uploaded."

// MaxSuggestions caps the advisory follow-up question list.
const MaxSuggestions = 4

var personas = map[domain.DepartmentType]string{
	domain.DeptHR:      "You are a senior Human Resources specialist. Focus on internal regulations, benefits and compensation policy, disciplinary procedure, and company culture.",
	domain.DeptFinance: "You are a Finance and Accounting specialist. Focus on payment workflows, advances, spending limits, supporting documents, and bookkeeping treatment.",
	domain.DeptIT:      "You are the IT Director. Focus on security procedure, equipment usage, technical support, accounts, and software policy.",
	domain.DeptLegal:   "You are a corporate Legal Assistant. Focus on legality, contracts, compliance, and risk.",
	domain.DeptGeneral: "You are a professional executive assistant with broad knowledge of general operating procedure.",
}

// Persona returns the fixed instructional text for a department. Unknown
// departments get the GENERAL persona.
func Persona(dept domain.DepartmentType) string {
	if p, ok := personas[dept]; ok {
		return p
	}
	return personas[domain.DeptGeneral]
}

// ContextBlock concatenates the documents as labeled blocks, in input order,
// and truncates the result to maxChars characters. The cut is a hard bound
// against unbounded prompt growth, not content-aware summarization.
func ContextBlock(docs []domain.DocumentRef, maxChars int) string {
	if maxChars <= 0 {
		maxChars = DefaultMaxContextChars
	}
	blocks := make([]string, 0, len(docs))
	for _, d := range docs {
		title := d.Title
		if title == "" {
			title = "Untitled"
		}
		blocks = append(blocks, "--- DOCUMENT: "+title+" ---\n"+d.Content)
	}
	combined := strings.Join(blocks, "\n\n")
	if runes := []rune(combined); len(runes) > maxChars {
		combined = string(runes[:maxChars])
	}
	return combined
}

// SystemInstruction composes the full system prompt for an ask request.
func SystemInstruction(dept domain.DepartmentType, docs []domain.DocumentRef, maxChars int) string {
	var b strings.Builder
	b.WriteString(Persona(dept))
	b.WriteString("\n\nMANDATORY RULES:\n")
	b.WriteString("- Answer only from the document context provided below.\n")
	b.WriteString("- If the information is not in the context, reply: \"" + RefusalAnswer + "\" and ask the user to upload the relevant document or section.\n")
	b.WriteString("- Keep answers short and clear; use bullet points where they help.\n")
	b.WriteString("- Never fabricate or guess. Do not give HR, finance, or legal guidance beyond what the documents state.\n")
	b.WriteString("\nDOCUMENT CONTEXT:\n")
	b.WriteString(ContextBlock(docs, maxChars))
	return strings.TrimSpace(b.String())
}

// SuggestionInstruction composes the system prompt for the advisory
// follow-up-question operation.
func SuggestionInstruction(dept domain.DepartmentType, docs []domain.DocumentRef, maxChars int) string {
	var b strings.Builder
	b.WriteString(Persona(dept))
	fmt.Fprintf(&b, "\n\nBased only on the document context below, propose up to %d short follow-up questions an employee might ask about these documents. Reply with one question per line and nothing else.\n", MaxSuggestions)
	b.WriteString("\nDOCUMENT CONTEXT:\n")
	b.WriteString(ContextBlock(docs, maxChars))
	return strings.TrimSpace(b.String())
}

// FilterHistory drops malformed history entries rather than rejecting the
// request. Only user and model turns are forwarded.
func FilterHistory(turns []domain.Turn) []domain.Turn {
	out := make([]domain.Turn, 0, len(turns))
	for _, t := range turns {
		if t.Role == domain.RoleUser || t.Role == domain.RoleModel {
			out = append(out, t)
		}
	}
	return out
}

// ParseSuggestions extracts the follow-up question list from the model's
// reply: one question per line, list markers stripped, capped at
// MaxSuggestions.
func ParseSuggestions(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*•0123456789.) ")
		if line == "" {
			continue
		}
		out = append(out, line)
		if len(out) == MaxSuggestions {
			break
		}
	}
	return out
}
