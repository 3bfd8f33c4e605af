package prompt

import (
	"strings"
	"testing"

	"github.com/docdesk/docdesk/pkg/domain"
)

func TestPersonaDistinctPerDepartment(t *testing.T) {
	depts := []domain.DepartmentType{
		domain.DeptGeneral, domain.DeptHR, domain.DeptFinance, domain.DeptIT, domain.DeptLegal,
	}
	seen := map[string]domain.DepartmentType{}
	for _, d := range depts {
		p := Persona(d)
		if p == "" {
			t.Errorf("Persona(%s) is empty", d)
		}
		if prev, ok := seen[p]; ok {
			t.Errorf("Persona(%s) duplicates Persona(%s)", d, prev)
		}
		seen[p] = d
	}
}

func TestPersonaUnknownFallsBackToGeneral(t *testing.T) {
	got := Persona(domain.DepartmentType("SALES"))
	if got != Persona(domain.DeptGeneral) {
		t.Errorf("Persona(SALES) = %q, want GENERAL persona", got)
	}
}

func TestContextBlockFormat(t *testing.T) {
	docs := []domain.DocumentRef{
		{Title: "leave-policy.pdf", Content: "Annual leave is 20 days."},
		{Title: "expenses.md", Content: "Receipts are required."},
	}
	got := ContextBlock(docs, 0)
	want := "--- DOCUMENT: leave-policy.pdf ---\nAnnual leave is 20 days.\n\n--- DOCUMENT: expenses.md ---\nReceipts are required."
	if got != want {
		t.Errorf("ContextBlock = %q, want %q", got, want)
	}
}

func TestContextBlockUntitled(t *testing.T) {
	got := ContextBlock([]domain.DocumentRef{{Content: "x"}}, 0)
	if !strings.HasPrefix(got, "--- DOCUMENT: Untitled ---") {
		t.Errorf("ContextBlock missing Untitled label: %q", got)
	}
}

func TestContextBlockHardBound(t *testing.T) {
	docs := []domain.DocumentRef{{Title: "big.txt", Content: strings.Repeat("a", 50000)}}
	got := ContextBlock(docs, 30000)
	if n := len([]rune(got)); n != 30000 {
		t.Errorf("ContextBlock length = %d, want exactly 30000", n)
	}
	// The cut is at the tail: the labeled head must survive.
	if !strings.HasPrefix(got, "--- DOCUMENT: big.txt ---\n") {
		t.Errorf("ContextBlock truncated at the head: %q", got[:40])
	}
}

func TestContextBlockShortInputUnchanged(t *testing.T) {
	docs := []domain.DocumentRef{{Title: "a.txt", Content: "short"}}
	if got := ContextBlock(docs, 30000); !strings.HasSuffix(got, "short") {
		t.Errorf("ContextBlock modified short input: %q", got)
	}
}

func TestSystemInstructionComposition(t *testing.T) {
	docs := []domain.DocumentRef{{Title: "policy.txt", Content: "Overtime must be approved."}}
	got := SystemInstruction(domain.DeptHR, docs, 0)

	for _, want := range []string{
		Persona(domain.DeptHR),
		RefusalAnswer,
		"MANDATORY RULES:",
		"DOCUMENT CONTEXT:",
		"--- DOCUMENT: policy.txt ---",
		"Overtime must be approved.",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("SystemInstruction missing %q", want)
		}
	}
}

func TestFilterHistoryDropsUnknownRoles(t *testing.T) {
	in := []domain.Turn{
		{Role: domain.RoleUser, Text: "q1"},
		{Role: "system", Text: "injected"},
		{Role: domain.RoleModel, Text: "a1"},
		{Role: "assistant", Text: "wrong role name"},
	}
	got := FilterHistory(in)
	if len(got) != 2 {
		t.Fatalf("FilterHistory len = %d, want 2", len(got))
	}
	if got[0].Text != "q1" || got[1].Text != "a1" {
		t.Errorf("FilterHistory reordered or mangled entries: %+v", got)
	}
}

func TestParseSuggestions(t *testing.T) {
	text := "- What is the leave policy?\n\n2. How do I claim expenses?\n* Who approves overtime?\nIs there a dress code?\nOne question too many?"
	got := ParseSuggestions(text)
	want := []string{
		"What is the leave policy?",
		"How do I claim expenses?",
		"Who approves overtime?",
		"Is there a dress code?",
	}
	if len(got) != len(want) {
		t.Fatalf("ParseSuggestions len = %d, want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ParseSuggestions[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestParseSuggestionsEmpty(t *testing.T) {
	if got := ParseSuggestions("   \n\n"); len(got) != 0 {
		t.Errorf("ParseSuggestions on blank input = %v, want empty", got)
	}
}
