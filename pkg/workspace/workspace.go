// Package workspace implements the conversation store: an in-memory
// collection of department agents, each owning its documents, message
// history, and follow-up suggestions. All mutations are addressed by agent
// id so that in-flight async operations land on the agent they were issued
// for, not on whichever agent happens to be active when they settle.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/docdesk/docdesk/pkg/domain"
	"github.com/google/uuid"
)

var (
	// ErrAgentNotFound indicates the addressed agent does not exist.
	ErrAgentNotFound = errors.New("agent not found")
	// ErrEmptyQuestion indicates a blank or whitespace-only question.
	ErrEmptyQuestion = errors.New("question is empty")
	// ErrNoDocuments indicates the agent has no documents to ground on.
	ErrNoDocuments = errors.New("agent has no documents")
	// ErrQuestionInFlight indicates a question is already outstanding for the
	// agent. The second call is rejected, never queued.
	ErrQuestionInFlight = errors.New("a question is already in flight")
)

// Gateway is the prompt gateway consumed by the store.
type Gateway interface {
	// Ask relays a grounded question and returns the model's reply text.
	Ask(ctx context.Context, docs []domain.DocumentRef, question string, history []domain.Turn, dept domain.DepartmentType) (string, error)

	// Suggest returns candidate follow-up questions for the document set.
	// Advisory only; callers treat failures as an empty result.
	Suggest(ctx context.Context, docs []domain.DocumentRef, dept domain.DepartmentType) ([]string, error)
}

// Extractor turns an uploaded file into plain text.
type Extractor interface {
	Extract(name string, data []byte) (string, error)
}

// ExtractorFunc adapts a function to the Extractor interface.
type ExtractorFunc func(name string, data []byte) (string, error)

func (f ExtractorFunc) Extract(name string, data []byte) (string, error) {
	return f(name, data)
}

// File is one uploaded file prior to extraction.
type File struct {
	Name string
	Data []byte
}

// agentState pairs an agent with its document revision counter. The counter
// bumps on every document mutation and guards late suggestion responses
// against replacing state they were not computed from.
type agentState struct {
	agent  domain.Agent
	docRev int
}

// Store holds the agent collection and mediates all state transitions.
// It is the sole mutator of its agents.
type Store struct {
	mu       sync.Mutex
	agents   []*agentState // insertion order
	activeID string
	status   domain.Status
	inflight map[string]bool // per-agent single-flight tokens

	gateway   Gateway
	extractor Extractor
	now       func() time.Time

	// suggestWG tracks background suggestion refreshes so tests can wait for
	// them to settle.
	suggestWG sync.WaitGroup
}

// New creates a Store seeded with one GENERAL agent, so that at least one
// agent always exists.
func New(gateway Gateway, extractor Extractor) *Store {
	s := &Store{
		status:    domain.StatusIdle,
		inflight:  map[string]bool{},
		gateway:   gateway,
		extractor: extractor,
		now:       time.Now,
	}
	seed := &agentState{agent: domain.Agent{
		ID:   uuid.New().String(),
		Name: "Head Office",
		Type: domain.DeptGeneral,
	}}
	s.agents = append(s.agents, seed)
	s.activeID = seed.agent.ID
	return s
}

// CreateAgent appends a new agent and makes it active. A blank name is a
// no-op returning nil; name validation beyond trimming belongs to the caller.
func (s *Store) CreateAgent(name string, dept domain.DepartmentType) *domain.Agent {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	st := &agentState{agent: domain.Agent{
		ID:   uuid.New().String(),
		Name: name,
		Type: dept,
	}}
	s.agents = append(s.agents, st)
	s.activeID = st.agent.ID
	a := cloneAgent(st.agent)
	return &a
}

// DeleteAgent removes the agent with the given id. Deleting the sole
// remaining agent is a no-op. If the removed agent was active, the first
// remaining agent becomes active.
func (s *Store) DeleteAgent(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.agents) <= 1 {
		return false
	}
	idx := -1
	for i, st := range s.agents {
		if st.agent.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	s.agents = append(s.agents[:idx], s.agents[idx+1:]...)
	if s.activeID == id {
		s.activeID = s.agents[0].agent.ID
	}
	return true
}

// Agents returns a snapshot of the agent collection in insertion order.
func (s *Store) Agents() []domain.Agent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Agent, 0, len(s.agents))
	for _, st := range s.agents {
		out = append(out, cloneAgent(st.agent))
	}
	return out
}

// Agent returns a snapshot of one agent.
func (s *Store) Agent(id string) (domain.Agent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.find(id)
	if st == nil {
		return domain.Agent{}, false
	}
	return cloneAgent(st.agent), true
}

// ActiveID returns the id of the active agent.
func (s *Store) ActiveID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

// SetActive switches the active agent. Unknown ids are rejected so the
// active reference always resolves to a member of the collection.
func (s *Store) SetActive(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.find(id) == nil {
		return false
	}
	s.activeID = id
	return true
}

// Status returns the session status.
func (s *Store) Status() domain.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Typing reports whether any question round-trip is outstanding.
func (s *Store) Typing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.inflight) > 0
}

// IngestFiles extracts each file in order and appends the resulting
// documents to the agent. The batch is atomic: the first extraction failure
// aborts the batch and nothing is committed. On the first ingestion into an
// empty conversation a welcome message is synthesized. A best-effort
// suggestion refresh runs in the background afterwards.
func (s *Store) IngestFiles(ctx context.Context, agentID string, files []File) error {
	s.mu.Lock()
	st := s.find(agentID)
	if st == nil {
		s.mu.Unlock()
		return ErrAgentNotFound
	}
	agentName := st.agent.Name
	dept := st.agent.Type
	s.status = domain.StatusLoadingDoc
	s.mu.Unlock()

	// Extraction runs outside the lock: it can be slow and must not block
	// operations on unrelated agents.
	docs := make([]domain.Document, 0, len(files))
	for _, f := range files {
		text, err := s.extractor.Extract(f.Name, f.Data)
		if err != nil {
			s.setStatus(domain.StatusIdle)
			return fmt.Errorf("extract %s: %w", f.Name, err)
		}
		docs = append(docs, domain.Document{
			ID:          uuid.New().String(),
			Title:       f.Name,
			Content:     text,
			LastUpdated: s.now(),
		})
	}

	s.mu.Lock()
	// Recheck: the agent may have been deleted while extraction ran.
	st = s.find(agentID)
	if st == nil {
		s.status = domain.StatusIdle
		s.mu.Unlock()
		return ErrAgentNotFound
	}
	st.agent.Documents = append(st.agent.Documents, docs...)
	st.docRev++
	rev := st.docRev
	if len(st.agent.Messages) == 0 {
		st.agent.Messages = append(st.agent.Messages, domain.Message{
			ID:        domain.WelcomeIDPrefix + uuid.New().String(),
			Role:      domain.RoleModel,
			Text:      welcomeText(agentName, len(docs)),
			Timestamp: s.now(),
		})
	}
	snapshot := docRefs(st.agent.Documents)
	s.status = domain.StatusReady
	s.mu.Unlock()

	s.suggestWG.Add(1)
	go func() {
		defer s.suggestWG.Done()
		// The refresh outlives the ingest call; don't inherit its cancelation.
		s.refreshSuggestions(context.WithoutCancel(ctx), agentID, rev, snapshot, dept)
	}()
	return nil
}

// refreshSuggestions applies a fresh suggestion list to the agent, but only
// if its document set has not changed since the snapshot was taken. A stale
// response must not overwrite state it was not computed from. Failures are
// swallowed: suggestions are advisory and never roll back an ingest.
func (s *Store) refreshSuggestions(ctx context.Context, agentID string, rev int, docs []domain.DocumentRef, dept domain.DepartmentType) {
	suggestions, err := s.gateway.Suggest(ctx, docs, dept)
	if err != nil {
		slog.Debug("suggestion refresh failed", "agent", agentID, "error", err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.find(agentID)
	if st == nil || st.docRev != rev {
		return
	}
	st.agent.Suggestions = suggestions
}

// RemoveDocument deletes one document from the agent. Messages and
// suggestions are untouched.
func (s *Store) RemoveDocument(agentID, documentID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.find(agentID)
	if st == nil {
		return false
	}
	for i, d := range st.agent.Documents {
		if d.ID == documentID {
			st.agent.Documents = append(st.agent.Documents[:i], st.agent.Documents[i+1:]...)
			st.docRev++
			return true
		}
	}
	return false
}

// SendQuestion runs one question round-trip against the gateway. The user
// message is appended and the suggestions cleared before the network call,
// so the user's turn is always visible first. Gateway failures surface as a
// visible model-role error message, not as a returned error.
func (s *Store) SendQuestion(ctx context.Context, agentID, text string) error {
	text = strings.TrimSpace(text)

	s.mu.Lock()
	st := s.find(agentID)
	if st == nil {
		s.mu.Unlock()
		return ErrAgentNotFound
	}
	if text == "" {
		s.mu.Unlock()
		return ErrEmptyQuestion
	}
	if len(st.agent.Documents) == 0 {
		s.mu.Unlock()
		return ErrNoDocuments
	}
	if s.inflight[agentID] {
		s.mu.Unlock()
		return ErrQuestionInFlight
	}
	s.inflight[agentID] = true

	history := forwardableHistory(st.agent.Messages)
	st.agent.Messages = append(st.agent.Messages, domain.Message{
		ID:        uuid.New().String(),
		Role:      domain.RoleUser,
		Text:      text,
		Timestamp: s.now(),
	})
	st.agent.Suggestions = nil
	docs := docRefs(st.agent.Documents)
	dept := st.agent.Type
	s.mu.Unlock()

	// The token is cleared whichever way the round trip settles.
	defer func() {
		s.mu.Lock()
		delete(s.inflight, agentID)
		s.mu.Unlock()
	}()

	reply, err := s.gateway.Ask(ctx, docs, text, history, dept)

	s.mu.Lock()
	defer s.mu.Unlock()
	// The agent may have been deleted while the call was outstanding; the
	// reply is then dropped rather than applied to a different agent.
	st = s.find(agentID)
	if st == nil {
		return ErrAgentNotFound
	}
	msg := domain.Message{
		ID:        uuid.New().String(),
		Role:      domain.RoleModel,
		Timestamp: s.now(),
	}
	if err != nil {
		msg.Text = "❌ Connection error: " + err.Error()
	} else {
		msg.Text = reply
	}
	st.agent.Messages = append(st.agent.Messages, msg)
	return nil
}

// find returns the live state for an agent id. Callers must hold s.mu.
func (s *Store) find(id string) *agentState {
	for _, st := range s.agents {
		if st.agent.ID == id {
			return st
		}
	}
	return nil
}

func (s *Store) setStatus(status domain.Status) {
	s.mu.Lock()
	s.status = status
	s.mu.Unlock()
}

// forwardableHistory converts the message list into gateway history turns,
// excluding synthesized welcome messages: the model never produced them and
// forwarding them would misrepresent prior turns.
func forwardableHistory(msgs []domain.Message) []domain.Turn {
	turns := make([]domain.Turn, 0, len(msgs))
	for _, m := range msgs {
		if m.IsWelcome() {
			continue
		}
		turns = append(turns, domain.Turn{Role: m.Role, Text: m.Text})
	}
	return turns
}

func docRefs(docs []domain.Document) []domain.DocumentRef {
	refs := make([]domain.DocumentRef, 0, len(docs))
	for _, d := range docs {
		refs = append(refs, d.Ref())
	}
	return refs
}

func welcomeText(agentName string, docCount int) string {
	return fmt.Sprintf("**Hello!** 👋\n\nI'm the assistant for **%s**. I've processed the **%d document(s)** you just uploaded.\n\nAsk me anything about their contents and I'll answer with specific references.", agentName, docCount)
}

func cloneAgent(a domain.Agent) domain.Agent {
	out := a
	out.Documents = append([]domain.Document(nil), a.Documents...)
	out.Messages = append([]domain.Message(nil), a.Messages...)
	out.Suggestions = append([]string(nil), a.Suggestions...)
	return out
}
