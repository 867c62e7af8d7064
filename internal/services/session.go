package services

import (
	"sync"

	"github.com/google/uuid"

	"github.com/currilab/curricula-backend/internal/curriculum"
	"github.com/currilab/curricula-backend/internal/domain"
)

// PlanSession holds everything one operator accumulates while drafting
// a plan. All state is transient; nothing survives the process.
type PlanSession struct {
	ID string

	mu           sync.Mutex
	fgosText     string
	profText     string
	competencies []domain.CompetencyRecord
	profiles     []string
	functions    domain.FunctionSet
	matchReport  *domain.MatchReport
	editor       *curriculum.EditorSession
}

func newPlanSession(id string) *PlanSession {
	return &PlanSession{ID: id, editor: curriculum.NewEditorSession(nil)}
}

// WithLock runs fn with the session locked. Handlers use it to keep
// read-modify-write sequences atomic across concurrent requests.
func (s *PlanSession) WithLock(fn func(*SessionState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := &SessionState{
		FgosText:     &s.fgosText,
		ProfText:     &s.profText,
		Competencies: &s.competencies,
		Profiles:     &s.profiles,
		Functions:    &s.functions,
		MatchReport:  &s.matchReport,
		Editor:       s.editor,
	}
	fn(state)
}

// SessionState is the locked view of a session handed to WithLock.
type SessionState struct {
	FgosText     *string
	ProfText     *string
	Competencies *[]domain.CompetencyRecord
	Profiles     *[]string
	Functions    *domain.FunctionSet
	MatchReport  **domain.MatchReport
	Editor       *curriculum.EditorSession
}

// SessionStore keeps live sessions in memory, keyed by id.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*PlanSession
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*PlanSession)}
}

// GetOrCreate returns the session for id, creating it when id is empty
// or unknown. The returned session's ID is authoritative; callers echo
// it back to the client.
func (st *SessionStore) GetOrCreate(id string) *PlanSession {
	if id != "" {
		st.mu.RLock()
		s, ok := st.sessions[id]
		st.mu.RUnlock()
		if ok {
			return s
		}
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if id == "" {
		id = uuid.NewString()
	}
	if s, ok := st.sessions[id]; ok {
		return s
	}
	s := newPlanSession(id)
	st.sessions[id] = s
	return s
}

// Get returns the session for id, or nil when unknown.
func (st *SessionStore) Get(id string) *PlanSession {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.sessions[id]
}

// Drop removes a session.
func (st *SessionStore) Drop(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}
