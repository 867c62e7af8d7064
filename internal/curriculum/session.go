package curriculum

import (
	"strings"

	"github.com/currilab/curricula-backend/internal/domain"
)

// EditorState is the chat editor's position in the confirm cycle.
type EditorState int

const (
	StateIdle EditorState = iota
	StateAwaitingConfirmation
)

var (
	affirmativeTokens = map[string]struct{}{
		"да": {}, "yes": {}, "ок": {}, "применить": {},
	}
	negativeTokens = map[string]struct{}{
		"нет": {}, "no": {}, "отмена": {},
	}
)

// EditorSession holds the active plan and the two-state confirm machine
// of the chat editor. A proposal replaces the plan only after an explicit
// affirmative reply; anything else keeps the table untouched. The session
// is not safe for concurrent use; the owning store serializes access.
type EditorSession struct {
	state          EditorState
	plan           domain.Plan
	pendingPlan    domain.Plan
	pendingComment string
}

// NewEditorSession starts an idle session over the given plan.
func NewEditorSession(plan domain.Plan) *EditorSession {
	return &EditorSession{plan: plan}
}

func (s *EditorSession) State() EditorState { return s.state }

func (s *EditorSession) Plan() domain.Plan { return s.plan }

// SetPlan replaces the active plan and drops any pending proposal.
func (s *EditorSession) SetPlan(plan domain.Plan) {
	s.plan = plan
	s.pendingPlan = nil
	s.pendingComment = ""
	s.state = StateIdle
}

// PendingProposal exposes the proposed table awaiting confirmation.
func (s *EditorSession) PendingProposal() (domain.Plan, string, bool) {
	if s.state != StateAwaitingConfirmation {
		return nil, "", false
	}
	return s.pendingPlan, s.pendingComment, true
}

// Propose stores a model-suggested replacement table and moves the
// session to awaiting_confirmation. The reply asks the operator to
// confirm or cancel.
func (s *EditorSession) Propose(proposed domain.Plan, comment string) string {
	s.pendingPlan = proposed
	s.pendingComment = comment
	s.state = StateAwaitingConfirmation
	return comment + "\n\nПоказан предлагаемый вариант учебного плана. Применить изменения? (да / нет)"
}

// Resolve consumes one operator reply while a proposal is pending.
// Affirmative commits, negative discards, anything else re-prompts
// without changing state.
func (s *EditorSession) Resolve(input string) (applied bool, reply string) {
	if s.state != StateAwaitingConfirmation {
		return false, "Нет ожидающих изменений."
	}
	token := strings.ToLower(strings.TrimSpace(input))
	if _, ok := affirmativeTokens[token]; ok {
		s.plan = s.pendingPlan
		s.pendingPlan = nil
		s.pendingComment = ""
		s.state = StateIdle
		return true, "Изменения применены."
	}
	if _, ok := negativeTokens[token]; ok {
		s.pendingPlan = nil
		s.pendingComment = ""
		s.state = StateIdle
		return false, "Изменения отменены."
	}
	return false, "Пожалуйста, ответьте 'да' или 'нет'."
}

// Apply runs a structured command against the active plan, bypassing the
// confirm cycle. The plan changes only on success.
func (s *EditorSession) Apply(cmd domain.EditCommand) (string, error) {
	updated, msg, err := ApplyCommand(s.plan, cmd)
	if err != nil {
		return "", err
	}
	s.plan = updated
	return msg, nil
}
