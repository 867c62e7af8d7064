package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/currilab/curricula-backend/internal/curriculum"
	"github.com/currilab/curricula-backend/internal/domain"
	"github.com/currilab/curricula-backend/internal/pkg/logger"
	"github.com/currilab/curricula-backend/internal/services"
)

type PlanHandler struct {
	log     *logger.Logger
	planner *services.PlannerService
	editor  *services.EditorService
	export  *services.ExportService
	store   *services.SessionStore
}

func NewPlanHandler(log *logger.Logger, planner *services.PlannerService, editor *services.EditorService, export *services.ExportService, store *services.SessionStore) *PlanHandler {
	return &PlanHandler{
		log:     log.With("handler", "PlanHandler"),
		planner: planner,
		editor:  editor,
		export:  export,
		store:   store,
	}
}

// POST /api/v1/plan/generate
// Run the full pipeline over the session's standards and replace the
// session plan with the result.
func (h *PlanHandler) Generate(c *gin.Context) {
	session := bindSession(c, h.store)

	var fgosText string
	var comps []domain.CompetencyRecord
	var set domain.FunctionSet
	session.WithLock(func(st *services.SessionState) {
		fgosText = *st.FgosText
		comps = *st.Competencies
		set = *st.Functions
	})
	if len(comps) == 0 {
		RespondError(c, http.StatusConflict, "missing_standards",
			errors.New("сначала загрузите ФГОС"))
		return
	}

	result, err := h.planner.GeneratePlan(c.Request.Context(), fgosText, comps, set)
	if err != nil {
		if errors.Is(err, services.ErrNoDisciplines) {
			RespondError(c, http.StatusUnprocessableEntity, "empty_generation", err)
			return
		}
		RespondError(c, http.StatusBadGateway, "generation_failed", err)
		return
	}

	session.WithLock(func(st *services.SessionState) {
		st.Editor.SetPlan(result.Plan)
	})

	h.log.Info("plan generated", "session", session.ID, "rows", len(result.Plan))
	RespondOK(c, gin.H{"session_id": session.ID, "result": result})
}

// GET /api/v1/plan
func (h *PlanHandler) Get(c *gin.Context) {
	session := bindSession(c, h.store)

	var plan domain.Plan
	var state curriculum.EditorState
	session.WithLock(func(st *services.SessionState) {
		plan = st.Editor.Plan()
		state = st.Editor.State()
	})
	if len(plan) == 0 {
		RespondError(c, http.StatusNotFound, "no_plan", errors.New("план ещё не сгенерирован"))
		return
	}
	RespondOK(c, gin.H{"session_id": session.ID, "plan": plan, "editor_state": state})
}

// POST /api/v1/plan/chat
// Free-form editing. When a proposal is pending, the message resolves
// it; otherwise the model drafts a new full-plan proposal.
func (h *PlanHandler) Chat(c *gin.Context) {
	var req struct {
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}

	session := bindSession(c, h.store)

	var plan domain.Plan
	var awaiting bool
	session.WithLock(func(st *services.SessionState) {
		plan = st.Editor.Plan()
		awaiting = st.Editor.State() == curriculum.StateAwaitingConfirmation
	})
	if len(plan) == 0 {
		RespondError(c, http.StatusConflict, "no_plan", errors.New("план ещё не сгенерирован"))
		return
	}

	if awaiting {
		var applied bool
		var reply string
		session.WithLock(func(st *services.SessionState) {
			applied, reply = st.Editor.Resolve(req.Message)
			plan = st.Editor.Plan()
		})
		RespondOK(c, gin.H{
			"session_id": session.ID,
			"reply":      reply,
			"applied":    applied,
			"plan":       plan,
		})
		return
	}

	proposed, comment, err := h.editor.ProposeEdit(c.Request.Context(), req.Message, plan)
	if err != nil {
		RespondError(c, http.StatusUnprocessableEntity, "proposal_failed", err)
		return
	}

	var reply string
	session.WithLock(func(st *services.SessionState) {
		reply = st.Editor.Propose(proposed, comment)
	})
	RespondOK(c, gin.H{
		"session_id":    session.ID,
		"reply":         reply,
		"plan_proposed": proposed,
	})
}

// POST /api/v1/plan/command
// Structured single-row editing via the JSON command protocol.
func (h *PlanHandler) Command(c *gin.Context) {
	var req struct {
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}

	session := bindSession(c, h.store)

	var havePlan bool
	session.WithLock(func(st *services.SessionState) {
		havePlan = len(st.Editor.Plan()) > 0
	})
	if !havePlan {
		RespondError(c, http.StatusConflict, "no_plan", errors.New("план ещё не сгенерирован"))
		return
	}

	cmd, err := h.editor.CommandEdit(c.Request.Context(), req.Message)
	if err != nil {
		RespondError(c, http.StatusUnprocessableEntity, "command_failed", err)
		return
	}

	var reply string
	var applyErr error
	var plan domain.Plan
	session.WithLock(func(st *services.SessionState) {
		reply, applyErr = st.Editor.Apply(cmd)
		plan = st.Editor.Plan()
	})
	if applyErr != nil {
		RespondError(c, http.StatusUnprocessableEntity, "command_rejected", applyErr)
		return
	}
	RespondOK(c, gin.H{"session_id": session.ID, "reply": reply, "plan": plan})
}

// GET /api/v1/plan/export?target=plan|competencies|functions
func (h *PlanHandler) Export(c *gin.Context) {
	session := bindSession(c, h.store)

	target := c.DefaultQuery("target", "plan")

	var buf *bytes.Buffer
	var filename string
	var err error

	switch target {
	case "plan":
		var plan domain.Plan
		session.WithLock(func(st *services.SessionState) {
			plan = st.Editor.Plan()
		})
		buf, filename, err = h.export.ExportPlan(plan)
	case "competencies":
		var comps []domain.CompetencyRecord
		session.WithLock(func(st *services.SessionState) {
			comps = *st.Competencies
		})
		buf, filename, err = h.export.ExportCompetencies(comps)
	case "functions":
		var set domain.FunctionSet
		session.WithLock(func(st *services.SessionState) {
			set = *st.Functions
		})
		buf, filename, err = h.export.ExportFunctions(set)
	default:
		RespondError(c, http.StatusBadRequest, "bad_target",
			errors.New("target должен быть plan, competencies или functions"))
		return
	}
	if err != nil {
		if errors.Is(err, services.ErrExportEmpty) {
			RespondError(c, http.StatusNotFound, "export_empty", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "export_failed", err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename*=UTF-8''`+url.PathEscape(filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
