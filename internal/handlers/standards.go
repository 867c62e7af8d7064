package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/currilab/curricula-backend/internal/domain"
	"github.com/currilab/curricula-backend/internal/pkg/logger"
	"github.com/currilab/curricula-backend/internal/services"
)

// maxUploadBytes bounds a single standard document upload.
const maxUploadBytes = 32 << 20

type StandardsHandler struct {
	log       *logger.Logger
	standards *services.StandardsService
	prof      *services.ProfstandardService
	store     *services.SessionStore
}

func NewStandardsHandler(log *logger.Logger, standards *services.StandardsService, prof *services.ProfstandardService, store *services.SessionStore) *StandardsHandler {
	return &StandardsHandler{
		log:       log.With("handler", "StandardsHandler"),
		standards: standards,
		prof:      prof,
		store:     store,
	}
}

// POST /api/v1/standards/fgos
// Upload the educational standard, extract competencies and detect
// training profiles.
func (h *StandardsHandler) UploadFGOS(c *gin.Context) {
	name, data, err := readUpload(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_upload", err)
		return
	}

	text, err := services.ExtractText(name, data)
	scanned := errors.Is(err, services.ErrScannedDocument)
	if err != nil && !scanned {
		RespondError(c, http.StatusUnprocessableEntity, "extract_failed", err)
		return
	}

	comps := h.standards.ExtractCompetencies(text)
	profiles := h.standards.DetectProfile(c.Request.Context(), text)

	session := bindSession(c, h.store)
	session.WithLock(func(st *services.SessionState) {
		*st.FgosText = text
		*st.Competencies = comps
		*st.Profiles = profiles
	})

	h.log.Info("fgos uploaded", "session", session.ID, "competencies", len(comps))
	resp := gin.H{
		"session_id":   session.ID,
		"competencies": comps,
		"profiles":     profiles,
	}
	if scanned {
		resp["warning"] = services.ErrScannedDocument.Error()
	}
	RespondOK(c, resp)
}

// POST /api/v1/standards/prof
// Upload the occupational standard and structure its functions.
func (h *StandardsHandler) UploadProf(c *gin.Context) {
	name, data, err := readUpload(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_upload", err)
		return
	}

	text, err := services.ExtractText(name, data)
	scanned := errors.Is(err, services.ErrScannedDocument)
	if err != nil && !scanned {
		RespondError(c, http.StatusUnprocessableEntity, "extract_failed", err)
		return
	}

	set, err := h.prof.AnalyzeStandard(c.Request.Context(), text)
	if err != nil {
		RespondError(c, http.StatusUnprocessableEntity, "no_function_codes", err)
		return
	}

	session := bindSession(c, h.store)
	session.WithLock(func(st *services.SessionState) {
		*st.ProfText = text
		*st.Functions = set
	})

	h.log.Info("profstandard uploaded", "session", session.ID, "functions", len(set.Functions))
	resp := gin.H{
		"session_id": session.ID,
		"functions":  set,
		"tables":     services.BuildFunctionTables(set),
	}
	if scanned {
		resp["warning"] = services.ErrScannedDocument.Error()
	}
	RespondOK(c, resp)
}

// POST /api/v1/match
// Align the session's competencies with its occupational functions.
func (h *StandardsHandler) Match(c *gin.Context) {
	session := bindSession(c, h.store)

	var comps []domain.CompetencyRecord
	var set domain.FunctionSet
	session.WithLock(func(st *services.SessionState) {
		comps = *st.Competencies
		set = *st.Functions
	})
	if len(comps) == 0 || len(set.Functions) == 0 {
		RespondError(c, http.StatusConflict, "missing_standards",
			errors.New("сначала загрузите ФГОС и профстандарт"))
		return
	}

	// The model call runs outside the session lock.
	report := h.prof.Match(c.Request.Context(), comps, set)
	session.WithLock(func(st *services.SessionState) {
		*st.MatchReport = &report
	})

	RespondOK(c, gin.H{"session_id": session.ID, "report": report})
}

func readUpload(c *gin.Context) (string, []byte, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return "", nil, errors.New("файл не передан (поле 'file')")
	}
	if fh.Size > maxUploadBytes {
		return "", nil, errors.New("файл слишком большой")
	}
	f, err := fh.Open()
	if err != nil {
		return "", nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
	if err != nil {
		return "", nil, err
	}
	return fh.Filename, data, nil
}
