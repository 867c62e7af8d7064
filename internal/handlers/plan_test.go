package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/currilab/curricula-backend/config"
	"github.com/currilab/curricula-backend/internal/clients/yandexgpt"
	"github.com/currilab/curricula-backend/internal/domain"
	"github.com/currilab/curricula-backend/internal/handlers"
	"github.com/currilab/curricula-backend/internal/pkg/logger"
	"github.com/currilab/curricula-backend/internal/server"
	"github.com/currilab/curricula-backend/internal/services"
)

type scriptedLLM struct {
	replies []string
}

func (s *scriptedLLM) Complete(_ context.Context, _ []yandexgpt.Message, _ yandexgpt.Options) (string, error) {
	if len(s.replies) == 0 {
		return "", nil
	}
	reply := s.replies[0]
	if len(s.replies) > 1 {
		s.replies = s.replies[1:]
	}
	return reply, nil
}

func newTestRouter(t *testing.T, llm yandexgpt.Client, store *services.SessionStore) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}

	standardsService := services.NewStandardsService(llm, log)
	profService := services.NewProfstandardService(llm, log)
	generationService := services.NewGenerationService(llm, log)
	enrichService := services.NewEnrichService(llm, 1, log)
	hoursService := services.NewHoursService(llm, log)
	plannerService := services.NewPlannerService(standardsService, generationService, enrichService, hoursService,
		config.PlannerConfig{TermPolicy: "round_robin", EnrichConcurrency: 1}, log)
	editorService := services.NewEditorService(llm, log)
	exportService := services.NewExportService(log)

	return server.NewRouter(server.RouterConfig{
		StandardsHandler: handlers.NewStandardsHandler(log, standardsService, profService, store),
		PlanHandler:      handlers.NewPlanHandler(log, plannerService, editorService, exportService, store),
	})
}

func seedPlan(store *services.SessionStore) *services.PlanSession {
	session := store.GetOrCreate("")
	session.WithLock(func(st *services.SessionState) {
		st.Editor.SetPlan(domain.Plan{
			{Block: "Блок 1. Обязательная часть", Term: 1, Discipline: "Математика", Hours: 144, Assessment: "экзамен"},
		})
	})
	return session
}

func postJSON(t *testing.T, router *gin.Engine, path, sessionID string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.Header.Set(handlers.SessionHeader, sessionID)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t, &scriptedLLM{}, services.NewSessionStore())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK || w.Body.String() != "ok" {
		t.Fatalf("healthz: code=%d body=%q", w.Code, w.Body.String())
	}
}

func TestGenerateWithoutStandards(t *testing.T) {
	router := newTestRouter(t, &scriptedLLM{}, services.NewSessionStore())

	w := postJSON(t, router, "/api/v1/plan/generate", "", nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("code = %d, want 409", w.Code)
	}
}

func TestChatProposeAndConfirm(t *testing.T) {
	store := services.NewSessionStore()
	llm := &scriptedLLM{replies: []string{`{
		"comment": "Часы уменьшены",
		"plan_proposed": [
			{"Семестр": 1, "Дисциплина": "Математика", "Часы": 72, "Форма контроля": "экзамен"}
		]
	}`}}
	router := newTestRouter(t, llm, store)
	session := seedPlan(store)

	// Round one: the model drafts a proposal.
	w := postJSON(t, router, "/api/v1/plan/chat", session.ID, gin.H{"message": "уменьши часы математики"})
	if w.Code != http.StatusOK {
		t.Fatalf("proposal round: code=%d body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Применить изменения?") {
		t.Errorf("reply must ask for confirmation: %s", w.Body.String())
	}

	// Round two: the operator confirms.
	w = postJSON(t, router, "/api/v1/plan/chat", session.ID, gin.H{"message": "да"})
	if w.Code != http.StatusOK {
		t.Fatalf("confirm round: code=%d body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Applied bool        `json:"applied"`
		Plan    domain.Plan `json:"plan"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Applied {
		t.Error("confirmation did not apply the proposal")
	}
	if len(resp.Plan) != 1 || resp.Plan[0].Hours != 72 {
		t.Errorf("plan after apply: %+v", resp.Plan)
	}
}

func TestChatCancel(t *testing.T) {
	store := services.NewSessionStore()
	llm := &scriptedLLM{replies: []string{`{
		"comment": "Изменение",
		"plan_proposed": [
			{"Семестр": 1, "Дисциплина": "Математика", "Часы": 72, "Форма контроля": "экзамен"}
		]
	}`}}
	router := newTestRouter(t, llm, store)
	session := seedPlan(store)

	postJSON(t, router, "/api/v1/plan/chat", session.ID, gin.H{"message": "измени план"})
	w := postJSON(t, router, "/api/v1/plan/chat", session.ID, gin.H{"message": "нет"})

	var resp struct {
		Applied bool        `json:"applied"`
		Plan    domain.Plan `json:"plan"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Applied {
		t.Error("cancellation applied the proposal")
	}
	if len(resp.Plan) != 1 || resp.Plan[0].Hours != 144 {
		t.Errorf("plan after cancel: %+v", resp.Plan)
	}
}

func TestCommandUpdate(t *testing.T) {
	store := services.NewSessionStore()
	llm := &scriptedLLM{replies: []string{
		`{"action": "update", "discipline": "Математика", "field": "Часы", "value": 72}`,
	}}
	router := newTestRouter(t, llm, store)
	session := seedPlan(store)

	w := postJSON(t, router, "/api/v1/plan/command", session.ID, gin.H{"message": "поставь математике 72 часа"})
	if w.Code != http.StatusOK {
		t.Fatalf("code=%d body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Plan domain.Plan `json:"plan"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Plan) != 1 || resp.Plan[0].Hours != 72 {
		t.Errorf("plan after command: %+v", resp.Plan)
	}
}

func TestGetPlanNotFound(t *testing.T) {
	router := newTestRouter(t, &scriptedLLM{}, services.NewSessionStore())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/plan", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("code = %d, want 404", w.Code)
	}
}

func TestExportPlanXLSX(t *testing.T) {
	store := services.NewSessionStore()
	router := newTestRouter(t, &scriptedLLM{}, store)
	session := seedPlan(store)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/plan/export?target=plan", nil)
	req.Header.Set(handlers.SessionHeader, session.ID)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("code=%d body=%s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Errorf("content type = %q", ct)
	}
	if w.Body.Len() == 0 {
		t.Error("empty xlsx body")
	}
}
