package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/currilab/curricula-backend/config"
	"github.com/currilab/curricula-backend/internal/clients/yandexgpt"
	"github.com/currilab/curricula-backend/internal/handlers"
	"github.com/currilab/curricula-backend/internal/pkg/logger"
	"github.com/currilab/curricula-backend/internal/server"
	"github.com/currilab/curricula-backend/internal/services"
)

type App struct {
	Log    *logger.Logger
	Cfg    *config.Config
	Router *gin.Engine

	srv *http.Server
}

func New(configPath string) (*App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	llm, err := yandexgpt.NewClient(cfg.LLM, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init llm client: %w", err)
	}

	store := services.NewSessionStore()
	standardsService := services.NewStandardsService(llm, log)
	profService := services.NewProfstandardService(llm, log)
	generationService := services.NewGenerationService(llm, log)
	enrichService := services.NewEnrichService(llm, cfg.Planner.EnrichConcurrency, log)
	hoursService := services.NewHoursService(llm, log)
	plannerService := services.NewPlannerService(standardsService, generationService, enrichService, hoursService, cfg.Planner, log)
	editorService := services.NewEditorService(llm, log)
	exportService := services.NewExportService(log)

	standardsHandler := handlers.NewStandardsHandler(log, standardsService, profService, store)
	planHandler := handlers.NewPlanHandler(log, plannerService, editorService, exportService, store)

	router := server.NewRouter(server.RouterConfig{
		AllowOrigins:     cfg.Server.AllowOrigins,
		StandardsHandler: standardsHandler,
		PlanHandler:      planHandler,
	})

	return &App{Log: log, Cfg: cfg, Router: router}, nil
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	a.srv = &http.Server{
		Addr:    fmt.Sprintf(":%d", a.Cfg.Server.Port),
		Handler: a.Router,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Log.Info("server listening", "addr", a.srv.Addr)
		if err := a.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return a.srv.Shutdown(shutdownCtx)
}

func (a *App) Close() {
	if a == nil || a.Log == nil {
		return
	}
	a.Log.Sync()
}
