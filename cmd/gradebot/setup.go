package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sandevgo/gradebot/internal/config"
	"github.com/sandevgo/gradebot/internal/core"
	"github.com/sandevgo/gradebot/internal/providers/llm"
	"github.com/sandevgo/gradebot/internal/service/assistant"
	"github.com/sandevgo/gradebot/internal/service/command"
	"github.com/sandevgo/gradebot/internal/service/memory"
	"github.com/sandevgo/gradebot/internal/service/resolver"
	"github.com/sandevgo/gradebot/internal/service/router"
	"github.com/sandevgo/gradebot/internal/storage/dataset"
	"github.com/sandevgo/gradebot/internal/storage/sqlite"
	"github.com/sandevgo/gradebot/internal/transport/cli"
	"github.com/sandevgo/gradebot/internal/transport/telegram"
	"github.com/sandevgo/gradebot/pkg/log"
	"github.com/sandevgo/gradebot/pkg/srv"
	"golang.org/x/sync/errgroup"
)

// App holds the wired core shared by every subcommand.
type App struct {
	Config      *config.AppConfig
	Router      *router.Router
	Store       *memory.Store
	Transcripts *sqlite.TranscriptRepo

	// Services stop in reverse order, so storage is registered first.
	Services []srv.Service
}

// NewApp loads configuration, the dataset, the memory file and the
// transcript database, then builds the router on top of them.
func NewApp(ctx context.Context) (*App, error) {
	logger := log.FromCtx(ctx)

	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		return nil, fmt.Errorf("init env: %w", err)
	}

	appCfg := config.NewAppConfig(ctx)
	llmCfg := config.NewLLMConfig(ctx)

	var (
		data  *dataset.Store
		store *memory.Store
		db    *sql.DB
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		data = dataset.LoadOrEmpty(gctx, appCfg.GetDatasetPath(), dataset.LoadOptions{Delimiter: appCfg.Delimiter()})
		return nil
	})
	g.Go(func() error {
		store = memory.Open(gctx, appCfg.GetMemoryPath(), memory.WithHistoryLimit(appCfg.HistoryLimit))
		return nil
	})
	if appCfg.EnableTranscripts {
		g.Go(func() error {
			var err error
			db, err = sqlite.NewDB(gctx, appCfg.GetDatabasePath())
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("initialize storage: %w", err)
	}

	app := &App{Config: appCfg, Store: store}
	app.Services = append(app.Services, store)

	var mem core.Memory = store
	if db != nil {
		app.Transcripts = sqlite.NewTranscriptRepo(db)
		app.Services = append(app.Services, srv.NewCleanup("transcripts", db.Close))
		mem = memory.NewArchived(store, app.Transcripts)
	}

	client, err := llm.NewProvider(ctx, llmCfg)
	if err != nil {
		return nil, fmt.Errorf("initialize LLM provider: %w", err)
	}
	var ai core.AIProvider
	if client != nil {
		ai = client
	} else {
		logger.Info().Msg("no LLM configured, running in lookup-only mode")
	}

	res := resolver.New(data)
	asst := assistant.New(ai, mem, data, assistant.Config{
		Model:             llmCfg.Model,
		Timeout:           llmCfg.Timeout,
		Temperature:       llmCfg.Temperature,
		MaxTokens:         llmCfg.MaxTokens,
		TopP:              llmCfg.TopP,
		PromptTokenBudget: llmCfg.PromptTokenBudget,
	})

	app.Router = router.New(res, mem, asst, command.NewRouter(mem, res))
	return app, nil
}

// Transports builds the enabled chat front ends.
func (a *App) Transports(ctx context.Context) ([]srv.Service, error) {
	var services []srv.Service

	if a.Config.EnableTelegram {
		bot, err := telegram.NewBot(ctx, config.NewTelegramConfig(ctx), a.Router)
		if err != nil {
			return nil, err
		}
		services = append(services, bot)
	}

	if a.Config.EnableCLI {
		rl, err := cli.NewReadLine(a.Router, a.Config)
		if err != nil {
			return nil, err
		}
		services = append(services, rl)
	}

	if len(services) == 0 {
		return nil, fmt.Errorf("no transport enabled: set ENABLE_TELEGRAM or ENABLE_CLI")
	}
	return services, nil
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}
