package app

import (
	"context"
	"fmt"

	"adapterforge/internal/delivery"
	"adapterforge/internal/gateway/config"
	"adapterforge/internal/gateway/handler"
	"adapterforge/internal/gateway/identity"
	"adapterforge/internal/gateway/run"
	"adapterforge/internal/gateway/server"
	"adapterforge/internal/schema"
)

type App struct {
	server *server.Server
	stop   context.CancelFunc
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Dependencies
	questionSchema, err := schema.Load(cfg.SchemaFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load question schema: %w", err)
	}
	store, err := initArchiveStore(cfg)
	if err != nil {
		return nil, err
	}

	githubFactory := func(user *identity.User, repoName string) (delivery.Deliverer, error) {
		return delivery.NewGitHubDeliverer(user, delivery.GitHubOptions{
			RepoName: repoName,
			BaseURL:  cfg.GitHub.APIBase,
		})
	}
	runSvc := run.NewService(run.Options{
		Schema: questionSchema,
		Store:  store,
		GitHub: githubFactory,
	})

	provider := identity.NewHeaderProvider()

	// Routing & Server
	mux := server.NewMux(server.Handlers{
		CreateWS:  handler.NewCreateWS(runSvc, provider),
		Download:  handler.NewDownload(store),
		Debug:     handler.NewDebug(runSvc),
		Questions: handler.NewQuestions(questionSchema),
		Translate: handler.NewTranslateProxy(cfg.TranslateUpstream),
		Static:    handler.NewStatic(cfg.StaticDir),
	})
	srv := server.New(cfg.Port, mux)

	ctx, stop := context.WithCancel(context.Background())
	startJanitor(ctx, store, cfg.Archive.TTL)

	return &App{server: srv, stop: stop}, nil
}

func (a *App) Start() error {
	return a.server.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	a.stop()
	return a.server.Shutdown(ctx)
}
