package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	corebootstrap "github.com/askrobots/intakebot/core/bootstrap"
	coretelegram "github.com/askrobots/intakebot/core/telegram"
	"github.com/askrobots/intakebot/core/telegram/commands"
	"github.com/askrobots/intakebot/core/telegram/router"
	"github.com/askrobots/intakebot/internal/conversation"
	"github.com/askrobots/intakebot/internal/llm"
	"github.com/askrobots/intakebot/internal/storage/postgres"
)

// App wires the conversation engine, storage, and completion client
// into a runnable Telegram bot.
type App struct {
	cfg    *Config
	db     *sqlx.DB
	engine *conversation.Engine
	stats  conversation.StatsReader
}

// New bootstraps infrastructure (logger, database, migrations) and
// assembles the application.
func New(cfg *Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bot: nil config provided")
	}

	res, err := corebootstrap.Run(corebootstrap.Options{
		Config:       cfg.CoreConfig(),
		Database:     cfg.Database,
		DatabaseWait: 30 * time.Second,
	})
	if err != nil {
		return nil, err
	}

	store := postgres.NewStore(res.DB)
	engine := conversation.NewEngine(store, llm.NewClient(cfg.OpenAI))

	return &App{
		cfg:    cfg,
		db:     res.DB,
		engine: engine,
		stats:  store,
	}, nil
}

// TelegramRunOptions builds the registry, routes, and middleware chain for the bot runtime.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := coretelegram.NewRegistry()

	reg.RegisterCommand("/start", commands.Command{
		Handler:     a.onStart,
		Description: "Begin or restart onboarding",
	})
	reg.RegisterCommand("/help", commands.Command{
		Handler:     a.onHelp,
		Description: "Show what this bot does",
	})
	reg.RegisterCommand("/stats", commands.Command{
		Handler:     a.onStats,
		Description: "Show stored conversation totals",
		AdminOnly:   true,
		Hidden:      true,
	})
	reg.SetTextFallback(a.onText)

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID: a.cfg.Telegram.AdminID,
	})
	routes = append(routes, router.TextRoutes(reg, router.TextOptions{})...)

	return coretelegram.RunOptions{
		Config:      a.cfg.CoreConfig(),
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(a.cfg.CoreConfig(), nil),
		Routes:      routes,
		OnStop: func(_ context.Context, _ coretelegram.Runtime) error {
			return a.db.Close()
		},
	}, nil
}
