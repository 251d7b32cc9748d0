package cmd

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/planora/server/internal/auth"
	"github.com/planora/server/internal/config"
	"github.com/planora/server/internal/domain/events"
	"github.com/planora/server/internal/domain/users"
	"github.com/planora/server/internal/jobs"
	"github.com/planora/server/internal/notify"
	"github.com/planora/server/internal/storage/dynamo"
	"github.com/planora/server/internal/storage/memory"
)

// application holds the constructed component graph shared by the serve
// and remind commands.
type application struct {
	Tokens   *auth.TokenManager
	Users    *users.Service
	Events   *events.Service
	Reminder *jobs.Reminder
}

// buildApplication constructs the store adapters and services from
// configuration. Configuration is read once here; components receive it
// through their constructors and never consult the environment themselves.
func buildApplication(ctx context.Context, cfg config.Config, logger zerolog.Logger) (*application, error) {
	var (
		userRepo  users.Repository
		eventRepo events.Repository
	)

	switch cfg.Storage.Backend {
	case "dynamodb":
		client, err := dynamo.NewClient(ctx, cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("dynamodb client: %w", err)
		}
		userRepo = dynamo.NewUserRepository(client, cfg.Storage.UsersTable)
		eventRepo = dynamo.NewEventRepository(client, cfg.Storage.EventsTable)
	case "memory":
		logger.Warn().Msg("using in-memory storage; data is lost on restart")
		userRepo = memory.NewUserRepository()
		eventRepo = memory.NewEventRepository()
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiry, cfg.Auth.Issuer)
	usersService := users.NewService(userRepo, tokens, logger)
	eventsService := events.NewService(eventRepo, logger)

	publisher, err := buildPublisher(ctx, cfg)
	if err != nil {
		return nil, err
	}
	notifier := notify.NewNotifier(usersService, publisher, logger)
	reminder := jobs.NewReminder(eventRepo, notifier, cfg.Reminder.MaxConcurrency, logger)

	return &application{
		Tokens:   tokens,
		Users:    usersService,
		Events:   eventsService,
		Reminder: reminder,
	}, nil
}

func buildPublisher(ctx context.Context, cfg config.Config) (notify.Publisher, error) {
	switch cfg.Notify.Backend {
	case "sns":
		publisher, err := notify.NewSNSPublisher(ctx, cfg.Notify, cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("sns publisher: %w", err)
		}
		return publisher, nil
	case "email":
		publisher, err := notify.NewResendPublisher(cfg.Notify)
		if err != nil {
			return nil, fmt.Errorf("email publisher: %w", err)
		}
		return publisher, nil
	default:
		return nil, fmt.Errorf("unknown notify backend %q", cfg.Notify.Backend)
	}
}
