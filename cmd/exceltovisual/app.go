package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/moh-ammad/exceltovisual/config"
	"github.com/moh-ammad/exceltovisual/handlers"
	"github.com/moh-ammad/exceltovisual/models"
	"github.com/moh-ammad/exceltovisual/repositories"
	"github.com/moh-ammad/exceltovisual/reports"
	"github.com/moh-ammad/exceltovisual/services"
	"github.com/moh-ammad/exceltovisual/utils"
)

type stores struct {
	users repositories.UserStore
	tasks repositories.TaskStore
	close func()
}

// openStores connects to MongoDB, or builds in-process stores when memory
// is set. Replaced in tests.
var openStores = func(ctx context.Context, cfg *config.Config, memory bool) (*stores, error) {
	if memory {
		return &stores{
			users: repositories.NewMemoryUserStore(),
			tasks: repositories.NewMemoryTaskStore(),
			close: func() {},
		}, nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.MongoTimeout)
	defer cancel()
	client, err := repositories.Connect(connectCtx, cfg.MongoURI)
	if err != nil {
		return nil, err
	}
	db := client.Database(cfg.MongoDBName)

	userRepo := repositories.NewUserRepository(db)
	if err := userRepo.EnsureIndexes(connectCtx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return &stores{
		users: repositories.NewGuardedUserStore(userRepo,
			repositories.NewStoreBreaker("users-store", cfg.StoreBreakerFailures, cfg.StoreBreakerTimeout)),
		tasks: repositories.NewGuardedTaskStore(repositories.NewTaskRepository(db),
			repositories.NewStoreBreaker("tasks-store", cfg.StoreBreakerFailures, cfg.StoreBreakerTimeout)),
		close: func() { _ = client.Disconnect(context.Background()) },
	}, nil
}

type app struct {
	cfg     *config.Config
	stores  *stores
	auth    *services.AuthService
	users   *services.UserService
	tasks   *services.TaskService
	reports *services.ReportService
}

func newApp(cfg *config.Config, s *stores) *app {
	importer := reports.NewImporter(s.users, s.tasks, reports.ImporterConfig{
		AdminKey: cfg.AdminInviteToken,
		Workers:  cfg.ImportWorkers,
		PasswordHash: func() (string, error) {
			return utils.NewTempPasswordHash(cfg.BcryptCost)
		},
	})
	tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)

	return &app{
		cfg:     cfg,
		stores:  s,
		auth:    services.NewAuthService(s.users, tokens, cfg.AdminInviteToken, cfg.BcryptCost),
		users:   services.NewUserService(s.users, s.tasks, cfg.AdminInviteToken, cfg.BcryptCost),
		tasks:   services.NewTaskService(s.tasks, s.users),
		reports: services.NewReportService(importer, reports.NewExporter(s.users, s.tasks)),
	}
}

func (a *app) deps() handlers.Deps {
	return handlers.Deps{
		Auth:    a.auth,
		Users:   a.users,
		Tasks:   a.tasks,
		Reports: a.reports,
		Uploader: &handlers.Uploader{
			Dir:           a.cfg.UploadDir,
			MaxBytes:      a.cfg.MaxUploadBytes(),
			PublicBaseURL: a.cfg.PublicBaseURL,
		},
		AllowedOrigins: a.cfg.AllowedOrigins,
	}
}

// actor looks up the user an offline command runs as.
func (a *app) actor(ctx context.Context, email string) (*models.User, error) {
	if email == "" {
		return nil, fmt.Errorf("--as is required")
	}
	u, err := a.stores.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, fmt.Errorf("cannot act as %s: %w", email, err)
	}
	return u, nil
}
