package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/amanthanvi/assetvault/internal/app"
	"github.com/amanthanvi/assetvault/internal/audit"
	"github.com/amanthanvi/assetvault/internal/config"
	logpkg "github.com/amanthanvi/assetvault/internal/log"
	"github.com/amanthanvi/assetvault/internal/session"
	"github.com/amanthanvi/assetvault/internal/storage"
)

var loadConfigFn = config.Load

type GlobalOptions struct {
	ConfigPath string
	StorePath  string
	JSON       bool
}

type commandDeps struct {
	out     io.Writer
	globals *GlobalOptions
}

// runtime wires one command invocation: config, logger, open store, session
// hydrated from disk, and the services on top. The session file is written
// back after the command so login state survives across invocations.
type runtime struct {
	cfg      config.Config
	home     string
	logger   *slog.Logger
	store    *storage.Store
	sessions *session.Manager
	audit    *audit.Service
	auth     *app.AuthService
	assets   *app.AssetService
}

func withRuntime(cmdCtx context.Context, deps commandDeps, fn func(context.Context, *runtime) error) error {
	env := map[string]string{}
	loadOpts := config.LoadOptions{Env: env}
	if deps.globals != nil {
		if configPath := strings.TrimSpace(deps.globals.ConfigPath); configPath != "" {
			loadOpts.ConfigPath = configPath
		}
		if storePath := strings.TrimSpace(deps.globals.StorePath); storePath != "" {
			env["ASSETVAULT_STORE_PATH"] = storePath
		}
	}

	cfg, err := loadConfigFn(loadOpts)
	if err != nil {
		return mapCommandError(fmt.Errorf("load config: %w", err))
	}

	home, err := config.Home(env)
	if err != nil {
		return mapCommandError(err)
	}

	logger, logCloser, err := logpkg.New(cfg.Logging, os.Stderr)
	if err != nil {
		return mapCommandError(fmt.Errorf("init logging: %w", err))
	}
	if logCloser != nil {
		defer func() { _ = logCloser.Close() }()
	}

	store, err := storage.Open(cfg.Store.Path)
	if err != nil {
		logger.Error("cannot access local data", slog.String("path", cfg.Store.Path), slog.Any("error", err))
		return mapCommandError(fmt.Errorf("cannot access local data: %w", err))
	}
	defer func() { _ = store.Close() }()

	sessions := session.NewManager()
	if restored, ok, err := loadSessionFile(home); err != nil {
		return mapCommandError(err)
	} else if ok {
		sessions.Restore(restored)
	}

	auditSvc, err := audit.NewService(store.Audit)
	if err != nil {
		return mapCommandError(err)
	}

	rt := &runtime{
		cfg:      cfg,
		home:     home,
		logger:   logger,
		store:    store,
		sessions: sessions,
		audit:    auditSvc,
		auth:     app.NewAuthService(store.Users, sessions, auditSvc),
		assets:   app.NewAssetService(store.Assets, sessions, auditSvc),
	}

	runErr := fn(cmdCtx, rt)

	// Persist the post-command session state regardless of the outcome so a
	// failed asset command cannot silently log the user out or back in.
	if current, ok := sessions.Current(); ok {
		if err := saveSessionFile(home, current); err != nil {
			logger.Error("persist session", slog.Any("error", err))
			if runErr == nil {
				runErr = err
			}
		}
	} else {
		if err := clearSessionFile(home); err != nil {
			logger.Error("clear session", slog.Any("error", err))
			if runErr == nil {
				runErr = err
			}
		}
	}

	return mapCommandError(runErr)
}

func printJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

func formatAssetLine(asset storage.Asset) string {
	return fmt.Sprintf("#%d %s [%s] %s qty=%d cond=%q purchased=%s",
		asset.ID, asset.Name, asset.Category, asset.Location, asset.Quantity, asset.Condition, asset.PurchaseDate)
}
