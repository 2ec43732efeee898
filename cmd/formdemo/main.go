// Command formdemo serves a signup form backed by the activeform engine.
package main

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/activeform/field"
	"github.com/dmitrymomot/activeform/form"
	"github.com/dmitrymomot/activeform/handler"
	"github.com/dmitrymomot/activeform/pkg/config"
	"github.com/dmitrymomot/activeform/pkg/httpserver"
	"github.com/dmitrymomot/activeform/pkg/logger"
	"github.com/dmitrymomot/activeform/pkg/metrics"
	"github.com/dmitrymomot/activeform/pkg/schema"
)

//go:embed signup.yaml
var signupSchema []byte

type appConfig struct {
	Env        string `env:"APP_ENV" envDefault:"development"`
	SchemaPath string `env:"FORM_SCHEMA"`

	HTTP    httpserver.Config
	Form    form.EnvConfig
	Store   handler.StoreConfig
	Metrics metrics.Config
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load[appConfig](config.WithEnvFiles(".env"))
	if err != nil {
		return err
	}

	log := logger.New(
		logger.WithEnvironment(cfg.Env, "formdemo"),
		logger.WithContextExtractor(func(ctx context.Context) (slog.Attr, bool) {
			if id := middleware.GetReqID(ctx); id != "" {
				return logger.RequestID(id), true
			}
			return slog.Attr{}, false
		}),
	)

	def, err := loadSchema(cfg.SchemaPath)
	if err != nil {
		return err
	}
	def = def.WithBase(cfg.Form.Config())

	collector := metrics.NewCollector(cfg.Metrics, nil)
	users := newAccounts(log, "admin", "root", "support")
	reg := field.Builtins()
	store := handler.NewStore(cfg.Store, log)

	forms := handler.New(
		handler.FromDefinition(def, reg,
			form.WithLogger(log),
			form.WithObserver(collector),
			form.WithRemoteValidator(users.validate),
			form.WithSubmitHandler(users.create),
		),
		handler.WithFieldRegistry(reg),
		handler.WithStore(store),
		handler.WithLogger(log),
	)

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Get("/healthz", httpserver.HealthHandler(log))
	r.Handle("/metrics", collector.Handler())
	r.Mount("/", forms)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go store.Run(ctx)

	srv := httpserver.New(cfg.HTTP, httpserver.WithLogger(log))
	return srv.Run(ctx, r)
}

// loadSchema reads path, or the embedded signup form when path is empty.
func loadSchema(path string) (schema.Definition, error) {
	if path != "" {
		return schema.Load(path)
	}
	return schema.Parse(bytes.NewReader(signupSchema))
}
