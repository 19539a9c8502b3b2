package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/invoicer/internal/domain/repository"
	"github.com/jhoicas/invoicer/internal/infrastructure/contracts"
	"github.com/jhoicas/invoicer/internal/infrastructure/pdf"
	"github.com/jhoicas/invoicer/internal/infrastructure/postgres"
	"github.com/jhoicas/invoicer/internal/infrastructure/sqlite"
	"github.com/jhoicas/invoicer/internal/infrastructure/toggl"
	"github.com/jhoicas/invoicer/pkg/config"
	"github.com/jhoicas/invoicer/pkg/logger"
	"github.com/jhoicas/invoicer/pkg/money"
)

// services dependencias compartidas por los subcomandos.
type services struct {
	cfg   *config.Config
	log   *logger.Logger
	loc   *time.Location
	money *money.Formatter

	closers []func()
}

func (svc *services) init() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("cargar configuración: %w", err)
	}
	svc.cfg = cfg
	svc.log = logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	svc.loc, err = cfg.Invoice.Location()
	if err != nil {
		return err
	}
	svc.money, err = money.New(cfg.Invoice.Currency, cfg.Invoice.Locale)
	if err != nil {
		return err
	}
	return nil
}

// repository abre el almacenamiento configurado una vez por proceso; se cierra en close().
func (svc *services) repository(ctx context.Context) (repository.InvoiceRepository, error) {
	switch svc.cfg.DB.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, svc.cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		svc.closers = append(svc.closers, pool.Close)
		return postgres.NewInvoiceRepository(pool), nil
	default:
		repo, err := sqlite.Open(ctx, svc.cfg.DB.SQLitePath)
		if err != nil {
			return nil, err
		}
		svc.closers = append(svc.closers, func() {
			if err := repo.Close(); err != nil {
				svc.log.Warn().Err(err).Msg("cerrar sqlite")
			}
		})
		return repo, nil
	}
}

func (svc *services) contracts(override string) *contracts.Loader {
	path := svc.cfg.Paths.Contracts
	if override != "" {
		path = override
	}
	return contracts.NewLoader(path)
}

func (svc *services) toggl() *toggl.Client {
	return toggl.NewClient(svc.cfg.Toggl.BaseURL, svc.cfg.Toggl.APIToken, svc.cfg.Toggl.Timeout, svc.log)
}

func (svc *services) renderer() *pdf.Renderer {
	return pdf.NewRenderer(svc.money)
}

func (svc *services) outputDir(override string) string {
	if override != "" {
		return override
	}
	return svc.cfg.Paths.OutputDir
}

func (svc *services) close() {
	for i := len(svc.closers) - 1; i >= 0; i-- {
		svc.closers[i]()
	}
	svc.closers = nil
}
