package main

import (
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/jhoicas/invoicer/internal/application/billing"
	httpRouter "github.com/jhoicas/invoicer/internal/interfaces/http"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(svc *services) *cobra.Command {
	var swaggerFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web form and JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			repo, err := svc.repository(ctx)
			if err != nil {
				return err
			}

			app := httpRouter.NewApp(httpRouter.AppConfig{
				Name:        svc.cfg.App.Name,
				WebRoot:     svc.cfg.Paths.WebRoot,
				SwaggerFile: swaggerFile,
			}, httpRouter.RouterDeps{
				WebUC:   billing.NewWebUseCase(repo, svc.renderer(), svc.cfg.Invoice.NumberTemplate, svc.loc, time.Now, svc.log),
				QueryUC: billing.NewQueryUseCase(repo, svc.money),
				Log:     svc.log,
			})

			addr := svc.cfg.HTTP.Addr()
			errCh := make(chan error, 1)
			go func() {
				svc.log.Info().Str("addr", addr).Str("env", svc.cfg.App.Env).Msg("servidor HTTP escuchando")
				errCh <- app.Listen(addr)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			svc.log.Info().Msg("apagando servidor...")
			if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
				return err
			}
			return <-errCh
		},
	}

	cmd.Flags().StringVar(&swaggerFile, "swagger", filepath.Join("docs", "swagger.json"), "Swagger document served at /docs")
	return cmd
}
