package main

import (
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/UtsavYadav1/CareerBERT/internal/bootstrap"
	"github.com/UtsavYadav1/CareerBERT/internal/server"
	"github.com/UtsavYadav1/CareerBERT/internal/shared/config"
	"github.com/UtsavYadav1/CareerBERT/internal/shared/storage/db"
	"github.com/UtsavYadav1/CareerBERT/internal/shared/telemetry"
)

func newServeCmd() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the results page preview over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if port != "" {
				cfg.Port = port
			}
			app, err := bootstrap.Build(cmd.Context(), cfg, db.DefaultServerOptions())
			if err != nil {
				return err
			}
			defer app.Close()

			if cfg.Env == "production" {
				gin.SetMode(gin.ReleaseMode)
			}
			engine := server.NewEngine(server.New(app.ServerDeps()))

			addr := server.Addr(cfg.Port)
			telemetry.Info("server.start", map[string]any{"addr": addr, "backend": cfg.BaseURL})
			return engine.Run(addr)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port (overrides PORT)")
	return cmd
}
