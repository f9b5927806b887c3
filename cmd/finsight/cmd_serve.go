package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/finsight-ai/finsight/internal/answer"
	"github.com/finsight-ai/finsight/internal/catalog"
	"github.com/finsight-ai/finsight/internal/router"
	"github.com/finsight-ai/finsight/internal/storage"
	"github.com/finsight-ai/finsight/internal/webserver"
)

func newServeCommand() *cobra.Command {
	var (
		port        int
		corsOrigins []string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard HTTP API",
		Long: `Start the dashboard HTTP API.

Endpoints:
  GET  /api/health    Health check
  GET  /api/tools     Tool catalog
  GET  /api/snapshot  Full market snapshot for one symbol
  POST /api/ask       Route a question, fetch data, answer it
  GET  /api/summary   Cached LLM-written company summary
  GET  /api/runs      Evaluation run history`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			client, err := newLLMClient(cfg)
			if err != nil {
				return err
			}
			market, err := newMarketClient(cfg)
			if err != nil {
				return err
			}
			cat, err := catalog.Load()
			if err != nil {
				return fmt.Errorf("loading tool catalog: %w", err)
			}

			store, err := storage.Open(cfg.Storage.Path, false)
			if err != nil {
				return fmt.Errorf("opening run history: %w", err)
			}
			defer store.Close() //nolint:errcheck

			summarizer := webserver.NewSummarizer(
				client, cfg.LLM.AnswerModel, market, newCacheStore(cfg),
				time.Duration(cfg.Cache.TTLSecs)*time.Second)

			srv := webserver.New(cat,
				router.New(client, cat, cfg.LLM.RouterModel),
				answer.New(client, cfg.LLM.AnswerModel),
				market,
				webserver.WithStore(store),
				webserver.WithSummarizer(summarizer),
				webserver.WithDefaultSymbol(cfg.Eval.Symbol),
			)

			if port == 0 {
				port = cfg.Server.Port
			}
			addr := fmt.Sprintf(":%d", port)
			if len(corsOrigins) > 0 {
				// CORS only matters when a frontend runs on another origin.
				handler := webserver.CORSMiddleware(srv.Routes(), corsOrigins...)
				return listenWith(addr, handler)
			}
			return srv.ListenAndServe(addr)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default: from config)")
	cmd.Flags().StringArrayVar(&corsOrigins, "cors-origin", nil, "Allowed CORS origin (can be repeated)")

	return cmd
}

func listenWith(addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}
