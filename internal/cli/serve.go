package cli

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dapperline/deckhand/internal/api"
	"github.com/dapperline/deckhand/internal/config"
	"github.com/dapperline/deckhand/internal/relay"
	"github.com/spf13/cobra"
)

func ServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Compile the document and serve the console API",
		RunE:  runServe,
	}

	config.BindCommonFlags(cmd)

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cmd)
	if err != nil {
		return err
	}

	cat, err := compileCatalog(cmd, cfg)
	if err != nil {
		return err
	}

	rl := relay.New(relay.Config{
		AllowedHosts: cfg.Relay.AllowedHosts,
		Timeout:      cfg.Relay.Timeout,
	})

	router := api.NewRouter(cat, rl)

	slog.Info("console listening",
		"addr", cfg.Listen,
		"operations", len(cat.Operations),
		"title", cat.Title,
	)

	server := &http.Server{
		Addr:              cfg.Listen,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return server.ListenAndServe()
}
