package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/dapperline/deckhand/internal/catalog"
	"github.com/dapperline/deckhand/internal/config"
	"github.com/dapperline/deckhand/internal/loader"
	"github.com/spf13/cobra"
)

func CompileCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile an OpenAPI document into a console catalog",
		RunE:  runCompile,
	}

	config.BindCommonFlags(cmd)

	return cmd
}

func runCompile(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cmd)
	if err != nil {
		return err
	}

	cat, err := compileCatalog(cmd, cfg)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(cat, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding catalog: %w", err)
	}

	fmt.Fprintln(os.Stdout, string(out))
	return nil
}

// compileCatalog runs the whole pipeline: load, transform, compile. The
// compiler either succeeds wholly or the load error surfaces here; there is
// no partial catalog.
func compileCatalog(cmd *cobra.Command, cfg *config.Config) (*catalog.Catalog, error) {
	var result *loader.Result
	var err error

	if strings.HasPrefix(cfg.Spec, "http://") || strings.HasPrefix(cfg.Spec, "https://") {
		result, err = loader.Fetch(cmd.Context(), cfg.Spec, cfg.Relay.Timeout)
	} else {
		result, err = loader.LoadFile(cfg.Spec)
	}
	if err != nil {
		return nil, err
	}

	for _, warning := range result.Warnings {
		slog.Warn("document validation", "message", warning)
	}

	spec, err := loader.Transform(result)
	if err != nil {
		return nil, err
	}

	return catalog.Compile(spec, catalog.WithHiddenTags(cfg.HiddenTags)), nil
}
