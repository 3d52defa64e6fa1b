// Package cli implements quotectl, an offline client for the quote dataset.
// It selects and renders quotes the same way the HTTP service does.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/quote-service/internal/adapters/quotestore"
	"github.com/jsamuelsen/quote-service/internal/platform/config"
	"github.com/jsamuelsen/quote-service/internal/platform/logging"
)

const rootLongDesc string = `quotectl lists and prints quotes from the dataset served by quote-service.

Without --dataset the dataset bundled into the binary is used.
Configuration is read from configs/base.yaml, configs/<profile>.yaml
and APP_ environment variables, as for the service.`

// options holds flags shared by every subcommand.
type options struct {
	dataset  string
	profile  string
	logLevel string
}

// NewRootCmd builds the quotectl command tree.
func NewRootCmd(version string) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "quotectl",
		Short:         "Inspect and render quotes",
		Long:          rootLongDesc,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.dataset, "dataset", "", "Path to a JSON quote dataset (default: embedded)")
	cmd.PersistentFlags().StringVar(&opts.profile, "profile", os.Getenv("APP_ENVIRONMENT"), "Configuration profile")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level: trace, debug, info, warn, error")

	cmd.AddCommand(newListCmd(opts), newGetCmd(opts, version))

	return cmd
}

// Execute runs quotectl and returns the process exit code.
func Execute(version string) int {
	cmd := NewRootCmd(version)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
		return 1
	}

	return 0
}

// openStore loads the dataset named by --dataset, falling back to the
// configured path and then to the embedded dataset.
func (o *options) openStore(cfg *config.Config) (*quotestore.Store, error) {
	path := o.dataset
	if path == "" && cfg != nil {
		path = cfg.Quotes.Path
	}

	store, err := quotestore.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loading quotes: %w", err)
	}

	return store, nil
}

// loadConfig reads the layered configuration for the selected profile.
func (o *options) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.profile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	return cfg, nil
}

// logger writes human-readable records to the command's stderr.
func (o *options) logger(cmd *cobra.Command) *slog.Logger {
	return logging.NewWithWriter(&logging.Config{
		Level:   o.logLevel,
		Format:  "pretty",
		Service: "quotectl",
		Version: cmd.Root().Version,
	}, cmd.ErrOrStderr())
}
