package cli

import (
	stdcontext "context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sideterm/sideterm/internal/config"
)

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "sideterm",
		Short: "Route command output to a secondary terminal viewer",
	}

	ctx := &context{}
	root.PersistentFlags().
		StringVarP(&ctx.configFile, "config", "c", "sideterm.yaml", "Path to settings file")

	root.AddCommand(newRunCmd(ctx))
	root.AddCommand(newOpenCmd(ctx))
	root.AddCommand(newViewerCmd())

	root.SilenceUsage = true
	root.SilenceErrors = true

	return root
}

// Execute runs the CLI entrypoint.
func Execute() {
	ctx, stop := signal.NotifyContext(stdcontext.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCmd()
	root.SetContext(ctx)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type context struct {
	configFile string
}

// loadConfig reads the settings file named by --config. A missing file with
// the default flag value is not an error; the built-in defaults apply.
func (c *context) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(c.configFile)
	if err == nil {
		return cfg, nil
	}
	if errors.Is(err, os.ErrNotExist) && !cmd.Flags().Changed("config") {
		return config.Default(), nil
	}
	return nil, err
}
