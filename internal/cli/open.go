package cli

import (
	"bufio"
	stdcontext "context"
	"time"

	"github.com/spf13/cobra"

	"github.com/sideterm/sideterm/internal/logging"
)

func newOpenCmd(ctx *context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "open",
		Short: "Open a side terminal and copy stdin to it until EOF",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.loadConfig(cmd)
			if err != nil {
				return err
			}
			log := logging.New("open")

			parent, err := newParent(cfg, log)
			if err != nil {
				return err
			}

			ch := parent.Open(cmd.Context(), openSpec(cfg))
			defer ch.Close()

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for scanner.Scan() {
				ch.Send(append(scanner.Bytes(), '\n'))
			}
			if err := scanner.Err(); err != nil {
				return err
			}

			ch.Close()
			waitCtx, cancel := stdcontext.WithTimeout(stdcontext.Background(), 2*time.Second)
			defer cancel()
			return ch.Wait(waitCtx)
		},
	}
	return cmd
}
