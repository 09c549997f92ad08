package cli

import (
	stdcontext "context"
	"fmt"
	"os/exec"
	"time"

	"github.com/spf13/cobra"

	"github.com/sideterm/sideterm/internal/logging"
	"github.com/sideterm/sideterm/internal/relay"
)

func newRunCmd(ctx *context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run -- command [args...]",
		Short: "Run a command and mirror its output in a side terminal",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.loadConfig(cmd)
			if err != nil {
				return err
			}
			log := logging.New("run")

			parent, err := newParent(cfg, log)
			if err != nil {
				return err
			}

			ch := parent.Open(cmd.Context(), openSpec(cfg))
			if !ch.Enabled() {
				fmt.Fprintln(cmd.ErrOrStderr(), "side terminal unavailable, output stays here")
			}
			defer ch.Close()

			command := exec.CommandContext(cmd.Context(), args[0], args[1:]...)
			stdout, err := command.StdoutPipe()
			if err != nil {
				return fmt.Errorf("command stdout: %w", err)
			}
			stderr, err := command.StderrPipe()
			if err != nil {
				return fmt.Errorf("command stderr: %w", err)
			}

			mux := relay.New(256)
			mux.Add("stdout", stdout)
			mux.Add("stderr", stderr)

			if err := command.Start(); err != nil {
				return fmt.Errorf("start %s: %w", args[0], err)
			}

			done := make(chan struct{})
			go func() {
				defer close(done)
				for line := range mux.Output() {
					ch.Send(append([]byte(line.Text), '\n'))
				}
			}()

			runErr := command.Wait()
			mux.Close()
			<-done

			ch.Close()
			waitCtx, cancel := stdcontext.WithTimeout(stdcontext.Background(), 2*time.Second)
			defer cancel()
			if err := ch.Wait(waitCtx); err != nil {
				log.Debug().Err(err).Msg("viewer did not exit cleanly")
			}

			return runErr
		},
	}
	return cmd
}
