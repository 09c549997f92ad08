package cli

import (
	stdcontext "context"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sideterm/sideterm/internal/device"
	"github.com/sideterm/sideterm/internal/logging"
	"github.com/sideterm/sideterm/internal/rendezvous"
	"github.com/sideterm/sideterm/internal/session"
	"github.com/sideterm/sideterm/internal/viewer"
)

// newViewerCmd is the child entry point. The parent spawns it with the
// rendezvous pipe on descriptor 3; it is hidden because invoking it by hand
// leaves it waiting on a pipe nobody holds.
func newViewerCmd() *cobra.Command {
	var (
		deviceDir  string
		rangeStart int
		pairs      int
		x, y       int
		rows, cols int
	)

	cmd := &cobra.Command{
		Use:    "viewer",
		Short:  "Internal: display end of a side terminal channel",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logging.New("viewer")

			devices, err := device.NewFIFORegistry(deviceDir)
			if err != nil {
				return err
			}

			pipe := os.NewFile(uintptr(rendezvous.ChildPipeFD), "rendezvous")
			publish := func(r rendezvous.Result) error {
				defer pipe.Close()
				return rendezvous.Publish(pipe, r)
			}

			ctx, cancel := stdcontext.WithCancel(cmd.Context())
			defer cancel()

			var sink io.Writer = os.Stdout
			if term.IsTerminal(int(os.Stdout.Fd())) {
				pane := viewer.New(x, y, rows, cols)
				sink = pane

				go func() {
					if err := pane.Run(); err != nil {
						log.Error().Err(err).Msg("viewer pane failed")
					}
				}()
				defer pane.Stop()

				// A local quit (q / Ctrl-C in the pane) ends the session
				// even though the parent still holds the channel.
				go func() {
					<-pane.Done()
					cancel()
				}()
			}

			child, err := session.NewChild(session.ChildConfig{
				Devices:    devices,
				RangeStart: rangeStart,
				PairCount:  pairs,
				Publish:    publish,
				Sink:       sink,
				Log:        log,
			})
			if err != nil {
				return err
			}
			return child.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&deviceDir, "device-dir", "", "Directory holding shared device nodes")
	cmd.Flags().IntVar(&rangeStart, "range-start", 224, "First read id probed during allocation")
	cmd.Flags().IntVar(&pairs, "pairs", device.DefaultPairCount, "Number of pairs in the allocation range")
	cmd.Flags().IntVar(&x, "x", 0, "Pane column position")
	cmd.Flags().IntVar(&y, "y", 0, "Pane row position")
	cmd.Flags().IntVar(&rows, "rows", 24, "Pane height")
	cmd.Flags().IntVar(&cols, "cols", 80, "Pane width")
	_ = cmd.MarkFlagRequired("device-dir")

	return cmd
}
