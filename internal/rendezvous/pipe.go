package rendezvous

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// The cross-process form of the handshake is one decimal line written to a
// pipe the child inherits from its parent: the claimed write id, or 0 when
// no pair could be claimed. The pipe rides as the first extra file of the
// spawned process, the conventional descriptor 3.

// ChildPipeFD is the descriptor number where a spawned child finds its
// rendezvous pipe.
const ChildPipeFD = 3

// NoChannel is the on-wire value reporting a failed allocation.
const NoChannel = 0

// Publish writes the child's report to the rendezvous pipe.
func Publish(w io.Writer, r Result) error {
	v := NoChannel
	if r.OK {
		v = r.WriteID
	}
	if _, err := fmt.Fprintf(w, "%d\n", v); err != nil {
		return fmt.Errorf("publish rendezvous: %w", err)
	}
	return nil
}

// Listen reads one report from the pipe and publishes it to the cell. A
// closed pipe with no report (the child died before handshaking) and a
// malformed report both become the no-channel result, so the waiting parent
// always gets an answer.
func Listen(r io.Reader, cell *Cell) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && line == "" {
		cell.Publish(Result{})
		return
	}
	v, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || v <= NoChannel {
		cell.Publish(Result{})
		return
	}
	cell.Publish(Result{WriteID: v, OK: true})
}
