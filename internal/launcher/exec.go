package launcher

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/sideterm/sideterm/internal/logging"
)

func init() {
	Register("exec", func() Launcher {
		return &execLauncher{log: logging.New("launcher")}
	})
}

type execLauncher struct {
	log zerolog.Logger
}

// NewExec constructs the os/exec launcher directly, bypassing the registry.
func NewExec() Launcher {
	return &execLauncher{log: logging.New("launcher")}
}

func (l *execLauncher) Launch(ctx context.Context, spec Spec) (Instance, error) {
	if len(spec.Command) == 0 {
		return nil, errors.New("launcher: spec requires a command")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name := filepath.Base(spec.Command[0])

	cmd := exec.Command(spec.Command[0], spec.Command[1:]...)
	if spec.Dir != "" {
		cmd.Dir = spec.Dir
	}

	env := os.Environ()
	for k, v := range spec.Env {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}
	cmd.Env = env

	if spec.Rendezvous != nil {
		cmd.ExtraFiles = []*os.File{spec.Rendezvous}
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("child %s stderr: %w", name, err)
	}

	configureCmdSysProcAttr(cmd)

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start child %s: %w", name, err)
	}

	// The child owns its inherited copy now. Closing ours is what turns a
	// child death into a visible pipe EOF on the parent side.
	if spec.Rendezvous != nil {
		_ = spec.Rendezvous.Close()
	}

	inst := &execInstance{
		name:     name,
		cmd:      cmd,
		waitDone: make(chan struct{}),
	}

	go inst.streamStderr(stderr, l.log)
	go func() {
		inst.waitErr = cmd.Wait()
		close(inst.waitDone)
	}()

	return inst, nil
}

type execInstance struct {
	name     string
	cmd      *exec.Cmd
	waitDone chan struct{}
	waitErr  error
}

func (p *execInstance) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-p.waitDone:
		return p.exitError()
	}
}

func (p *execInstance) exitError() error {
	if p.waitErr != nil {
		return fmt.Errorf("child %s exited: %w", p.name, p.waitErr)
	}
	return nil
}

// streamStderr relays the child's stderr into the parent's log so viewer
// diagnostics surface somewhere even when the viewer owns its own screen.
func (p *execInstance) streamStderr(r io.Reader, log zerolog.Logger) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		log.Debug().Str("child", p.name).Msg(scanner.Text())
	}
}
