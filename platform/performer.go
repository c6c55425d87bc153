package platform

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/google/shlex"
	"github.com/poiesic/launchpad/core"
)

// PluginExecutor runs plugin-defined actions.
type PluginExecutor interface {
	Execute(ctx context.Context, pluginID string, result core.SearchResult) error
}

// Performer carries out the action attached to a chosen search result.
type Performer struct {
	executor  PluginExecutor
	start     func(cmd *exec.Cmd) error
	writeClip func(text string) error
	opener    []string
	logger    *slog.Logger
}

// PerformerOption configures a Performer.
type PerformerOption func(*Performer)

// WithPluginExecutor routes plugin actions to executor.
func WithPluginExecutor(executor PluginExecutor) PerformerOption {
	return func(p *Performer) {
		p.executor = executor
	}
}

// WithCommandStarter replaces the function that starts processes.
// Default starts the command and reaps it in the background.
func WithCommandStarter(start func(cmd *exec.Cmd) error) PerformerOption {
	return func(p *Performer) {
		if start != nil {
			p.start = start
		}
	}
}

// WithClipboardWriter replaces the clipboard writer.
// Default is clipboard.WriteAll.
func WithClipboardWriter(write func(text string) error) PerformerOption {
	return func(p *Performer) {
		if write != nil {
			p.writeClip = write
		}
	}
}

// WithOpener sets the command used to open files and URLs. The target is
// appended as the last argument.
func WithOpener(command ...string) PerformerOption {
	return func(p *Performer) {
		if len(command) > 0 {
			p.opener = command
		}
	}
}

// WithPerformerLogger sets a custom logger.
// Default is slog.Default().
func WithPerformerLogger(logger *slog.Logger) PerformerOption {
	return func(p *Performer) {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
	}
}

// NewPerformer creates a performer using the platform's opener.
func NewPerformer(opts ...PerformerOption) *Performer {
	p := &Performer{
		start:     startDetached,
		writeClip: clipboard.WriteAll,
		opener:    openerCommand(runtime.GOOS),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Perform executes result's action. Launched processes are not tied to ctx
// and keep running after it ends.
func (p *Performer) Perform(ctx context.Context, result core.SearchResult) error {
	switch action := result.Action.(type) {
	case core.ExecuteApplication:
		return p.launchExecutable(action.Path, action.Args)
	case core.ExecuteCommand:
		return p.launchCommand(action.Command, action.Args)
	case core.OpenFile:
		return p.open(action.Path)
	case core.OpenURL:
		return p.open(action.URL)
	case core.CopyToClipboard:
		if err := p.writeClip(action.Text); err != nil {
			return fmt.Errorf("%w: %w", ErrClipboard, err)
		}
		p.logger.Debug("copied to clipboard", "length", len(action.Text))
		return nil
	case core.PluginAction:
		if p.executor == nil {
			return fmt.Errorf("%w: %s", ErrExecutorRequired, action.PluginID)
		}
		return p.executor.Execute(ctx, action.PluginID, result)
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedAction, result.Action)
	}
}

// launchExecutable starts path with args. The path is the executable itself
// and may contain spaces or backslashes.
func (p *Performer) launchExecutable(path string, args []string) error {
	if strings.TrimSpace(path) == "" {
		return ErrEmptyCommand
	}
	return p.launch(append([]string{path}, args...))
}

// launchCommand starts command. Without explicit args the command is a
// command line and is split with shell quoting rules.
func (p *Performer) launchCommand(command string, args []string) error {
	if len(args) > 0 {
		return p.launchExecutable(command, args)
	}
	argv, err := shlex.Split(command)
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrLaunchFailed, command, err)
	}
	if len(argv) == 0 || argv[0] == "" {
		return ErrEmptyCommand
	}
	return p.launch(argv)
}

func (p *Performer) launch(argv []string) error {
	cmd := exec.Command(argv[0], argv[1:]...)
	if err := p.start(cmd); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrLaunchFailed, argv[0], err)
	}
	p.logger.Info("launched", "command", argv[0], "args", len(argv)-1)
	return nil
}

func (p *Performer) open(target string) error {
	if target == "" {
		return ErrEmptyCommand
	}
	args := append(append([]string(nil), p.opener[1:]...), target)
	cmd := exec.Command(p.opener[0], args...)
	if err := p.start(cmd); err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrLaunchFailed, p.opener[0], target, err)
	}
	p.logger.Info("opened", "target", target)
	return nil
}

func openerCommand(goos string) []string {
	switch goos {
	case "darwin":
		return []string{"open"}
	case "windows":
		return []string{"cmd", "/C", "start", ""}
	default:
		return []string{"xdg-open"}
	}
}

func startDetached(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}
