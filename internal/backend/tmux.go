package backend

import (
	"bytes"
	"fmt"
	"strings"

	"os/exec"

	"github.com/skill-docket/skd/internal/model"
)

// TmuxBackend is the production SessionBackend, shelling out to the
// tmux(1) binary for every effect. It is not safe for concurrent use;
// the orchestrator is its sole caller.
type TmuxBackend struct {
	workDir string
}

// NewTmuxBackend returns a backend that runs tmux commands rooted at workDir.
func NewTmuxBackend(workDir string) *TmuxBackend {
	return &TmuxBackend{workDir: workDir}
}

func (b *TmuxBackend) run(args ...string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.Command("tmux", args...)
	cmd.Dir = b.workDir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		errMsg := strings.TrimSpace(stderr.String())
		if errMsg == "" {
			errMsg = err.Error()
		}
		return stdout.String(), fmt.Errorf("tmux %s failed: %s", strings.Join(args, " "), errMsg)
	}
	return stdout.String(), nil
}

func (b *TmuxBackend) ExecuteAction(action Action) error {
	switch action.Kind {
	case ActionCreateSession:
		_, err := b.run("new-session", "-d", "-s", action.Name, "-c", action.Cwd)
		return err
	case ActionKillSession:
		_, err := b.run("kill-session", "-t", action.Name)
		return err
	case ActionSplitPane:
		orientation := "-h"
		if action.Direction == model.DirectionVertical {
			orientation = "-v"
		}
		_, err := b.run("split-window", orientation, "-p", fmt.Sprintf("%d", action.Percent), "-t", action.Session)
		return err
	case ActionSendKeys:
		_, err := b.run("send-keys", "-t", action.Target, action.Keys, "Enter")
		return err
	case ActionPlaceAgent, ActionConnectSSH, ActionUpdateAssignment:
		// No tmux-level effect: these are recorded by the orchestrator's
		// own registries, not the terminal multiplexer.
		return nil
	default:
		return fmt.Errorf("tmux backend: unsupported action %q", action.Kind)
	}
}

func (b *TmuxBackend) SessionExists(name string) bool {
	_, err := b.run("has-session", "-t", name)
	return err == nil
}

func (b *TmuxBackend) ListSessions() []string {
	out, err := b.run("list-sessions", "-F", "#{session_name}")
	if err != nil {
		return nil
	}
	var sessions []string
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line != "" {
			sessions = append(sessions, line)
		}
	}
	return sessions
}

func (b *TmuxBackend) CapturePane(target string) (string, error) {
	return b.run("capture-pane", "-p", "-t", target)
}

var _ SessionBackend = (*TmuxBackend)(nil)
