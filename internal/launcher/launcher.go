// Package launcher opens applications and files through the host OS.
package launcher

import (
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Launcher starts a target path or command. Open reports success or
// failure; it never blocks on the launched process.
type Launcher interface {
	Open(target string) bool
}

// Exec launches through the platform opener, falling back to running the
// target as a plain command when it is not an existing path.
type Exec struct {
	logger *slog.Logger
	opener []string
}

// New selects the opener for the current platform once, at startup.
func New(logger *slog.Logger) *Exec {
	if logger == nil {
		logger = slog.Default()
	}

	var opener []string
	switch runtime.GOOS {
	case "darwin":
		opener = []string{"open"}
	case "windows":
		opener = []string{"cmd", "/c", "start", ""}
	default:
		opener = []string{"xdg-open"}
	}
	return &Exec{logger: logger, opener: opener}
}

func (l *Exec) Open(target string) bool {
	target = strings.TrimSpace(target)
	if target == "" {
		return false
	}

	var argv []string
	if _, err := os.Stat(target); err == nil {
		argv = append(append([]string{}, l.opener...), target)
	} else {
		// Not a path on disk: treat as a command line.
		argv = strings.Fields(target)
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	if err := cmd.Start(); err != nil {
		l.logger.Warn("launch failed", "target", target, "err", err)
		return false
	}
	// Reap in the background; the caller never waits.
	go cmd.Wait()

	l.logger.Info("launched", "target", target)
	return true
}
