// cmd/jankmon/commands.go
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/tamzrod/jank-monitor/internal/command"
)

// commander is the synchronous command boundary exposed by the event loop.
type commander interface {
	Dispatch(ctx context.Context, name string) (command.Result, error)
}

// runStartupCommands forwards the configured commands in order.
// A command that cannot be delivered aborts the sequence.
func runStartupCommands(ctx context.Context, c commander, names []string, logger *slog.Logger) error {
	for _, name := range names {
		res, err := c.Dispatch(ctx, name)
		if err != nil {
			return fmt.Errorf("startup command %q: %w", name, err)
		}
		logger.Info("startup command", "command", name, "result", res.String())
	}
	return nil
}

// serveCommands reads one command name per line from r and writes the result
// per line to w. Blank lines and lines starting with '#' are skipped.
// It returns when r is exhausted or a command cannot be delivered.
func serveCommands(ctx context.Context, c commander, r io.Reader, w io.Writer) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		name := strings.TrimSpace(sc.Text())
		if name == "" || strings.HasPrefix(name, "#") {
			continue
		}

		res, err := c.Dispatch(ctx, name)
		if err != nil {
			return fmt.Errorf("command %q: %w", name, err)
		}
		if _, err := fmt.Fprintln(w, res.String()); err != nil {
			return err
		}
	}
	return sc.Err()
}
