// Package main provides the healthdigest CLI, which turns wearable API
// payloads, usage digest emails and CSV exports into a small daily digest.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"healthdigest/internal/format"
	"healthdigest/internal/snapshot"
	"healthdigest/internal/view"
)

var version = "dev"

// now is replaced in tests.
var now = time.Now

var (
	formatFlag   string
	snapshotDB   string
	logLevel     string
	forceColor   bool
	forceNoColor bool
	noHeader     bool
	width        int
)

func newRootCmd() *cobra.Command {
	formatFlag, snapshotDB, logLevel = "", "", ""
	forceColor, forceNoColor, noHeader = false, false, false
	width = 0

	root := &cobra.Command{
		Use:           "healthdigest",
		Short:         "Build a daily digest from health payloads, phone usage exports and habit journals",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&formatFlag, "format", "", "output format: table, plain, json, jsonl or csv (env: HEALTHDIGEST_FORMAT, default: table)")
	flags.StringVar(&snapshotDB, "snapshot-db", "", "SQLite file for stored snapshots; empty disables them (env: HEALTHDIGEST_SNAPSHOT_DB)")
	flags.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error (env: HEALTHDIGEST_LOG_LEVEL, default: warn)")
	flags.BoolVar(&forceColor, "color", false, "force-enable ANSI colors even when stdout is not a TTY")
	flags.BoolVar(&forceNoColor, "no-color", false, "disable ANSI colors regardless of terminal detection")
	flags.BoolVar(&noHeader, "no-header", false, "omit the header row")
	flags.IntVar(&width, "width", 0, "table width in columns (default: terminal width)")

	root.AddCommand(newHealthCmd())
	root.AddCommand(newUsageCmd())
	root.AddCommand(newHabitsCmd())
	root.AddCommand(newSnapshotCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "healthdigest: %v\n", err)
		os.Exit(1)
	}
}

// app carries what every command needs once flags are resolved.
type app struct {
	logger *slog.Logger
	out    io.Writer
	render format.Options
	dbPath string
}

func newApp(cmd *cobra.Command) (*app, error) {
	if forceColor && forceNoColor {
		return nil, errors.New("--color and --no-color cannot be used together")
	}

	level, err := parseLogLevel(firstNonEmpty(logLevel, os.Getenv("HEALTHDIGEST_LOG_LEVEL"), "warn"))
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	out := cmd.OutOrStdout()
	render := format.Options{
		Format: strings.ToLower(firstNonEmpty(formatFlag, os.Getenv("HEALTHDIGEST_FORMAT"), format.FormatTable)),
		Header: !noHeader,
		Color:  view.ResolveColor(view.ColorOptions{ForceColor: forceColor, ForceNoColor: forceNoColor, Out: out}),
	}
	if width > 0 || view.IsTerminal(out) {
		render.Width = view.DetermineWidth(out, width)
	}

	return &app{
		logger: logger,
		out:    out,
		render: render,
		dbPath: firstNonEmpty(snapshotDB, os.Getenv("HEALTHDIGEST_SNAPSHOT_DB")),
	}, nil
}

// openSnapshots opens the snapshot store, or returns nil when snapshots are disabled.
func (a *app) openSnapshots(ctx context.Context) (*snapshot.Store, error) {
	if a.dbPath == "" {
		return nil, nil
	}
	s, err := snapshot.Open(ctx, a.dbPath, snapshot.WithLogger(a.logger), snapshot.WithClock(now))
	if err != nil {
		return nil, fmt.Errorf("open snapshots: %w", err)
	}
	return s, nil
}

// save stores payload when snapshots are enabled. Failures are logged, not returned.
func (a *app) save(ctx context.Context, kind snapshot.Kind, source string, payload any) {
	store, err := a.openSnapshots(ctx)
	if err != nil {
		a.logger.Warn("snapshot not saved", "kind", kind, "error", err)
		return
	}
	if store == nil {
		return
	}
	defer store.Close()
	if _, err := store.Save(ctx, kind, source, payload); err != nil {
		a.logger.Warn("snapshot not saved", "kind", kind, "error", err)
	}
}

func (a *app) warnAll(msg string, warnings []error) {
	for _, warn := range warnings {
		a.logger.Warn(msg, "error", warn)
	}
}

func parseLogLevel(value string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(value)); err != nil {
		return level, fmt.Errorf("invalid log level %q: %w", value, err)
	}
	return level, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
