package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"healthdigest/internal/format"
	"healthdigest/internal/model"
	"healthdigest/internal/snapshot"
	"healthdigest/internal/store"
	"healthdigest/internal/usage"
)

func newUsageCmd() *cobra.Command {
	var clockTimes bool

	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Parse phone usage digests and CSV exports",
		Long:  "Parse phone usage digests and CSV exports.\n\nRegistered sources: " + registeredSources(),
	}
	cmd.PersistentFlags().BoolVar(&clockTimes, "clock-times", true, "accept H:MM[:SS] values as usage times")

	parserOptions := func() model.ParserOptions {
		return model.ParserOptions{ClockTimes: clockTimes}
	}

	cmd.AddCommand(newUsageEmailCmd(parserOptions))
	cmd.AddCommand(newUsageCSVCmd(parserOptions))
	cmd.AddCommand(newUsageLatestCmd(parserOptions))
	cmd.AddCommand(newUsageExportsCmd())
	return cmd
}

func registeredSources() string {
	return strings.Join(lo.Map(model.RegisteredSources(), func(source model.UsageSource, _ int) string {
		return string(source)
	}), ", ")
}

func defaultExportsDir() string {
	return os.Getenv("HEALTHDIGEST_EXPORTS_DIR")
}

// parseUsage runs the registered parser for source over raw. A digest with
// nothing recognisable yields empty usage rather than an error.
func parseUsage(a *app, source model.UsageSource, opts model.ParserOptions, raw, name string) (model.ParsedUsage, error) {
	parser, err := model.NewUsageParser(source, opts)
	if err != nil {
		return model.ParsedUsage{}, fmt.Errorf("create parser: %w", err)
	}
	parsed, err := parser.Parse(raw)
	if err != nil {
		return model.ParsedUsage{}, fmt.Errorf("parse %s: %w", name, err)
	}
	if parsed == nil {
		a.logger.Warn("no usage found", "source", source, "file", name)
		return model.ParsedUsage{TopApps: []model.AppUsageEntry{}}, nil
	}
	a.logger.Debug("usage parsed", "source", source, "file", name, "daily", parsed.Daily != nil, "apps", len(parsed.TopApps))
	return *parsed, nil
}

func newUsageEmailCmd(parserOptions func() model.ParserOptions) *cobra.Command {
	var base64URL bool

	cmd := &cobra.Command{
		Use:   "email FILE",
		Short: "Parse a usage digest email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read email: %w", err)
			}
			raw := string(data)
			if base64URL {
				if raw, err = usage.DecodeBase64URL(raw); err != nil {
					return err
				}
			}

			parsed, err := parseUsage(a, model.SourceEmail, parserOptions(), raw, args[0])
			if err != nil {
				return err
			}
			snap := model.UsageSnapshot{
				ParsedUsage:     parsed,
				Source:          model.SourceEmail,
				File:            filepath.Base(args[0]),
				SourceMessageID: usage.MessageID(raw),
				UpdatedAt:       now(),
			}
			a.save(commandContext(cmd), snapshot.KindPhoneUsage, string(snap.Source), snap)
			return format.WriteUsageSnapshot(a.out, snap, a.render)
		},
	}

	cmd.Flags().BoolVar(&base64URL, "base64url", false, "the file holds the mail API's base64url encoded raw message")
	return cmd
}

func newUsageCSVCmd(parserOptions func() model.ParserOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "csv FILE",
		Short: "Parse a usage CSV export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read csv: %w", err)
			}

			parsed, err := parseUsage(a, model.SourceCSV, parserOptions(), string(data), args[0])
			if err != nil {
				return err
			}
			snap := model.UsageSnapshot{
				ParsedUsage: parsed,
				Source:      model.SourceCSV,
				File:        filepath.Base(args[0]),
				Path:        filepath.Dir(args[0]),
				UpdatedAt:   now(),
			}
			a.save(commandContext(cmd), snapshot.KindPhoneUsage, string(snap.Source), snap)
			return format.WriteUsageSnapshot(a.out, snap, a.render)
		},
	}
}

func newUsageLatestCmd(parserOptions func() model.ParserOptions) *cobra.Command {
	var (
		exportsDir string
		refresh    bool
	)

	cmd := &cobra.Command{
		Use:   "latest",
		Short: "Parse the newest usage export, reusing a stored snapshot while it is current",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			if exportsDir == "" {
				exportsDir = defaultExportsDir()
			}
			if exportsDir == "" {
				return errors.New("--exports-dir is required (env: HEALTHDIGEST_EXPORTS_DIR)")
			}
			ctx := commandContext(cmd)

			if !refresh {
				if snap, ok := a.freshUsage(cmd); ok {
					a.logger.Info("using stored usage snapshot", "directory", snap.Directory, "file", snap.File)
					return format.WriteUsageSnapshot(a.out, snap, a.render)
				}
			}

			export, warnings, err := store.LatestUsageExport(exportsDir)
			a.warnAll("export scan", warnings)
			if err != nil {
				return err
			}
			a.logger.Info("reading usage export", "directory", export.Directory, "file", export.File)

			parsed, err := parseUsage(a, model.SourceCSV, parserOptions(), export.Text, export.File)
			if err != nil {
				return err
			}
			snap := model.UsageSnapshot{
				ParsedUsage: parsed,
				Source:      model.SourceCSV,
				Directory:   export.Directory,
				File:        export.File,
				Path:        export.Path,
				UpdatedAt:   now(),
			}
			a.save(ctx, snapshot.KindPhoneUsage, string(snap.Source), snap)
			return format.WriteUsageSnapshot(a.out, snap, a.render)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&exportsDir, "exports-dir", "", "root of the dated export directories (env: HEALTHDIGEST_EXPORTS_DIR)")
	flags.BoolVar(&refresh, "refresh", false, "ignore a current stored snapshot and reparse the export")
	return cmd
}

// freshUsage returns the stored usage snapshot when it still describes
// yesterday and came from today's export.
func (a *app) freshUsage(cmd *cobra.Command) (model.UsageSnapshot, bool) {
	ctx := commandContext(cmd)
	s, err := a.openSnapshots(ctx)
	if err != nil {
		a.logger.Warn("snapshot lookup failed", "error", err)
		return model.UsageSnapshot{}, false
	}
	if s == nil {
		return model.UsageSnapshot{}, false
	}
	defer s.Close()

	snap, err := s.LatestUsage(ctx)
	if err != nil {
		if !errors.Is(err, snapshot.ErrNotFound) {
			a.logger.Warn("snapshot lookup failed", "error", err)
		}
		return model.UsageSnapshot{}, false
	}
	return snap, usage.IsFreshExport(snap, now())
}

func newUsageExportsCmd() *cobra.Command {
	var (
		exportsDir string
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "exports",
		Short: "List usage export files, newest directory first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			if exportsDir == "" {
				exportsDir = defaultExportsDir()
			}
			result, err := store.ListExports(store.ListOptions{Root: exportsDir, Limit: limit})
			if err != nil {
				return err
			}
			a.warnAll("export scan", result.Warnings)
			return format.WriteExports(a.out, result.Files, a.render)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&exportsDir, "exports-dir", "", "root of the dated export directories (env: HEALTHDIGEST_EXPORTS_DIR)")
	flags.IntVar(&limit, "limit", 0, "limit number of files listed (0 means no limit)")
	return cmd
}
