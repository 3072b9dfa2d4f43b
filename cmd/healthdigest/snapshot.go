package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"healthdigest/internal/format"
	"healthdigest/internal/snapshot"
)

var snapshotKinds = []snapshot.Kind{snapshot.KindHealth, snapshot.KindPhoneUsage, snapshot.KindHabits}

func parseKind(arg string) (snapshot.Kind, error) {
	for _, kind := range snapshotKinds {
		if string(kind) == arg {
			return kind, nil
		}
	}
	return "", fmt.Errorf("unknown snapshot kind %q (want health, phone_usage or habits)", arg)
}

func (a *app) requireSnapshots(cmd *cobra.Command) (*snapshot.Store, error) {
	s, err := a.openSnapshots(commandContext(cmd))
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, errors.New("--snapshot-db is required (env: HEALTHDIGEST_SNAPSHOT_DB)")
	}
	return s, nil
}

func newSnapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Inspect stored snapshots",
	}
	cmd.AddCommand(newSnapshotShowCmd())
	cmd.AddCommand(newSnapshotPruneCmd())
	return cmd
}

func newSnapshotShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show KIND",
		Short: "Print the latest snapshot of KIND (health, phone_usage or habits)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}
			s, err := a.requireSnapshots(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			snap, err := s.Latest(commandContext(cmd), kind)
			if err != nil {
				return err
			}
			return format.WriteSnapshot(a.out, snap, a.render)
		},
	}
}

func newSnapshotPruneCmd() *cobra.Command {
	var keep int

	cmd := &cobra.Command{
		Use:   "prune KIND",
		Short: "Delete all but the newest snapshots of KIND",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}
			s, err := a.requireSnapshots(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			removed, err := s.Prune(commandContext(cmd), kind, keep)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(a.out, "removed %d %s snapshot(s)\n", removed, kind)
			return err
		},
	}

	cmd.Flags().IntVar(&keep, "keep", 1, "number of snapshots to keep")
	return cmd
}
