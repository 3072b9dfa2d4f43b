package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"healthdigest/internal/format"
	"healthdigest/internal/health"
	"healthdigest/internal/model"
	"healthdigest/internal/snapshot"
)

type payloadArg struct {
	name string
	path string
}

func parsePayloadArgs(args []string) ([]payloadArg, error) {
	specs := make([]payloadArg, 0, len(args))
	for _, arg := range args {
		name, path, ok := strings.Cut(arg, "=")
		name, path = strings.TrimSpace(name), strings.TrimSpace(path)
		if !ok || name == "" || path == "" {
			return nil, fmt.Errorf("invalid payload argument %q: want NAME=PATH", arg)
		}
		specs = append(specs, payloadArg{name: name, path: path})
	}
	return specs, nil
}

// loadPayloads reads every payload file concurrently, keeping argument order.
func loadPayloads(specs []payloadArg) ([]health.Payload, error) {
	payloads := make([]health.Payload, len(specs))
	errs := make([]error, len(specs))

	var wg sync.WaitGroup
	for i, arg := range specs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			body, err := os.ReadFile(arg.path)
			if err != nil {
				errs[i] = fmt.Errorf("read %s payload: %w", arg.name, err)
				return
			}
			payloads[i] = health.Payload{Name: arg.name, Body: body}
		}()
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return payloads, nil
}

func newHealthCmd() *cobra.Command {
	var includeDatasets bool

	cmd := &cobra.Command{
		Use:   "health NAME=PATH...",
		Short: "Summarize wearable API payloads (e.g. Sleep=sleep.json Recovery=recovery.json)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			specs, err := parsePayloadArgs(args)
			if err != nil {
				return err
			}

			payloads, err := loadPayloads(specs)
			if err != nil {
				return err
			}
			datasets, err := health.BuildDatasets(payloads)
			if err != nil {
				return err
			}
			a.logger.Info("datasets built",
				"datasets", strings.Join(lo.Map(datasets, func(d model.Dataset, _ int) string { return d.Name }), ","),
				"payloads", len(payloads))

			report := health.NewReport(datasets, now(), includeDatasets)
			a.save(commandContext(cmd), snapshot.KindHealth, "files", report)

			return format.WriteReport(a.out, report, a.render)
		},
	}

	cmd.Flags().BoolVar(&includeDatasets, "datasets", false, "include normalized records in JSON output")
	return cmd
}
