package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/docview"
	"github.com/aretw0/docview/pkg/adapters/lifecycle"
	"github.com/aretw0/docview/pkg/query"
)

var (
	watchJSON       bool
	watchPattern    string
	watchCollection string
	watchOrderBy    []string
	watchMetadata   bool
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Stream snapshots of a directory of YAML/JSON documents",
	Long: `Treats a directory as a collection (one document per file, named after the
file stem) and prints a snapshot every time its files change.

Order-by clauses are given as field[:asc|desc] and may be repeated.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dir := cfg.Watch.Dir
		if len(args) == 1 {
			dir = args[0]
		}

		opts, err := watchOptions(cmd)
		if err != nil {
			fatal("Invalid flags", err)
		}

		src, err := docview.Open(dir, opts...)
		if err != nil {
			fatal("Failed to open source", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		snaps, err := src.Watch(ctx)
		if err != nil {
			fatal("Failed to start watcher", err)
		}
		slog.Info("watching", "path", src.Path(), "query", src.Query().String(), "source", src.ID())

		events := lifecycle.NewSource(snaps, func(err error) {
			slog.Error("event source failed", "error", err)
		})
		if err := events.Start(ctx); err != nil {
			fatal("Failed to start event source", err)
		}
		for e := range events.Events() {
			se, ok := e.(lifecycle.SnapshotEvent)
			if !ok {
				continue
			}
			slog.Debug("snapshot", "event", se.String())
			if err := printSnapshot(os.Stdout, se.Snapshot, watchJSON); err != nil {
				fatal("Failed to write output", err)
			}
		}
	},
}

// watchOptions merges the config file with the command flags; flags win.
func watchOptions(cmd *cobra.Command) ([]docview.Option, error) {
	wc := cfg.Watch
	if cmd.Flags().Changed("pattern") {
		wc.Pattern = watchPattern
	}
	if cmd.Flags().Changed("collection") {
		wc.Collection = watchCollection
	}
	if cmd.Flags().Changed("metadata") {
		wc.IncludeMetadataChanges = watchMetadata
	}
	if cmd.Flags().Changed("order-by") {
		wc.OrderBy = nil
		for _, raw := range watchOrderBy {
			ob, err := parseOrderBy(raw)
			if err != nil {
				return nil, err
			}
			wc.OrderBy = append(wc.OrderBy, ob)
		}
	}

	opts := []docview.Option{
		docview.WithLogger(slog.Default()),
		docview.WithPattern(wc.Pattern),
		docview.WithDebounce(wc.Debounce.Duration),
		docview.WithIncludeMetadataChanges(wc.IncludeMetadataChanges),
		docview.WithErrorHandler(func(err error) {
			slog.Warn("source error", "error", err)
		}),
	}
	if wc.Collection != "" {
		q, err := docview.ParseQuery(wc.Collection)
		if err != nil {
			return nil, err
		}
		opts = append(opts, docview.WithQuery(q))
	}
	for _, ob := range wc.OrderBy {
		dir, err := query.ParseDirection(string(ob.Direction))
		if err != nil {
			return nil, err
		}
		opts = append(opts, docview.WithOrderBy(ob.Field, dir))
	}
	return opts, nil
}

// parseOrderBy reads "field" or "field:direction".
func parseOrderBy(raw string) (query.OrderBy, error) {
	field, dir, _ := strings.Cut(raw, ":")
	if field == "" {
		return query.OrderBy{}, fmt.Errorf("order-by %q: field is required", raw)
	}
	d, err := query.ParseDirection(dir)
	if err != nil {
		return query.OrderBy{}, fmt.Errorf("order-by %q: %w", raw, err)
	}
	return query.OrderBy{Field: field, Direction: d}, nil
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().BoolVar(&watchJSON, "json", false, "Output one JSON object per snapshot")
	watchCmd.Flags().StringVar(&watchPattern, "pattern", "", "File name pattern (default \"*.{yaml,yml,json}\")")
	watchCmd.Flags().StringVar(&watchCollection, "collection", "", "Collection path (default: directory name)")
	watchCmd.Flags().StringArrayVar(&watchOrderBy, "order-by", nil, "Order-by clause field[:asc|desc] (repeatable)")
	watchCmd.Flags().BoolVar(&watchMetadata, "metadata", false, "Include metadata-only snapshots")
}
