package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/ncenter/internal/core"
	"github.com/jmylchreest/ncenter/internal/daemon"
	"github.com/jmylchreest/ncenter/internal/store"
)

var historyOpts struct {
	file     string
	since    string
	app      string
	category string
	urgency  string
	limit    int
	json     bool
}

var pruneOpts struct {
	keep   int
	dryRun bool
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List notification history",
	Long: `List notifications recorded by ncenterd, newest first.

Examples:
  # Notifications from the last day
  ncenter history --since 1d

  # The 20 most recent critical notifications as JSON
  ncenter history --urgency critical --limit 20 --json`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove old notifications from history",
	Long: `Keep only the most recent notifications in the history log.

The daemon must not be running while the log is rewritten.`,
	Args: cobra.NoArgs,
	RunE: runHistoryPrune,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyPruneCmd)

	historyCmd.PersistentFlags().StringVar(&historyOpts.file, "history-file", "",
		"Path to history file (default: from config)")
	historyCmd.Flags().StringVar(&historyOpts.since, "since", "",
		"Only show notifications from the last duration (e.g., 48h, 7d, 1w)")
	historyCmd.Flags().StringVar(&historyOpts.app, "app", "",
		"Only show notifications from this application")
	historyCmd.Flags().StringVar(&historyOpts.category, "category", "",
		"Only show notifications of this category or class (e.g., email)")
	historyCmd.Flags().StringVar(&historyOpts.urgency, "urgency", "",
		"Only show notifications of this urgency (low, normal, critical)")
	historyCmd.Flags().IntVarP(&historyOpts.limit, "limit", "n", 50,
		"Maximum number of notifications (0=unlimited)")
	historyCmd.Flags().BoolVar(&historyOpts.json, "json", false,
		"Output records as JSON lines")

	historyPruneCmd.Flags().IntVar(&pruneOpts.keep, "keep", 0,
		"Keep only the N most recent notifications")
	historyPruneCmd.Flags().BoolVar(&pruneOpts.dryRun, "dry-run", false,
		"Show what would be removed without actually removing")
}

// historyPath resolves the history file from the flag or the config.
func historyPath() (string, error) {
	if historyOpts.file != "" {
		return historyOpts.file, nil
	}
	cfg, err := loadConfig()
	if err != nil {
		return "", err
	}
	return cfg.HistoryPath(), nil
}

// historyFilter builds filter options from the history flags.
func historyFilter() (store.FilterOptions, error) {
	opts := store.FilterOptions{
		AppFilter: historyOpts.app,
		Category:  historyOpts.category,
		Limit:     historyOpts.limit,
	}

	since, err := core.ParseDuration(historyOpts.since)
	if err != nil {
		return opts, err
	}
	opts.Since = since

	if historyOpts.urgency != "" {
		u, err := core.ParseUrgency(historyOpts.urgency)
		if err != nil {
			return opts, err
		}
		opts.Urgency = &u
	}
	return opts, nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	opts, err := historyFilter()
	if err != nil {
		return err
	}
	path, err := historyPath()
	if err != nil {
		return err
	}

	records, err := store.ReadFile(path)
	if err != nil {
		return err
	}
	records = store.Filter(records, opts, time.Now())

	out := cmd.OutOrStdout()
	if historyOpts.json {
		enc := json.NewEncoder(out)
		for _, r := range records {
			if err := enc.Encode(r); err != nil {
				return err
			}
		}
		return nil
	}

	if len(records) == 0 {
		fmt.Fprintln(out, "No notifications in history")
		return nil
	}
	for _, r := range records {
		fmt.Fprintln(out, formatRecord(r))
	}
	return nil
}

func runHistoryPrune(cmd *cobra.Command, args []string) error {
	if pruneOpts.keep <= 0 {
		return fmt.Errorf("specify --keep")
	}
	path, err := historyPath()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if pruneOpts.dryRun {
		records, err := store.ReadFile(path)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Would remove %d notification(s)\n", max(len(records)-pruneOpts.keep, 0))
		return nil
	}

	// the daemon keeps the log open for appending
	lock := daemon.NewInstanceLock("")
	if err := lock.Acquire(); err != nil {
		if errors.Is(err, daemon.ErrAlreadyRunning) {
			return fmt.Errorf("stop ncenterd before pruning: %w", err)
		}
		return err
	}
	defer func() { _ = lock.Release() }()

	h, err := store.Open(path, logger)
	if err != nil {
		return err
	}
	removed, err := h.Prune(pruneOpts.keep)
	if closeErr := h.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Removed %d notification(s)\n", removed)
	return nil
}
