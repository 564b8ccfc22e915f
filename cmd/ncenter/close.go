package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/ncenter/internal/dbus"
)

var closeCmd = &cobra.Command{
	Use:   "close ID...",
	Short: "Close notifications by id",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runClose,
}

var dismissAllCmd = &cobra.Command{
	Use:   "dismiss-all",
	Short: "Dismiss every notification on screen",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := dbus.NewClient()
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()
		return client.DismissAll()
	},
}

func init() {
	rootCmd.AddCommand(closeCmd)
	rootCmd.AddCommand(dismissAllCmd)
}

func runClose(cmd *cobra.Command, args []string) error {
	ids, err := parseIDs(args)
	if err != nil {
		return err
	}

	client, err := dbus.NewClient()
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	for _, id := range ids {
		if err := client.CloseNotification(id); err != nil {
			return err
		}
		logger.Debug("close requested", "id", id)
	}
	return nil
}

// parseIDs parses notification ids. Zero is never a valid id.
func parseIDs(args []string) ([]uint32, error) {
	ids := make([]uint32, 0, len(args))
	for _, arg := range args {
		v, err := strconv.ParseUint(arg, 10, 32)
		if err != nil || v == 0 {
			return nil, fmt.Errorf("invalid notification id: %q", arg)
		}
		ids = append(ids, uint32(v))
	}
	return ids, nil
}
