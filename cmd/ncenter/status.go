package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/ncenter/internal/dbus"
)

var statusOpts struct {
	waybar bool
}

// WaybarStatus represents the Waybar custom module JSON format.
type WaybarStatus struct {
	Text    string `json:"text"`
	Alt     string `json:"alt,omitempty"`
	Tooltip string `json:"tooltip,omitempty"`
	Class   string `json:"class,omitempty"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the notifications currently on screen",
	Long: `Show the daemon and the notifications currently on screen, top first.

With --waybar the output is a Waybar custom module JSON object:

  "custom/notifications": {
    "exec": "ncenter status --waybar",
    "interval": 5,
    "return-type": "json",
    "on-click": "ncenter dismiss-all"
  }`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().BoolVar(&statusOpts.waybar, "waybar", false,
		"Output Waybar-compatible JSON")
}

func runStatus(cmd *cobra.Command, args []string) error {
	client, err := dbus.NewClient()
	if err != nil {
		if statusOpts.waybar {
			return outputStatus(cmd, WaybarStatus{Alt: "error", Class: "error"})
		}
		return err
	}
	defer func() { _ = client.Close() }()

	entries, err := client.ListActive()
	if err != nil {
		if statusOpts.waybar {
			return outputStatus(cmd, WaybarStatus{Alt: "error", Class: "error"})
		}
		return err
	}

	if statusOpts.waybar {
		return outputStatus(cmd, waybarStatus(entries))
	}

	info, err := client.ServerInformation()
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), formatActive(info, entries))
	return nil
}

// waybarStatus summarises the active stack for Waybar.
func waybarStatus(entries []dbus.ActiveEntry) WaybarStatus {
	if len(entries) == 0 {
		return WaybarStatus{Alt: "empty", Class: "empty"}
	}

	tooltip := fmt.Sprintf("%d active", len(entries))
	for _, e := range entries {
		tooltip += "\n" + e.Summary
	}
	return WaybarStatus{
		Text:    fmt.Sprintf("%d", len(entries)),
		Alt:     "active",
		Tooltip: tooltip,
		Class:   "active",
	}
}

// outputStatus writes the status as JSON.
func outputStatus(cmd *cobra.Command, status WaybarStatus) error {
	return json.NewEncoder(cmd.OutOrStdout()).Encode(status)
}
