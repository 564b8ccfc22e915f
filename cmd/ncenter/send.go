package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/ncenter/internal/core"
	"github.com/jmylchreest/ncenter/internal/dbus"
)

var sendOpts struct {
	appName       string
	icon          string
	urgency       string
	replaces      uint32
	timeout       string
	actions       []string
	transient     bool
	resident      bool
	soundFile     string
	suppressSound bool
}

var sendCmd = &cobra.Command{
	Use:   "send SUMMARY [BODY]",
	Short: "Send a notification",
	Long: `Send a notification through org.freedesktop.Notifications.

Examples:
  ncenter send "Build finished" "all tests passed"
  ncenter send --urgency critical --timeout 10s "Disk almost full"
  ncenter send --action default:Open --action later:Snooze "Meeting"`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSend,
}

func init() {
	rootCmd.AddCommand(sendCmd)

	sendCmd.Flags().StringVarP(&sendOpts.appName, "app-name", "a", "ncenter", "Application name")
	sendCmd.Flags().StringVarP(&sendOpts.icon, "icon", "i", "", "Icon name or path")
	sendCmd.Flags().StringVarP(&sendOpts.urgency, "urgency", "u", "normal", "Urgency (low, normal, critical)")
	sendCmd.Flags().Uint32VarP(&sendOpts.replaces, "replace", "r", 0, "Id of the notification to replace")
	sendCmd.Flags().StringVarP(&sendOpts.timeout, "timeout", "t", "",
		"Requested expiry (e.g. 5s, 1500ms; empty for the daemon default)")
	sendCmd.Flags().StringArrayVar(&sendOpts.actions, "action", nil, "Action as key:label (repeatable)")
	sendCmd.Flags().BoolVar(&sendOpts.transient, "transient", false, "Do not record in history")
	sendCmd.Flags().BoolVar(&sendOpts.resident, "resident", false, "Keep the popup after an action is invoked")
	sendCmd.Flags().StringVar(&sendOpts.soundFile, "sound-file", "", "Sound to play")
	sendCmd.Flags().BoolVar(&sendOpts.suppressSound, "suppress-sound", false, "Play no sound")
}

func runSend(cmd *cobra.Command, args []string) error {
	req, err := buildSendRequest(args)
	if err != nil {
		return err
	}

	client, err := dbus.NewClient()
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	id, err := client.Notify(req)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), id)
	return nil
}

// buildSendRequest turns the send flags and arguments into a request.
func buildSendRequest(args []string) (dbus.SendRequest, error) {
	urgency, err := core.ParseUrgency(sendOpts.urgency)
	if err != nil {
		return dbus.SendRequest{}, err
	}
	actions, err := core.ParseActions(sendOpts.actions)
	if err != nil {
		return dbus.SendRequest{}, err
	}

	timeout := int32(-1)
	if sendOpts.timeout != "" {
		d, err := time.ParseDuration(sendOpts.timeout)
		if err != nil {
			return dbus.SendRequest{}, fmt.Errorf("invalid timeout: %w", err)
		}
		if d < 0 {
			return dbus.SendRequest{}, fmt.Errorf("invalid timeout: %s is negative", sendOpts.timeout)
		}
		timeout = int32(d.Milliseconds())
	}

	req := dbus.SendRequest{
		AppName:       sendOpts.appName,
		ReplacesID:    sendOpts.replaces,
		Icon:          sendOpts.icon,
		Summary:       args[0],
		Actions:       actions,
		Urgency:       urgency,
		Transient:     sendOpts.transient,
		Resident:      sendOpts.resident,
		SoundFile:     sendOpts.soundFile,
		SuppressSound: sendOpts.suppressSound,
		ExpireTimeout: timeout,
	}
	if len(args) > 1 {
		req.Body = args[1]
	}
	return req, nil
}
