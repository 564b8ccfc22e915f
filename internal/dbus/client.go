package dbus

import (
	"fmt"

	"github.com/godbus/dbus/v5"

	"github.com/jmylchreest/ncenter/internal/model"
)

// SendRequest describes a notification sent by Client.Notify.
type SendRequest struct {
	AppName       string
	ReplacesID    uint32
	Icon          string
	Summary       string
	Body          string
	Actions       []model.Action
	Urgency       int
	Transient     bool
	Resident      bool
	SoundFile     string
	SuppressSound bool
	ExpireTimeout int32 // milliseconds, -1 for the server default
}

// Hints builds the hints dictionary for the request.
func (r SendRequest) Hints() map[string]dbus.Variant {
	hints := map[string]dbus.Variant{
		"urgency": dbus.MakeVariant(byte(r.Urgency)),
	}
	if r.Transient {
		hints["transient"] = dbus.MakeVariant(true)
	}
	if r.Resident {
		hints["resident"] = dbus.MakeVariant(true)
	}
	if r.SoundFile != "" {
		hints["sound-file"] = dbus.MakeVariant(r.SoundFile)
	}
	if r.SuppressSound {
		hints["suppress-sound"] = dbus.MakeVariant(true)
	}
	return hints
}

// FlatActions returns the actions as alternating key/label pairs.
func (r SendRequest) FlatActions() []string {
	flat := make([]string, 0, len(r.Actions)*2)
	for _, a := range r.Actions {
		flat = append(flat, a.Key, a.Label)
	}
	return flat
}

// Client talks to a running ncenterd over the session bus.
type Client struct {
	conn  *dbus.Conn
	obj   dbus.BusObject
	stack dbus.BusObject
}

// NewClient opens a private session bus connection.
func NewClient() (*Client, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	return &Client{
		conn:  conn,
		obj:   conn.Object(DBusBusName, DBusPath),
		stack: conn.Object(DBusBusName, StackPath),
	}, nil
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Notify sends a notification and returns its id.
func (c *Client) Notify(req SendRequest) (uint32, error) {
	var id uint32
	err := c.obj.Call(DBusInterface+".Notify", 0,
		req.AppName,
		req.ReplacesID,
		req.Icon,
		req.Summary,
		req.Body,
		req.FlatActions(),
		req.Hints(),
		req.ExpireTimeout,
	).Store(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to send notification: %w", err)
	}
	return id, nil
}

// CloseNotification asks the server to close a notification.
func (c *Client) CloseNotification(id uint32) error {
	if err := c.obj.Call(DBusInterface+".CloseNotification", 0, id).Err; err != nil {
		return fmt.Errorf("failed to close notification %d: %w", id, err)
	}
	return nil
}

// ServerInformation returns the name, vendor and version of the running server.
func (c *Client) ServerInformation() (ServerInfo, error) {
	var info ServerInfo
	err := c.obj.Call(DBusInterface+".GetServerInformation", 0).
		Store(&info.Name, &info.Vendor, &info.Version, &info.SpecVersion)
	if err != nil {
		return ServerInfo{}, fmt.Errorf("failed to get server information: %w", err)
	}
	return info, nil
}

// ListActive returns the notifications currently on screen.
func (c *Client) ListActive() ([]ActiveEntry, error) {
	var entries []ActiveEntry
	if err := c.stack.Call(StackInterface+".ListActive", 0).Store(&entries); err != nil {
		return nil, fmt.Errorf("failed to list active notifications: %w", err)
	}
	return entries, nil
}

// DismissAll closes every notification on screen.
func (c *Client) DismissAll() error {
	if err := c.stack.Call(StackInterface+".DismissAll", 0).Err; err != nil {
		return fmt.Errorf("failed to dismiss notifications: %w", err)
	}
	return nil
}
