package display

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/ncenter/internal/engine"
	"github.com/jmylchreest/ncenter/internal/model"
)

const (
	buttonPrimary   = 1
	buttonSecondary = 3

	maxBodyLen = 200
)

// Popup is one notification window.
type Popup struct {
	window       *gtk.Window
	notification model.Notification
	metrics      engine.Metrics
	logger       *slog.Logger

	box       *gtk.Box
	actionBox *gtk.Box

	onDismiss func()
	onAction  func(actionKey string)

	closed bool
}

// NewPopup creates a popup window for cmd. The window is not shown until
// Show is called.
func NewPopup(app *gtk.Application, cmd engine.CreateWindow, logger *slog.Logger) *Popup {
	if logger == nil {
		logger = slog.Default()
	}

	p := &Popup{
		notification: cmd.Notification,
		metrics:      cmd.Metrics,
		logger:       logger,
	}

	p.window = gtk.NewWindow()
	p.window.SetApplication(app)
	p.window.SetDecorated(false)
	p.window.SetResizable(false)
	p.window.SetDefaultSize(cmd.Width, cmd.Height)
	p.window.SetSizeRequest(cmd.Width, cmd.Height)

	initLayerShell(p.window)
	applyMargin(p.window, cmd.Margin)

	p.buildUI()
	p.connectSignals()

	return p
}

func (p *Popup) buildUI() {
	m := p.metrics

	p.box = gtk.NewBox(gtk.OrientationHorizontal, 0)
	p.box.AddCSSClass("notification-popup")
	p.box.AddCSSClass(urgencyToClass(p.notification.Urgency))
	p.box.AddCSSClass(colorSchemeClass())
	p.box.SetMarginTop(int(m.BlockPadding.Top))
	p.box.SetMarginBottom(int(m.BlockPadding.Bottom))
	p.box.SetMarginStart(int(m.BlockPadding.Left))
	p.box.SetMarginEnd(int(m.BlockPadding.Right))

	image := gtk.NewImage()
	image.AddCSSClass("notification-icon")
	image.SetPixelSize(int(m.ImageSize))
	if file, icon := iconSource(p.notification.Icon); file != "" {
		image.SetFromFile(file)
	} else {
		image.SetFromIconName(icon)
	}
	p.box.Append(image)

	text := gtk.NewBox(gtk.OrientationVertical, 2)
	text.SetHExpand(true)

	if p.notification.AppName != "" {
		name := gtk.NewLabel("")
		name.AddCSSClass("notification-appname")
		name.SetXAlign(0)
		name.SetMarkup(spanMarkup(p.notification.AppName, m.NameFontSize, false))
		name.SetMarginStart(int(m.SummaryPadding.Left))
		text.Append(name)
	}

	summary := gtk.NewLabel("")
	summary.AddCSSClass("notification-summary")
	summary.SetXAlign(0)
	summary.SetEllipsize(3) // PANGO_ELLIPSIZE_END
	summary.SetMarkup(spanMarkup(p.notification.Summary, m.SummaryFontSize, true))
	summary.SetMarginStart(int(m.SummaryPadding.Left))
	text.Append(summary)

	if p.notification.Body != "" {
		body := gtk.NewLabel("")
		body.AddCSSClass("notification-body")
		body.SetXAlign(0)
		body.SetWrap(true)
		body.SetWrapMode(2) // PANGO_WRAP_WORD_CHAR
		body.SetMarkup(bodySpanMarkup(p.notification.Body, maxBodyLen, m.BodyFontSize))
		body.SetMarginStart(int(m.BodyPadding.Left))
		text.Append(body)
	}

	if actions := p.notification.Actions; len(actions) > 0 {
		p.actionBox = gtk.NewBox(gtk.OrientationHorizontal, 6)
		p.actionBox.AddCSSClass("notification-actions")
		p.actionBox.SetMarginStart(int(m.BodyPadding.Left))
		for _, action := range actions {
			actionKey := action.Key // Capture for closure
			btn := gtk.NewButtonWithLabel(action.Label)
			btn.AddCSSClass("notification-action")
			btn.ConnectClicked(func() {
				p.invoke(actionKey)
			})
			p.actionBox.Append(btn)
		}
		text.Append(p.actionBox)
	}

	p.box.Append(text)
	p.window.SetChild(p.box)
}

func (p *Popup) connectSignals() {
	clickCtrl := gtk.NewGestureClick()
	clickCtrl.SetButton(0) // All buttons
	clickCtrl.ConnectReleased(func(nPress int, x, y float64) {
		p.handleClick(clickCtrl.CurrentButton())
	})
	p.window.AddController(clickCtrl)
}

// handleClick dismisses on right click and runs the default action on left click.
func (p *Popup) handleClick(button uint) {
	switch button {
	case buttonSecondary:
		if p.onDismiss != nil {
			p.onDismiss()
		}
	case buttonPrimary:
		if key, ok := p.notification.DefaultAction(); ok {
			p.invoke(key)
		}
	}
}

func (p *Popup) invoke(actionKey string) {
	p.logger.Debug("action invoked", "id", p.notification.ID, "action_key", actionKey)
	if p.onAction != nil {
		p.onAction(actionKey)
	}
	if !p.notification.Resident && p.onDismiss != nil {
		p.onDismiss()
	}
}

// Show presents the window.
func (p *Popup) Show() {
	p.window.Present()
}

// Move applies a new margin.
func (p *Popup) Move(m engine.Margin) {
	if p.closed {
		return
	}
	applyMargin(p.window, m)
}

// Close closes the window. Closing twice is a no-op.
func (p *Popup) Close() {
	if p.closed {
		return
	}
	p.closed = true
	p.window.Close()
}

// OnDismiss sets the callback for a user dismissal.
func (p *Popup) OnDismiss(cb func()) {
	p.onDismiss = cb
}

// OnAction sets the callback for when an action is invoked.
func (p *Popup) OnAction(cb func(actionKey string)) {
	p.onAction = cb
}

// iconSource splits an icon reference into a file path or a theme icon name.
func iconSource(icon string) (file, name string) {
	switch {
	case icon == "":
		return "", "dialog-information"
	case strings.HasPrefix(icon, "file://"):
		return strings.TrimPrefix(icon, "file://"), ""
	case filepath.IsAbs(icon):
		return icon, ""
	default:
		return "", icon
	}
}

// urgencyToClass converts urgency level to CSS class name.
func urgencyToClass(urgency int) string {
	switch urgency {
	case model.UrgencyLow:
		return "urgency-low"
	case model.UrgencyCritical:
		return "urgency-critical"
	default:
		return "urgency-normal"
	}
}

// colorSchemeClass checks libadwaita for the system dark mode preference.
func colorSchemeClass() string {
	if adw.StyleManagerGetDefault().Dark() {
		return "dark"
	}
	return "light"
}
