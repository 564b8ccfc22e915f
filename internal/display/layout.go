package display

import (
	layershell "github.com/diamondburned/gotk4-layer-shell/pkg/gtk4layershell"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/ncenter/internal/engine"
)

const layerNamespace = "ncenter-notification"

// initLayerShell turns window into an overlay surface anchored top-right.
func initLayerShell(window *gtk.Window) {
	layershell.InitForWindow(window)
	layershell.SetLayer(window, layershell.LayerShellLayerTop)
	layershell.SetExclusiveZone(window, 0) // Don't reserve space
	layershell.SetKeyboardMode(window, layershell.LayerShellKeyboardModeNone)
	layershell.SetNamespace(window, layerNamespace)

	layershell.SetAnchor(window, layershell.LayerShellEdgeTop, true)
	layershell.SetAnchor(window, layershell.LayerShellEdgeRight, true)
	layershell.SetAnchor(window, layershell.LayerShellEdgeBottom, false)
	layershell.SetAnchor(window, layershell.LayerShellEdgeLeft, false)
}

// applyMargin moves window to m. Only the anchored edges have a visible
// effect, the others are kept so the surface has consistent spacing.
func applyMargin(window *gtk.Window, m engine.Margin) {
	layershell.SetMargin(window, layershell.LayerShellEdgeTop, m.Top)
	layershell.SetMargin(window, layershell.LayerShellEdgeRight, m.Right)
	layershell.SetMargin(window, layershell.LayerShellEdgeBottom, m.Bottom)
	layershell.SetMargin(window, layershell.LayerShellEdgeLeft, m.Left)
}
