package engine

// Margin is a window's layer-shell margin in pixels.
type Margin struct {
	Top    int
	Right  int
	Bottom int
	Left   int
}

// Padding is a widget padding in pixels.
type Padding struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// Metrics are the font sizes and paddings a popup is rendered with.
// They depend only on the configured height, so they are computed once when
// the window is created instead of on every render pass.
type Metrics struct {
	NameFontSize    int
	SummaryFontSize int
	BodyFontSize    int
	ImageSize       float64

	SummaryPadding Padding
	BodyPadding    Padding
	BlockPadding   Padding
}

// Offset returns the distance from the anchored screen edge of the window at
// the given 1-based rank. Rank 1 sits one vertical margin from the edge and
// every following rank adds one window height plus one margin.
func Offset(rank, height, verticalMargin int) int {
	if rank < 1 {
		rank = 1
	}
	return height*(rank-1) + verticalMargin*(rank-1) + verticalMargin
}

// MarginForRank returns the full margin for a window at rank.
func MarginForRank(p Params, rank int) Margin {
	return Margin{
		Top:    Offset(rank, p.Height, p.VerticalMargin),
		Right:  p.HorizontalMargin,
		Bottom: p.VerticalMargin,
		Left:   p.HorizontalMargin,
	}
}

// ComputeMetrics derives popup metrics from the window height.
func ComputeMetrics(height int) Metrics {
	h := float64(height)
	return Metrics{
		NameFontSize:    10,
		SummaryFontSize: int(h * 0.24),
		BodyFontSize:    int(h * 0.17),
		ImageSize:       h * 0.75,
		SummaryPadding:  Padding{Left: h*0.05 + h*0.01},
		BodyPadding:     Padding{Left: h * 0.05},
		BlockPadding:    Padding{Top: 10, Bottom: 10, Left: h * 0.15},
	}
}
