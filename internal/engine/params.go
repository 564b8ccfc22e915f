package engine

import (
	"time"

	"github.com/jmylchreest/ncenter/internal/config"
	"github.com/jmylchreest/ncenter/internal/model"
)

// Params is the read-only configuration snapshot an event is applied with.
type Params struct {
	Capacity         int
	Width            int
	Height           int
	VerticalMargin   int
	HorizontalMargin int

	RespectRequestedTimeout bool
	DefaultTimeout          time.Duration
}

// ParamsFromConfig builds Params from the daemon configuration, clamping
// values the engine cannot work with.
func ParamsFromConfig(cfg *config.DaemonConfig) Params {
	if cfg == nil {
		cfg = config.DefaultDaemonConfig()
	}
	p := Params{
		Capacity:                cfg.Stack.MaxNotifications,
		Width:                   cfg.Stack.Width,
		Height:                  cfg.Stack.Height,
		VerticalMargin:          cfg.Stack.VerticalMargin,
		HorizontalMargin:        cfg.Stack.HorizontalMargin,
		RespectRequestedTimeout: cfg.Timeouts.RespectNotificationTimeout,
		DefaultTimeout:          cfg.Timeouts.LocalExpireTimeout.Duration(),
	}
	if p.Capacity < 0 {
		p.Capacity = 0
	}
	if p.DefaultTimeout <= 0 {
		p.DefaultTimeout = config.MinExpireTimeout
	}
	return p
}

// EffectiveTimeout returns how long n stays on screen. The sender's request
// is honoured only when the policy allows it and the request is positive.
func EffectiveTimeout(n model.Notification, p Params) time.Duration {
	timeout := p.DefaultTimeout
	if p.RespectRequestedTimeout && n.RequestedExpiry > 0 {
		timeout = n.RequestedExpiry
	}
	if timeout <= 0 {
		timeout = config.MinExpireTimeout
	}
	return timeout
}
