// Package notify implements the live-mode gated, rate-limited notification
// sink strategies submit messages through: email, SMS, web, Telegram, FTP.
// Delivery mechanics are boundary-only — the Manager validates, normalizes,
// and rate-limits each submission, then hands it to an injected Transport.
package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"backtestcore/pkg/config"
)

// Transport performs the actual network delivery for each notification
// kind. Production wiring and the demo command use RestyTransport; tests
// use a recording stub.
type Transport interface {
	SendEmail(ctx context.Context, req EmailRequest) error
	SendSMS(ctx context.Context, req SMSRequest) error
	SendWeb(ctx context.Context, req WebRequest) error
	SendTelegram(ctx context.Context, req TelegramRequest) error
	SendFTP(ctx context.Context, req FTPRequest) error
}

// Manager gates, validates, and rate-limits outbound strategy notifications
// before handing them to a Transport, using a single process-wide
// rate.Limiter rather than a per-caller one.
type Manager struct {
	liveMode        bool
	limiter         *rate.Limiter
	transport       Transport
	defaultBotToken string

	mu       sync.Mutex
	rejected int
}

// NewManager builds a Manager from engine-shell config. The limiter is
// sized maxPerWindow tokens refilled uniformly over window, with a burst
// equal to maxPerWindow so a cold start can spend a full window's budget
// immediately.
func NewManager(cfg *config.Config, transport Transport) *Manager {
	perWindow := maxInt(cfg.NotificationMaxPerWindow, 1)
	var limit rate.Limit
	if cfg.NotificationWindow > 0 {
		limit = rate.Every(cfg.NotificationWindow / time.Duration(perWindow))
	}
	return &Manager{
		liveMode:        cfg.LiveMode,
		limiter:         rate.NewLimiter(limit, perWindow),
		transport:       transport,
		defaultBotToken: cfg.TelegramBotToken,
	}
}

// ErrNotLive is returned (not logged-and-swallowed) when a notification is
// submitted outside live mode; callers decide whether that is fatal.
var ErrNotLive = fmt.Errorf("notify: submission rejected, strategy is not in live mode")

// ErrRateLimited is returned when the notification would exceed the
// configured submissions-per-window budget.
var ErrRateLimited = fmt.Errorf("notify: submission rejected, rate limit exceeded")

func (m *Manager) admit() error {
	if !m.liveMode {
		return ErrNotLive
	}
	if !m.limiter.Allow() {
		m.mu.Lock()
		m.rejected++
		m.mu.Unlock()
		return ErrRateLimited
	}
	return nil
}

// Rejected returns the count of submissions rejected by the rate limiter
// since construction.
func (m *Manager) Rejected() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rejected
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func orEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
