package notify

import (
	"context"
	"errors"
)

// ErrEmptyWebAddress is returned when Web is called with an empty address.
var ErrEmptyWebAddress = errors.New("notify: empty web address")

// WebRequest is the normalized payload handed to a Transport.
type WebRequest struct {
	Address string
	Data    string
	Headers map[string]string
}

// Web validates the address is non-empty and (if admitted) forwards the
// request to the Transport. A production Transport posts Data to Address
// over HTTP via resty; see RestyTransport.
func (m *Manager) Web(ctx context.Context, address string, data *string, headers map[string]string) error {
	if address == "" {
		return ErrEmptyWebAddress
	}
	if err := m.admit(); err != nil {
		return err
	}
	return m.transport.SendWeb(ctx, WebRequest{Address: address, Data: orEmpty(data), Headers: headers})
}
