package notify

import (
	"context"
	"fmt"
	"strings"
)

// SMSRequest is the normalized payload handed to a Transport.
type SMSRequest struct {
	Phone   string
	Message string
}

// SMS validates the phone number is non-empty and (if admitted) forwards
// the request to the Transport.
func (m *Manager) SMS(ctx context.Context, phone string, message *string) error {
	if strings.TrimSpace(phone) == "" {
		return fmt.Errorf("notify: empty phone number")
	}
	if err := m.admit(); err != nil {
		return err
	}
	return m.transport.SendSMS(ctx, SMSRequest{Phone: phone, Message: orEmpty(message)})
}
