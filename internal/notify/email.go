package notify

import (
	"context"
	"fmt"
	"strings"
)

// EmailRequest is the normalized payload handed to a Transport.
type EmailRequest struct {
	Address string
	Subject string
	Message string
	Data    string
	Headers map[string]string
}

// Email validates the address, normalizes nil subject/message/data to the
// empty string, and (if admitted) forwards the request to the Transport.
func (m *Manager) Email(ctx context.Context, address string, subject, message, data *string, headers map[string]string) error {
	if err := validateEmailAddress(address); err != nil {
		return err
	}
	if err := m.admit(); err != nil {
		return err
	}
	return m.transport.SendEmail(ctx, EmailRequest{
		Address: address,
		Subject: orEmpty(subject),
		Message: orEmpty(message),
		Data:    orEmpty(data),
		Headers: headers,
	})
}

// validateEmailAddress applies an RFC-5321-lite syntactic check: one '@',
// non-empty local and domain parts, no consecutive dots, no leading/
// trailing dot in the local part, and no '*'.
func validateEmailAddress(address string) error {
	if strings.Contains(address, "*") {
		return fmt.Errorf("notify: invalid email address %q: contains '*'", address)
	}
	if strings.Contains(address, "..") {
		return fmt.Errorf("notify: invalid email address %q: consecutive dots", address)
	}
	if strings.Count(address, "@") != 1 {
		return fmt.Errorf("notify: invalid email address %q: must contain exactly one '@'", address)
	}
	at := strings.Index(address, "@")
	if at <= 0 || at == len(address)-1 {
		return fmt.Errorf("notify: invalid email address %q: missing local or domain part", address)
	}
	local, domain := address[:at], address[at+1:]
	if strings.HasPrefix(local, ".") || strings.HasSuffix(local, ".") {
		return fmt.Errorf("notify: invalid email address %q: leading or trailing dot in local part", address)
	}
	if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return fmt.Errorf("notify: invalid email address %q: malformed domain", address)
	}
	for _, r := range local + domain {
		if r <= ' ' || r == '"' || r == '\\' {
			return fmt.Errorf("notify: invalid email address %q: disallowed character %q", address, r)
		}
	}
	return nil
}
