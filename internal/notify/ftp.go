package notify

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
)

// ErrMissingFTPCredential is returned when neither a password nor a
// complete SSH keypair (both halves) is supplied.
var ErrMissingFTPCredential = errors.New("notify: ftp submission requires a password or a full keypair")

// FTPRequest is the normalized payload handed to a Transport. Content is
// always base64-encoded on the wire, regardless of whether the caller
// supplied bytes or a string.
type FTPRequest struct {
	Host       string
	Username   string
	Password   string
	PrivateKey string
	PublicKey  string
	Path       string
	Port       int
	Content    string // base64
}

// FTP normalizes the hostname, base64-encodes content, validates that at
// least one auth method (a password or both keypair halves) is complete, and (if admitted) forwards the request to
// the Transport. Content may be passed as either []byte or string.
func (m *Manager) FTP(ctx context.Context, host, username, password string, privateKey, publicKey string, path string, content any, port int) error {
	if password == "" && (privateKey == "" || publicKey == "") {
		return ErrMissingFTPCredential
	}
	if port == 0 {
		port = 21
	}

	var encoded string
	switch v := content.(type) {
	case []byte:
		encoded = base64.StdEncoding.EncodeToString(v)
	case string:
		encoded = base64.StdEncoding.EncodeToString([]byte(v))
	default:
		return errors.New("notify: ftp content must be []byte or string")
	}

	if err := m.admit(); err != nil {
		return err
	}
	return m.transport.SendFTP(ctx, FTPRequest{
		Host:       normalizeFTPHost(host),
		Username:   username,
		Password:   password,
		PrivateKey: privateKey,
		PublicKey:  publicKey,
		Path:       path,
		Port:       port,
		Content:    encoded,
	})
}

// normalizeFTPHost strips a leading scheme (ftp://, sftp://, http(s)://)
// and any trailing slashes.
func normalizeFTPHost(host string) string {
	for _, scheme := range []string{"sftp://", "ftp://", "https://", "http://"} {
		if strings.HasPrefix(host, scheme) {
			host = host[len(scheme):]
			break
		}
	}
	return strings.TrimRight(host, "/")
}
