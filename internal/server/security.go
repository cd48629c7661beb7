package server

import (
	"crypto/tls"
	"fmt"
	"net"

	"github.com/dtroode/authgate/internal/model"
)

var (
	_ model.SecurityLayer = (*TLSListener)(nil)
	_ model.SecurityLayer = (*PlainListener)(nil)
)

// TLSListener opens TLS listeners from a certificate and key on disk.
type TLSListener struct {
	certFileName       string
	privateKeyFileName string
}

// NewTLSListener creates a new TLSListener for the given certificate and private key files.
func NewTLSListener(certFileName, privateKeyFileName string) *TLSListener {
	return &TLSListener{
		certFileName:       certFileName,
		privateKeyFileName: privateKeyFileName,
	}
}

// Listen loads the key pair and returns a TLS listener on addr.
// Connections below TLS 1.2 are refused.
func (l *TLSListener) Listen(protocol, addr string) (net.Listener, error) {
	cert, err := tls.LoadX509KeyPair(l.certFileName, l.privateKeyFileName)
	if err != nil {
		return nil, fmt.Errorf("failed to load TLS certificate: %w", err)
	}
	tlsConfig := &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}
	return tls.Listen(protocol, addr, tlsConfig)
}

// PlainListener opens unencrypted listeners.
type PlainListener struct{}

func NewPlainListener() *PlainListener {
	return &PlainListener{}
}

func (l *PlainListener) Listen(protocol, addr string) (net.Listener, error) {
	return net.Listen(protocol, addr)
}

// NewSecurityLayer returns a TLS layer when enableHTTPS is set, a plain one otherwise.
func NewSecurityLayer(enableHTTPS bool, certFileName, privateKeyFileName string) model.SecurityLayer {
	if enableHTTPS {
		return NewTLSListener(certFileName, privateKeyFileName)
	}
	return NewPlainListener()
}
