package server

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestCertificate(t *testing.T, dir string) (string, string) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	template := x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{Organization: []string{"useraccounts test"}},
		NotBefore:    time.Now().Add(-time.Minute),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		IPAddresses:  []net.IP{net.IPv4(127, 0, 0, 1)},
	}

	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	require.NoError(t, err)
	keyDER, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)

	certFile := filepath.Join(dir, "cert.pem")
	keyFile := filepath.Join(dir, "key.pem")
	require.NoError(t, os.WriteFile(certFile, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}), 0o600))
	require.NoError(t, os.WriteFile(keyFile, pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: keyDER}), 0o600))

	return certFile, keyFile
}

func TestTLSListener_Listen(t *testing.T) {
	t.Parallel()

	certFile, keyFile := writeTestCertificate(t, t.TempDir())

	ln, err := NewTLSListener(certFile, keyFile).Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			_ = conn.(*tls.Conn).Handshake()
			_ = conn.Close()
		}
	}()

	tests := []struct {
		name       string
		maxVersion uint16
		wantErr    bool
	}{
		{name: "tls 1.3 accepted", maxVersion: tls.VersionTLS13},
		{name: "tls 1.2 accepted", maxVersion: tls.VersionTLS12},
		{name: "tls 1.1 refused", maxVersion: tls.VersionTLS11, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, err := tls.Dial("tcp", ln.Addr().String(), &tls.Config{
				InsecureSkipVerify: true, //nolint:gosec // self-signed test certificate
				MinVersion:         tls.VersionTLS10,
				MaxVersion:         tt.maxVersion,
			})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			_ = conn.Close()
		})
	}
}

func TestTLSListener_ListenErrors(t *testing.T) {
	t.Parallel()

	certFile, keyFile := writeTestCertificate(t, t.TempDir())

	tests := map[string]struct {
		listener *TLSListener
		addr     string
		wantMsg  string
	}{
		"missing certificate": {
			listener: NewTLSListener("nonexistent.crt", "nonexistent.key"),
			addr:     "127.0.0.1:0",
			wantMsg:  "failed to load TLS certificate",
		},
		"invalid address": {
			listener: NewTLSListener(certFile, keyFile),
			addr:     "invalid-address",
			wantMsg:  "failed to listen",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := tt.listener.Listen("tcp", tt.addr)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestPlainListener_Listen(t *testing.T) {
	t.Parallel()

	ln, err := NewPlainListener().Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	_, ok := ln.(*net.TCPListener)
	assert.True(t, ok)

	_, err = NewPlainListener().Listen("tcp", "invalid-address")
	assert.Error(t, err)
}

func TestNewSecurityLayer(t *testing.T) {
	t.Parallel()

	assert.IsType(t, &TLSListener{}, NewSecurityLayer(true, "c.pem", "k.pem"))
	assert.IsType(t, &PlainListener{}, NewSecurityLayer(false, "c.pem", "k.pem"))
}
