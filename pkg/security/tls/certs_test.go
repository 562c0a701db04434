package tls

import (
	stdtls "crypto/tls"
	"testing"
	"time"
)

func TestValidateCertificate(t *testing.T) {
	now := time.Now()
	dir := t.TempDir()

	t.Run("nil certificate", func(t *testing.T) {
		if err := ValidateCertificate(nil); err == nil {
			t.Error("ValidateCertificate(nil) = nil, want error")
		}
	})

	t.Run("empty chain", func(t *testing.T) {
		if err := ValidateCertificate(&stdtls.Certificate{}); err == nil {
			t.Error("ValidateCertificate() = nil for empty chain, want error")
		}
	})

	t.Run("valid certificate", func(t *testing.T) {
		certFile, keyFile := writeTestCertPair(t, dir, "valid", now.Add(-time.Hour), now.Add(24*time.Hour))
		cert, err := stdtls.LoadX509KeyPair(certFile, keyFile)
		if err != nil {
			t.Fatalf("LoadX509KeyPair() failed: %v", err)
		}
		if err := ValidateCertificate(&cert); err != nil {
			t.Errorf("ValidateCertificate() = %v, want nil", err)
		}
	})

	t.Run("expired certificate", func(t *testing.T) {
		certFile, keyFile := writeTestCertPair(t, dir, "expired", now.Add(-48*time.Hour), now.Add(-24*time.Hour))
		cert, err := stdtls.LoadX509KeyPair(certFile, keyFile)
		if err != nil {
			t.Fatalf("LoadX509KeyPair() failed: %v", err)
		}
		if err := ValidateCertificate(&cert); err == nil {
			t.Error("ValidateCertificate() = nil for expired cert, want error")
		}
	})

	t.Run("not yet valid certificate", func(t *testing.T) {
		certFile, keyFile := writeTestCertPair(t, dir, "future", now.Add(24*time.Hour), now.Add(48*time.Hour))
		cert, err := stdtls.LoadX509KeyPair(certFile, keyFile)
		if err != nil {
			t.Fatalf("LoadX509KeyPair() failed: %v", err)
		}
		if err := ValidateCertificate(&cert); err == nil {
			t.Error("ValidateCertificate() = nil for future cert, want error")
		}
	})
}
