package tls

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// CertificateReloader serves a certificate pair from disk and picks up
// renewed files without a restart.
type CertificateReloader struct {
	certFile string
	keyFile  string
	interval time.Duration
	logger   *slog.Logger

	cert atomic.Pointer[tls.Certificate]

	mu     sync.Mutex
	loaded stamp
}

// stamp is the modification times of the pair when it was last loaded.
type stamp struct {
	cert, key time.Time
}

func (s stamp) olderThan(o stamp) bool {
	return o.cert.After(s.cert) || o.key.After(s.key)
}

// NewCertificateReloader creates a reloader that checks the files every
// interval once Run is started.
func NewCertificateReloader(certFile, keyFile string, interval time.Duration, logger *slog.Logger) *CertificateReloader {
	if logger == nil {
		logger = slog.Default()
	}
	return &CertificateReloader{
		certFile: certFile,
		keyFile:  keyFile,
		interval: interval,
		logger:   logger,
	}
}

func (r *CertificateReloader) stat() (stamp, error) {
	ci, err := os.Stat(r.certFile)
	if err != nil {
		return stamp{}, fmt.Errorf("certificate file: %w", err)
	}
	ki, err := os.Stat(r.keyFile)
	if err != nil {
		return stamp{}, fmt.Errorf("key file: %w", err)
	}
	return stamp{cert: ci.ModTime(), key: ki.ModTime()}, nil
}

// Load reads and validates the pair and starts serving it. On error the
// previous certificate stays in service.
func (r *CertificateReloader) Load() error {
	st, err := r.stat()
	if err != nil {
		return err
	}

	pair, err := tls.LoadX509KeyPair(r.certFile, r.keyFile)
	if err != nil {
		return fmt.Errorf("failed to load certificate: %w", err)
	}
	if err := ValidateCertificate(&pair); err != nil {
		return fmt.Errorf("certificate validation failed: %w", err)
	}

	r.mu.Lock()
	r.loaded = st
	r.mu.Unlock()
	r.cert.Store(&pair)

	r.logCertificate(&pair)
	return nil
}

// Run reloads the pair whenever either file's mtime moves forward, until
// ctx is done. It returns at once if the interval is not positive.
func (r *CertificateReloader) Run(ctx context.Context) {
	if r.interval <= 0 {
		return
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if !r.changed() {
			continue
		}
		if err := r.Load(); err != nil {
			r.logger.Error("certificate reload failed, serving the previous one",
				"cert_file", r.certFile,
				"error", err,
			)
			continue
		}
		r.logger.Info("certificate reloaded", "cert_file", r.certFile)
	}
}

func (r *CertificateReloader) changed() bool {
	st, err := r.stat()
	if err != nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loaded.olderThan(st)
}

// Certificate returns the certificate in service, or nil before the first
// successful Load.
func (r *CertificateReloader) Certificate() *tls.Certificate {
	return r.cert.Load()
}

var errNoCertificate = errors.New("no certificate loaded")

// GetCertificate is the tls.Config callback.
func (r *CertificateReloader) GetCertificate(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	if c := r.cert.Load(); c != nil {
		return c, nil
	}
	return nil, errNoCertificate
}

func (r *CertificateReloader) logCertificate(pair *tls.Certificate) {
	leaf, err := leafCertificate(pair)
	if err != nil {
		return
	}

	attrs := []any{
		"subject", leaf.Subject.CommonName,
		"issuer", leaf.Issuer.CommonName,
		"expires_at", leaf.NotAfter.Format(time.RFC3339),
	}
	soon, days := ExpiresSoon(leaf, time.Now())
	attrs = append(attrs, "expires_in_days", days)
	if soon {
		r.logger.Warn("certificate expiring soon", attrs...)
		return
	}
	r.logger.Info("certificate loaded", attrs...)
}
