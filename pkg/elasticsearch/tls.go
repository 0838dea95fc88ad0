package elasticsearch

import (
	"crypto"
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/crypto/pkcs12"
)

// NewTLSConfig builds the TLS client configuration from the optional
// key-store and trust-store material in cfg. Both stores accept either a PEM
// file or a PKCS#12 container; PEM is tried first and any PEM failure falls
// back to PKCS#12. For PEM key stores the password decrypts only the private
// key, never the store itself.
//
// When neither store path is set, the returned configuration only reflects
// the hostname-verification flag (nil when verification stays on, so the
// transport uses system defaults).
func NewTLSConfig(cfg Config) (*tls.Config, error) {
	if cfg.KeyStorePath == "" && cfg.TrustStorePath == "" {
		if !cfg.VerifyHostnames {
			return &tls.Config{InsecureSkipVerify: true}, nil
		}
		return nil, nil
	}

	var certificates []tls.Certificate
	var keyStoreChain []*x509.Certificate
	if cfg.KeyStorePath != "" {
		certificate, chain, err := loadKeyStore(cfg.KeyStorePath, cfg.KeyStorePassword)
		if err != nil {
			return nil, errors.Join(ErrSSLInitialization, err)
		}
		if err := validateCertificates(chain); err != nil {
			return nil, err
		}
		certificates = append(certificates, certificate)
		keyStoreChain = chain
	}

	// Trust anchors come from the trust store when configured, otherwise the
	// key-store certificates double as the trust store.
	anchors := keyStoreChain
	if cfg.TrustStorePath != "" {
		var err error
		anchors, err = loadTrustStore(cfg.TrustStorePath, cfg.TrustStorePassword)
		if err != nil {
			return nil, errors.Join(ErrSSLInitialization, err)
		}
	}
	if len(anchors) == 0 {
		return nil, errors.Join(ErrSSLInitialization, errors.New("no trust anchors available"))
	}
	pool := x509.NewCertPool()
	for _, anchor := range anchors {
		pool.AddCert(anchor)
	}

	return &tls.Config{
		Certificates:       certificates,
		RootCAs:            pool,
		InsecureSkipVerify: !cfg.VerifyHostnames,
	}, nil
}

// loadKeyStore reads a certificate chain and its private key from one file.
func loadKeyStore(path, password string) (tls.Certificate, []*x509.Certificate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return tls.Certificate{}, nil, err
	}

	certificate, chain, pemErr := keyPairFromPEM(data, password)
	if pemErr == nil {
		return certificate, chain, nil
	}

	blocks, p12Err := pkcs12.ToPEM(data, password)
	if p12Err != nil {
		return tls.Certificate{}, nil, fmt.Errorf("key store is neither PEM (%w) nor PKCS#12 (%w)", pemErr, p12Err)
	}
	var converted []byte
	for _, block := range blocks {
		converted = append(converted, pem.EncodeToMemory(block)...)
	}
	// ToPEM emits unencrypted keys, so no key password applies past here.
	return keyPairFromPEM(converted, "")
}

func keyPairFromPEM(data []byte, password string) (tls.Certificate, []*x509.Certificate, error) {
	var certificate tls.Certificate
	var chain []*x509.Certificate
	var key crypto.PrivateKey

	rest := data
	for {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			break
		}
		switch {
		case block.Type == "CERTIFICATE":
			parsed, err := x509.ParseCertificate(block.Bytes)
			if err != nil {
				return tls.Certificate{}, nil, err
			}
			chain = append(chain, parsed)
			certificate.Certificate = append(certificate.Certificate, block.Bytes)
		case block.Type == "PRIVATE KEY" || strings.HasSuffix(block.Type, " PRIVATE KEY"):
			der := block.Bytes
			if x509.IsEncryptedPEMBlock(block) {
				decrypted, err := x509.DecryptPEMBlock(block, []byte(password))
				if err != nil {
					return tls.Certificate{}, nil, fmt.Errorf("decrypt private key: %w", err)
				}
				der = decrypted
			}
			parsed, err := parsePrivateKey(der)
			if err != nil {
				return tls.Certificate{}, nil, err
			}
			key = parsed
		}
	}

	if len(chain) == 0 {
		return tls.Certificate{}, nil, errors.New("no certificates in PEM key store")
	}
	if key == nil {
		return tls.Certificate{}, nil, errors.New("no private key in PEM key store")
	}
	certificate.PrivateKey = key
	certificate.Leaf = chain[0]
	return certificate, chain, nil
}

func parsePrivateKey(der []byte) (crypto.PrivateKey, error) {
	if key, err := x509.ParsePKCS8PrivateKey(der); err == nil {
		return key, nil
	}
	if key, err := x509.ParsePKCS1PrivateKey(der); err == nil {
		return key, nil
	}
	if key, err := x509.ParseECPrivateKey(der); err == nil {
		return key, nil
	}
	return nil, errors.New("unsupported private key format")
}

// loadTrustStore reads trust anchors from path. Anchors are deliberately not
// validity-checked: they are trust roots, not identity certificates.
func loadTrustStore(path, password string) ([]*x509.Certificate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	certs, pemErr := certificatesFromPEM(data)
	if pemErr == nil {
		return certs, nil
	}

	blocks, p12Err := pkcs12.ToPEM(data, password)
	if p12Err != nil {
		return nil, fmt.Errorf("trust store is neither PEM (%w) nor PKCS#12 (%w)", pemErr, p12Err)
	}
	certs = nil
	for _, block := range blocks {
		if block.Type != "CERTIFICATE" {
			continue
		}
		parsed, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, err
		}
		certs = append(certs, parsed)
	}
	if len(certs) == 0 {
		return nil, errors.New("no certificates in trust store")
	}
	return certs, nil
}

func certificatesFromPEM(data []byte) ([]*x509.Certificate, error) {
	var certs []*x509.Certificate
	rest := data
	for {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" {
			continue
		}
		parsed, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, err
		}
		certs = append(certs, parsed)
	}
	if len(certs) == 0 {
		return nil, errors.New("no certificates found in PEM data")
	}
	return certs, nil
}

// validateCertificates enforces the validity window on every key-store
// certificate.
func validateCertificates(chain []*x509.Certificate) error {
	now := time.Now()
	for _, cert := range chain {
		if now.After(cert.NotAfter) {
			return fmt.Errorf("%w: certificate %q expired at %s",
				ErrCertificateInvalid, cert.Subject.CommonName, cert.NotAfter.Format(time.RFC3339))
		}
		if now.Before(cert.NotBefore) {
			return fmt.Errorf("%w: certificate %q is not valid until %s",
				ErrCertificateInvalid, cert.Subject.CommonName, cert.NotBefore.Format(time.RFC3339))
		}
	}
	return nil
}
