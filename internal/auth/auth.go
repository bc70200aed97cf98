// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package auth provides the credential check behind the admin gate.
// The content store asks a Verifier whether a submitted secret unlocks the
// admin view; which check runs is decided at startup from configuration.
package auth

import (
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/crypto/bcrypt"
)

// DefaultSharedSecret is the demo secret accepted when nothing else is
// configured. It is not a credential and must not be used in production.
const DefaultSharedSecret = "admin123"

// Issuer is the TOTP issuer name shown in authenticator apps.
const Issuer = "Cyberfolio"

// Verifier decides whether a submitted secret unlocks the admin view.
type Verifier interface {
	Verify(secret string) bool
}

// SharedSecret compares the submitted secret with a fixed string.
// NOT SECURE: the secret lives in process memory next to the session flag
// it protects. It exists so the default install behaves like the demo.
type SharedSecret string

// Verify reports whether secret equals the shared secret.
func (s SharedSecret) Verify(secret string) bool {
	return subtle.ConstantTimeCompare([]byte(s), []byte(secret)) == 1
}

// Bcrypt verifies against a bcrypt hash created by HashSecret.
type Bcrypt struct {
	Hash []byte
}

// Verify reports whether secret matches the stored hash.
func (b Bcrypt) Verify(secret string) bool {
	if len(b.Hash) == 0 {
		return false
	}
	return bcrypt.CompareHashAndPassword(b.Hash, []byte(secret)) == nil
}

// HashSecret returns a bcrypt hash suitable for Bcrypt.Hash.
func HashSecret(secret string) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("hash secret: empty secret")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash secret: %w", err)
	}
	return string(hash), nil
}

// TOTP accepts the current time-based one-time code for Secret.
type TOTP struct {
	Secret string
	// Now is used instead of time.Now when set.
	Now func() time.Time
}

// Verify reports whether secret is a valid code right now.
func (t TOTP) Verify(secret string) bool {
	if t.Secret == "" || secret == "" {
		return false
	}
	now := time.Now()
	if t.Now != nil {
		now = t.Now()
	}
	ok, err := totp.ValidateCustom(secret, t.Secret, now, totp.ValidateOpts{
		Period:    30,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	return err == nil && ok
}

// Enrollment is a freshly generated TOTP secret with its provisioning URL.
type Enrollment struct {
	Secret string
	URL    string
}

// GenerateTOTP creates a new TOTP secret for account.
func GenerateTOTP(account string) (*Enrollment, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      Issuer,
		AccountName: account,
	})
	if err != nil {
		return nil, fmt.Errorf("totp generate: %w", err)
	}
	return &Enrollment{Secret: key.Secret(), URL: key.URL()}, nil
}

// QRCode renders the enrollment URL as a PNG of the given pixel size.
func (e *Enrollment) QRCode(size int) ([]byte, error) {
	png, err := qrcode.Encode(e.URL, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("qr code: %w", err)
	}
	return png, nil
}

// Options selects a verifier. The first non-empty field wins, in field order.
type Options struct {
	TOTPSecret   string
	SecretHash   string
	SharedSecret string
}

// New returns the verifier described by opts and a short name for logging.
// With no options set it falls back to DefaultSharedSecret.
func New(opts Options) (Verifier, string) {
	switch {
	case opts.TOTPSecret != "":
		return TOTP{Secret: opts.TOTPSecret}, "totp"
	case opts.SecretHash != "":
		return Bcrypt{Hash: []byte(opts.SecretHash)}, "bcrypt"
	case opts.SharedSecret != "":
		return SharedSecret(opts.SharedSecret), "shared"
	default:
		return SharedSecret(DefaultSharedSecret), "shared-default"
	}
}
