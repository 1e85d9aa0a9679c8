// Package storage issues time-limited signed URLs for privately stored
// objects and serves the objects themselves from a local directory. It plays
// the role a hosted object-storage service plays for the frontend: a URL is
// only honored while its signature and expiry check out.
package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
)

// SignedURLValidity is the validity requested for every issued URL. The
// cache layer keys its own shorter TTL off this value.
const SignedURLValidity = 60 * time.Minute

var (
	// ErrExpiredURL means the presented URL's expiry has passed.
	ErrExpiredURL = errors.New("storage: signed url expired")
	// ErrBadSignature means the presented signature does not match the path/expiry.
	ErrBadSignature = errors.New("storage: invalid signature")
)

// Signer creates and verifies HMAC-SHA256 signed object URLs.
type Signer struct {
	secret  []byte
	baseURL string
}

// NewSigner constructs a Signer. baseURL is the externally reachable server
// root (no trailing slash), e.g. "http://localhost:8008".
func NewSigner(secret []byte, baseURL string) *Signer {
	return &Signer{secret: secret, baseURL: baseURL}
}

func (s *Signer) sign(path string, expires int64) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%s:%d", path, expires)
	return hex.EncodeToString(mac.Sum(nil))
}

// SignedURL returns a URL granting read access to one object path until
// now + validFor.
func (s *Signer) SignedURL(path string, validFor time.Duration) string {
	expires := time.Now().Add(validFor).Unix()
	return fmt.Sprintf("%s/objects/%s?expires=%d&sig=%s", s.baseURL, path, expires, s.sign(path, expires))
}

// SignedURLs signs a batch of object paths with a shared validity, returning
// a parallel path->URL map.
func (s *Signer) SignedURLs(paths []string, validFor time.Duration) map[string]string {
	urls := make(map[string]string, len(paths))
	for _, p := range paths {
		urls[p] = s.SignedURL(p, validFor)
	}
	return urls
}

// Verify checks a presented (path, expires, sig) triple. Expiry is checked
// first so expired-but-valid URLs report ErrExpiredURL.
func (s *Signer) Verify(path string, expires int64, sig string) error {
	if time.Now().Unix() > expires {
		return ErrExpiredURL
	}
	expected := s.sign(path, expires)
	if !hmac.Equal([]byte(expected), []byte(sig)) {
		return ErrBadSignature
	}
	return nil
}
