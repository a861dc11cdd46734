package magiclink

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// Signer creates and validates the single-use tokens embedded in mentor
// evaluation links. A token is bound to one passport and carries its own
// expiry; single use is enforced by the store, which keeps at most one live
// token per passport and clears it atomically on consumption.
type Signer struct {
	secret []byte
	ttl    time.Duration
}

// NewSigner constructs a signer with the provided secret and TTL.
func NewSigner(secret string, ttl time.Duration) *Signer {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Signer{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Generate returns a signed token bound to the given passport ID. The nonce
// makes every issued token distinct, so re-issuing invalidates the stored
// predecessor even within the same second.
func (s *Signer) Generate(ippID string) (string, time.Time, error) {
	if ippID == "" {
		return "", time.Time{}, fmt.Errorf("ippID required")
	}
	if len(s.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("signing secret missing")
	}
	nonce := make([]byte, 16)
	if _, err := rand.Read(nonce); err != nil {
		return "", time.Time{}, fmt.Errorf("generate nonce: %w", err)
	}
	expiresAt := time.Now().Add(s.ttl)
	encodedID := base64.RawURLEncoding.EncodeToString([]byte(ippID))
	encodedNonce := hex.EncodeToString(nonce)
	payload := fmt.Sprintf("%s|%d|%s", encodedID, expiresAt.Unix(), encodedNonce)
	mac := hmac.New(sha256.New, s.secret)
	_, _ = mac.Write([]byte(payload))
	signature := hex.EncodeToString(mac.Sum(nil))
	token := strings.Join([]string{encodedID, fmt.Sprintf("%d", expiresAt.Unix()), encodedNonce, signature}, ".")
	return token, expiresAt, nil
}

// Parse validates a token's signature and expiry and returns the passport ID
// it is bound to.
func (s *Signer) Parse(token string) (ippID string, expiresAt time.Time, err error) {
	parts := strings.Split(token, ".")
	if len(parts) != 4 {
		return "", time.Time{}, fmt.Errorf("invalid token format")
	}
	encodedID := parts[0]
	ts := parts[1]
	nonce := parts[2]
	signature := parts[3]

	rawID, err := base64.RawURLEncoding.DecodeString(encodedID)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("decode passport id: %w", err)
	}

	expUnix, err := parseUnix(ts)
	if err != nil {
		return "", time.Time{}, err
	}
	expiresAt = time.Unix(expUnix, 0)

	payload := fmt.Sprintf("%s|%s|%s", encodedID, ts, nonce)
	mac := hmac.New(sha256.New, s.secret)
	_, _ = mac.Write([]byte(payload))
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return "", time.Time{}, fmt.Errorf("invalid token signature")
	}
	if time.Now().After(expiresAt) {
		return "", time.Time{}, fmt.Errorf("token expired")
	}
	return string(rawID), expiresAt, nil
}

// EvaluationLink builds the URL the mentor receives by email.
func EvaluationLink(baseURL, ippID, token string) string {
	return fmt.Sprintf("%s/mentor/evaluate/%s?token=%s", strings.TrimRight(baseURL, "/"), ippID, token)
}

func parseUnix(raw string) (int64, error) {
	var ts int64
	_, err := fmt.Sscanf(raw, "%d", &ts)
	if err != nil {
		return 0, fmt.Errorf("invalid timestamp")
	}
	return ts, nil
}
