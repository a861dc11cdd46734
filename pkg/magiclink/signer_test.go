package magiclink

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSignerRoundTrip(t *testing.T) {
	signer := NewSigner("test-secret", time.Hour)

	token, expiresAt, err := signer.Generate("IPP-STU01-INT01-2026")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.True(t, expiresAt.After(time.Now()))

	ippID, parsedExpiry, err := signer.Parse(token)
	require.NoError(t, err)
	require.Equal(t, "IPP-STU01-INT01-2026", ippID)
	require.Equal(t, expiresAt.Unix(), parsedExpiry.Unix())
}

func TestSignerRejectsTampering(t *testing.T) {
	signer := NewSigner("test-secret", time.Hour)

	token, _, err := signer.Generate("IPP-STU01-INT01-2026")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	parts[3] = strings.Repeat("0", len(parts[3]))
	_, _, err = signer.Parse(strings.Join(parts, "."))
	require.Error(t, err)
}

func TestSignerRejectsWrongSecret(t *testing.T) {
	signer := NewSigner("secret-a", time.Hour)
	other := NewSigner("secret-b", time.Hour)

	token, _, err := signer.Generate("IPP-STU01-INT01-2026")
	require.NoError(t, err)

	_, _, err = other.Parse(token)
	require.Error(t, err)
}

func TestSignerRejectsExpired(t *testing.T) {
	signer := NewSigner("test-secret", -time.Minute)

	token, _, err := signer.Generate("IPP-STU01-INT01-2026")
	require.NoError(t, err)

	_, _, err = signer.Parse(token)
	require.ErrorContains(t, err, "expired")
}

func TestGenerateProducesDistinctTokens(t *testing.T) {
	signer := NewSigner("test-secret", time.Hour)

	first, _, err := signer.Generate("IPP-STU01-INT01-2026")
	require.NoError(t, err)
	second, _, err := signer.Generate("IPP-STU01-INT01-2026")
	require.NoError(t, err)
	require.NotEqual(t, first, second)
}

func TestEvaluationLink(t *testing.T) {
	link := EvaluationLink("http://portal.local/", "IPP-1", "tok")
	require.Equal(t, "http://portal.local/mentor/evaluate/IPP-1?token=tok", link)
}
