package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("hunter2!")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))

	require.True(t, VerifyPassword("hunter2!", hash))
	require.False(t, VerifyPassword("hunter3!", hash))
}

func TestHashPasswordSaltsAreUnique(t *testing.T) {
	a, err := HashPassword("same-secret")
	require.NoError(t, err)
	b, err := HashPassword("same-secret")
	require.NoError(t, err)

	require.NotEqual(t, a, b)
	require.True(t, VerifyPassword("same-secret", a))
	require.True(t, VerifyPassword("same-secret", b))
}

func TestVerifyPasswordRejectsMalformedHashes(t *testing.T) {
	tests := []struct {
		name string
		hash string
	}{
		{"empty", ""},
		{"placeholder for identity accounts", "!"},
		{"wrong algorithm", "$bcrypt$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA"},
		{"wrong version", "$argon2id$v=18$m=65536,t=3,p=2$c2FsdA$aGFzaA"},
		{"truncated", "$argon2id$v=19$m=65536,t=3,p=2$c2FsdA"},
		{"bad base64 salt", "$argon2id$v=19$m=65536,t=3,p=2$!!$aGFzaA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.False(t, VerifyPassword("anything", tt.hash))
		})
	}
}

func TestFingerprintToken(t *testing.T) {
	fp1 := FingerprintToken("token-one")
	fp2 := FingerprintToken("token-two")

	require.Equal(t, fp1, FingerprintToken("token-one"), "fingerprint must be deterministic")
	require.NotEqual(t, fp1, fp2)
	require.Len(t, fp1, 43, "base64url SHA-256 is 43 chars")
}

func TestGenerateEd25519Key(t *testing.T) {
	pemKey, err := GenerateEd25519Key()
	require.NoError(t, err)
	require.Contains(t, string(pemKey), "PRIVATE KEY")

	other, err := GenerateEd25519Key()
	require.NoError(t, err)
	require.NotEqual(t, pemKey, other)
}
