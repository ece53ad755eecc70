package account

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDigest_Deterministic(t *testing.T) {
	a := Digest("minha_senha123")
	b := Digest("minha_senha123")
	require.Equal(t, a, b)
}

func TestDigest_FixedLengthHex(t *testing.T) {
	for _, secret := range []string{"", "a", "abcd", "a much longer secret with spaces and açúcar"} {
		d := Digest(secret)
		assert.Len(t, d, 64)
		assert.Regexp(t, "^[0-9a-f]{64}$", d)
	}
}

func TestDigest_KnownVectors(t *testing.T) {
	assert.Equal(t, "7961fbe5f083c42e6a6376c877f978671e3bee9ed52783af089d6d5adf6afaa1", Digest("xyz1"))
	assert.Equal(t, "240be518fabd2724ddb6f04eeb1da5967448d7e831c08c8fa822809f74c720a9", Digest("admin123"))
}

func TestDigest_DistinctInputsDistinctOutputs(t *testing.T) {
	assert.NotEqual(t, Digest("abcd"), Digest("abce"))
}

func TestDigestPreview_Truncates(t *testing.T) {
	d := Digest("abcd")
	assert.Equal(t, d[:8], DigestPreview(d))
	assert.Equal(t, "short", DigestPreview("short"))
}
