package account

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest hashes a plaintext secret into the stored credential form: SHA-256
// over the UTF-8 bytes, lower-case hex, 64 characters. Deterministic on
// purpose — authentication compares digests by equality. There is no salt and
// no work factor; offline brute-force resistance is out of scope.
func Digest(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

// DigestPreview returns the first 8 characters of a digest for log lines.
// Full digests never go to the log.
func DigestPreview(digest string) string {
	if len(digest) <= 8 {
		return digest
	}
	return digest[:8]
}
