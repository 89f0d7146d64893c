package resource

import (
	"crypto/sha512"
	"encoding/hex"
	"strings"
)

// FingerprintTokenField is the fingerprint order entry standing for the shared
// secret.
const FingerprintTokenField = "token"

// Fingerprinter digests the concatenated fingerprint material.
type Fingerprinter interface {
	Digest(material string) string
}

// SHA512Fingerprinter is the digest used by the Soldo webhook signing
// scheme: lower-case hex SHA-512.
type SHA512Fingerprinter struct{}

func (SHA512Fingerprinter) Digest(material string) string {
	sum := sha512.Sum512([]byte(material))
	return hex.EncodeToString(sum[:])
}

// FingerprintFunc adapts a function to Fingerprinter.
type FingerprintFunc func(material string) string

func (f FingerprintFunc) Digest(material string) string {
	return f(material)
}

// ParseFingerprintOrder splits a comma separated field order, trimming
// entries and dropping empty ones.
func ParseFingerprintOrder(order string) []string {
	parts := strings.Split(order, ",")
	fields := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		fields = append(fields, trimmed)
	}
	return fields
}

// BuildFingerprint concatenates the named attributes in order, substituting
// the secret for the "token" entry, and digests the result with the kind
// fingerprinter. When the order never names "token" the secret is appended
// last. Unset attributes contribute an empty string.
func (r *Resource) BuildFingerprint(order []string, secret string) string {
	var material strings.Builder
	secretUsed := false
	for _, field := range order {
		if field == FingerprintTokenField {
			material.WriteString(secret)
			secretUsed = true
			continue
		}
		value, _ := r.AttributeString(field)
		material.WriteString(value)
	}
	if !secretUsed {
		material.WriteString(secret)
	}
	return r.kind.fingerprinter().Digest(material.String())
}
