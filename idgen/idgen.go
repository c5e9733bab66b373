// Package idgen generates the identifiers used for stored syllabus records
// and request traces.
package idgen

import (
	"crypto/rand"
	"fmt"

	"github.com/google/uuid"
)

// Generator produces unique string identifiers.
type Generator func() string

// UUIDv7 returns a Generator of RFC 9562 v7 UUIDs. IDs sort by creation time.
func UUIDv7() Generator {
	return func() string {
		return uuid.Must(uuid.NewV7()).String()
	}
}

// Hex returns a Generator of lowercase hexadecimal IDs of n characters.
func Hex(n int) Generator {
	const digits = "0123456789abcdef"
	return func() string {
		buf := make([]byte, n)
		if _, err := rand.Read(buf); err != nil {
			panic("idgen: crypto/rand failed: " + err.Error())
		}
		for i := range buf {
			buf[i] = digits[buf[i]&0x0f]
		}
		return string(buf)
	}
}

// Default generates record IDs.
var Default Generator = UUIDv7()

// New produces an ID using Default.
func New() string { return Default() }

// Parse validates s as a UUID and returns its canonical form.
func Parse(s string) (string, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid UUID: %w", err)
	}
	return u.String(), nil
}
