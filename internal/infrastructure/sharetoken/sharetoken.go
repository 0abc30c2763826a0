// Package sharetoken mints public share tokens. Tokens are shortuuid
// encodings of random (v4) UUIDs, so every token carries 122 bits from
// crypto/rand.
package sharetoken

import (
	"strings"

	"github.com/lithammer/shortuuid/v4"
)

const (
	minLen = 16
	maxLen = 32
)

type Generator struct{}

func New() *Generator { return &Generator{} }

func (g *Generator) Generate() string {
	return shortuuid.New()
}

// WellFormed rejects strings that no generator output could match, letting
// the public route refuse obvious guesses without touching the database.
func WellFormed(token string) bool {
	if len(token) < minLen || len(token) > maxLen {
		return false
	}
	for _, r := range token {
		if !strings.ContainsRune(shortuuid.DefaultAlphabet, r) {
			return false
		}
	}
	return true
}
