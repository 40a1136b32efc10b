// Package number produces synthetic instance identifiers and one-shot
// verification codes. Values are display-only tokens with no external meaning.
package number

import (
	"math/rand/v2"
	"strings"

	"numbot/catalog"
)

const verificationCodeLen = 5

// Generator builds numbers from a variant's format rule plus an injectable
// randomness source.
type Generator struct {
	intn func(int) int
}

// New returns a generator backed by rnd, or by the shared global source when
// rnd is nil. Pass a seeded *rand.Rand for deterministic output in tests.
func New(rnd *rand.Rand) *Generator {
	if rnd == nil {
		return &Generator{intn: rand.IntN}
	}
	return &Generator{intn: rnd.IntN}
}

// Generate returns the instance identifier for v: dialing code, the rule's
// fixed prefix, then the rule's count of random digits, with no separators.
// The output length is fully determined by the variant.
func (g *Generator) Generate(v catalog.Variant) string {
	var b strings.Builder
	b.Grow(len(v.Code) + v.Format.Len())
	b.WriteString(v.Code)
	b.WriteString(v.Format.Prefix)
	g.writeDigits(&b, v.Format.Digits)
	return b.String()
}

// VerificationCode returns a fresh 5-digit numeric code. Codes are not
// derived from any secret and are never stored.
func (g *Generator) VerificationCode() string {
	var b strings.Builder
	b.Grow(verificationCodeLen)
	g.writeDigits(&b, verificationCodeLen)
	return b.String()
}

func (g *Generator) writeDigits(b *strings.Builder, n int) {
	for i := 0; i < n; i++ {
		b.WriteByte(byte('0' + g.intn(10)))
	}
}
