package number

import (
	"math/rand/v2"
	"regexp"
	"testing"

	"numbot/catalog"
)

func seeded() *Generator {
	return New(rand.New(rand.NewPCG(1, 2)))
}

func TestGenerateMatchesFormatRule(t *testing.T) {
	t.Parallel()

	gen := seeded()

	for v := range catalog.Default().All() {
		got := gen.Generate(v)

		wantLen := len(v.Code) + v.Format.Len()
		if len(got) != wantLen {
			t.Fatalf("%s: expected length %d, got %d (%s)", v.Key, wantLen, len(got), got)
		}
		wantPrefix := v.Code + v.Format.Prefix
		if got[:len(wantPrefix)] != wantPrefix {
			t.Fatalf("%s: expected prefix %s, got %s", v.Key, wantPrefix, got)
		}
	}
}

func TestGenerateConcreteRules(t *testing.T) {
	t.Parallel()

	gen := seeded()
	cat := catalog.Default()

	usa, err := cat.Get("usa")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got := gen.Generate(usa); !regexp.MustCompile(`^\+1\d{10}$`).MatchString(got) {
		t.Fatalf("usa number %q does not match ^\\+1\\d{10}$", got)
	}

	ukraine, err := cat.Get("ukraine")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got := gen.Generate(ukraine); !regexp.MustCompile(`^\+38097\d{7}$`).MatchString(got) {
		t.Fatalf("ukraine number %q does not match ^\\+38097\\d{7}$", got)
	}
}

func TestGenerateIsDeterministicWithSeededSource(t *testing.T) {
	t.Parallel()

	v := catalog.Variant{Key: "t", Code: "+7", Format: catalog.Format{Digits: 6}}

	a := New(rand.New(rand.NewPCG(42, 42))).Generate(v)
	b := New(rand.New(rand.NewPCG(42, 42))).Generate(v)
	if a != b {
		t.Fatalf("expected identical output for identical seeds, got %s and %s", a, b)
	}
}

func TestVerificationCode(t *testing.T) {
	t.Parallel()

	gen := seeded()
	re := regexp.MustCompile(`^\d{5}$`)
	for i := 0; i < 50; i++ {
		code := gen.VerificationCode()
		if !re.MatchString(code) {
			t.Fatalf("code %q is not 5 numeric digits", code)
		}
	}
}

func TestNewNilSourceUsesGlobal(t *testing.T) {
	t.Parallel()

	gen := New(nil)
	v := catalog.Variant{Key: "t", Code: "+1", Format: catalog.Format{Digits: 10}}
	if got := gen.Generate(v); len(got) != 12 {
		t.Fatalf("expected 12 characters, got %d (%s)", len(got), got)
	}
}
