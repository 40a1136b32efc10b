// Package catalog holds the immutable set of purchasable number variants.
// The catalog is built once at process start and never mutated afterwards.
package catalog

import (
	"errors"
	"iter"
)

// ErrUnknownVariant is returned when a lookup references a key that is not
// part of the catalog. Callers surface it; it is never retried.
var ErrUnknownVariant = errors.New("catalog: unknown variant")

// Kind distinguishes virtual numbers from physical SIM-backed ones.
type Kind string

const (
	KindVirtual  Kind = "virt"
	KindPhysical Kind = "phys"
)

// Format is the instance-number rule of a variant: a fixed digit prefix
// followed by a count of random digits. The generated national part always
// has exactly len(Prefix)+Digits digits.
type Format struct {
	Prefix string
	Digits int
}

// Len returns the total digit count the rule produces.
func (f Format) Len() int { return len(f.Prefix) + f.Digits }

// Variant is one purchasable country/number-type configuration.
type Variant struct {
	Key         string
	DisplayName string
	Price       int    // rubles
	Code        string // dialing code, e.g. "+380"
	Country     string
	Flag        string
	Kind        Kind
	Format      Format
}

// Catalog is a read-only, insertion-ordered variant collection.
type Catalog struct {
	variants []Variant
	byKey    map[string]int
}

// New builds a catalog from the given variants, keeping insertion order.
// Duplicate keys keep the first entry.
func New(variants ...Variant) *Catalog {
	c := &Catalog{
		variants: make([]Variant, 0, len(variants)),
		byKey:    make(map[string]int, len(variants)),
	}
	for _, v := range variants {
		if _, exists := c.byKey[v.Key]; exists {
			continue
		}
		c.byKey[v.Key] = len(c.variants)
		c.variants = append(c.variants, v)
	}
	return c
}

// Get returns the variant registered under key.
func (c *Catalog) Get(key string) (Variant, error) {
	idx, ok := c.byKey[key]
	if !ok {
		return Variant{}, ErrUnknownVariant
	}
	return c.variants[idx], nil
}

// All yields variants in insertion order. The sequence is restartable and
// finite; it is what the selection menu renders from.
func (c *Catalog) All() iter.Seq[Variant] {
	return func(yield func(Variant) bool) {
		for _, v := range c.variants {
			if !yield(v) {
				return
			}
		}
	}
}

// Len reports the number of variants.
func (c *Catalog) Len() int { return len(c.variants) }

// Default returns the built-in storefront catalog.
func Default() *Catalog {
	return New(
		Variant{Key: "usa", DisplayName: "⁺¹ USA 🇺🇸 [virt]", Price: 55, Code: "+1", Country: "USA", Flag: "🇺🇸", Kind: KindVirtual, Format: Format{Digits: 10}},
		Variant{Key: "myanmar", DisplayName: "⁺⁹⁵ Myanmar 🇲🇲 [virt]", Price: 50, Code: "+95", Country: "Myanmar", Flag: "🇲🇲", Kind: KindVirtual, Format: Format{Digits: 9}},
		Variant{Key: "india", DisplayName: "⁺⁹¹ India 🇮🇳 [virt]", Price: 50, Code: "+91", Country: "India", Flag: "🇮🇳", Kind: KindVirtual, Format: Format{Digits: 9}},
		Variant{Key: "mexico", DisplayName: "⁺⁵² Mexico 🇲🇽 [virt]", Price: 50, Code: "+52", Country: "Mexico", Flag: "🇲🇽", Kind: KindVirtual, Format: Format{Digits: 9}},
		Variant{Key: "argentina", DisplayName: "⁺⁵⁴ Argentina 🇦🇷 [virt]", Price: 50, Code: "+54", Country: "Argentina", Flag: "🇦🇷", Kind: KindVirtual, Format: Format{Digits: 9}},
		Variant{Key: "bangladesh", DisplayName: "⁺⁸⁸⁰ Bangladesh 🇧🇩 [virt]", Price: 65, Code: "+880", Country: "Bangladesh", Flag: "🇧🇩", Kind: KindVirtual, Format: Format{Digits: 9}},
		Variant{Key: "ukraine", DisplayName: "⁺³⁸⁰ Ukraine 🇺🇦 [phys]", Price: 100, Code: "+380", Country: "Ukraine", Flag: "🇺🇦", Kind: KindPhysical, Format: Format{Prefix: "97", Digits: 7}},
		Variant{Key: "belarus", DisplayName: "⁺³⁷⁵ Belarus 🇧🇾 [phys]", Price: 110, Code: "+375", Country: "Belarus", Flag: "🇧🇾", Kind: KindPhysical, Format: Format{Prefix: "29", Digits: 7}},
		Variant{Key: "tajikistan", DisplayName: "⁺⁹⁹² Tajikistan 🇹🇯 [phys]", Price: 150, Code: "+992", Country: "Tajikistan", Flag: "🇹🇯", Kind: KindPhysical, Format: Format{Prefix: "98", Digits: 7}},
		Variant{Key: "uzbekistan", DisplayName: "⁺⁹⁹⁸ Uzbekistan 🇺🇿 [phys]", Price: 100, Code: "+998", Country: "Uzbekistan", Flag: "🇺🇿", Kind: KindPhysical, Format: Format{Prefix: "99", Digits: 7}},
	)
}
