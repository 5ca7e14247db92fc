package model

import (
	"fmt"
	"strings"
)

// ResourceKind identifies both a resource and the producer that yields it.
type ResourceKind int

const (
	Ore ResourceKind = iota
	Clay
	Obsidian
	Geode
)

// MaxKinds is the largest number of kinds a blueprint can declare.
const MaxKinds = int(Geode) + 1

var kindNames = [MaxKinds]string{"ore", "clay", "obsidian", "geode"}

// String returns the lower-case name of the kind.
func (k ResourceKind) String() string {
	if k < 0 || int(k) >= MaxKinds {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseResourceKind maps a case-insensitive name back to its kind.
func ParseResourceKind(s string) (ResourceKind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range kindNames {
		if n == name {
			return ResourceKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown resource kind %q", s)
}

// MarshalText encodes the kind by name.
func (k ResourceKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name.
func (k *ResourceKind) UnmarshalText(b []byte) error {
	v, err := ParseResourceKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// Vector holds one count per resource kind. It is a value type: assigning
// or passing a Vector copies it.
type Vector [MaxKinds]int

// Add returns v+o component-wise.
func (v Vector) Add(o Vector) Vector {
	for i := range v {
		v[i] += o[i]
	}
	return v
}

// Sub returns v-o component-wise.
func (v Vector) Sub(o Vector) Vector {
	for i := range v {
		v[i] -= o[i]
	}
	return v
}

// Scale returns v multiplied by n.
func (v Vector) Scale(n int) Vector {
	for i := range v {
		v[i] *= n
	}
	return v
}

// Covers reports whether every component of v is at least the matching
// component of o.
func (v Vector) Covers(o Vector) bool {
	for i := range v {
		if v[i] < o[i] {
			return false
		}
	}
	return true
}
