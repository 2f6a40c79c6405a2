// Package difficulty defines the three-tier difficulty scale and the
// conversions between its string, numeric and label forms. Every other
// package compares tiers only as Tier values.
package difficulty

import (
	"fmt"
	"strconv"
	"strings"
)

// Tier is an ordered difficulty level. The zero value None means no
// tier is known yet.
type Tier int

const (
	None   Tier = iota // insufficient data / not given
	Easy               // 1
	Medium             // 2
	Hard               // 3
)

// All returns the selectable tiers in ascending order.
func All() []Tier {
	return []Tier{Easy, Medium, Hard}
}

// lexicon maps lowercase tier names to tiers.
var lexicon = map[string]Tier{
	"easy":   Easy,
	"medium": Medium,
	"hard":   Hard,
}

// String returns the lowercase name, or "N/A" for None.
func (t Tier) String() string {
	switch t {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	default:
		return "N/A"
	}
}

// Title returns the capitalized display name, or "N/A" for None.
func (t Tier) Title() string {
	switch t {
	case Easy:
		return "Easy"
	case Medium:
		return "Medium"
	case Hard:
		return "Hard"
	default:
		return "N/A"
	}
}

// Code returns the numeric code 1..3, or 0 for None.
func (t Tier) Code() int {
	if !t.Valid() {
		return 0
	}
	return int(t)
}

// Valid reports whether t is one of Easy, Medium or Hard.
func (t Tier) Valid() bool {
	return t >= Easy && t <= Hard
}

// Parse reads a tier from a name ("easy", "Hard") or a digit ("1".."3").
func Parse(s string) (Tier, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if t, ok := lexicon[s]; ok {
		return t, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		if t, ok := FromCode(n); ok {
			return t, nil
		}
	}
	return None, fmt.Errorf("unknown difficulty %q", s)
}

// ParseLevel normalizes a tier name through the lexicon. Unrecognized
// names map to Easy.
func ParseLevel(s string) Tier {
	if t, ok := lexicon[strings.ToLower(strings.TrimSpace(s))]; ok {
		return t
	}
	return Easy
}

// FromCode converts a numeric code 1..3 to a tier.
func FromCode(n int) (Tier, bool) {
	t := Tier(n)
	return t, t.Valid()
}

// FromLabel maps a predicted class label to a tier: 1 is Easy, 2 is
// Medium and every other label is Hard.
func FromLabel(label int) Tier {
	switch label {
	case 1:
		return Easy
	case 2:
		return Medium
	default:
		return Hard
	}
}
