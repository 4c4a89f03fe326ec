package bones

import (
	"fmt"
	"strings"
)

// Side identifies a hand.
type Side string

const (
	Left  Side = "LEFT"
	Right Side = "RIGHT"
)

// Sides lists every valid side in display order.
var Sides = []Side{Left, Right}

// ParseSide accepts "LEFT"/"RIGHT" in any letter case, plus the short forms
// "L" and "R".
func ParseSide(s string) (Side, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "LEFT", "L":
		return Left, nil
	case "RIGHT", "R":
		return Right, nil
	}
	return "", fmt.Errorf("invalid side %q: must be LEFT or RIGHT", s)
}

// Valid reports whether s is LEFT or RIGHT.
func (s Side) Valid() bool {
	return s == Left || s == Right
}

// Opposite returns the other hand.
func (s Side) Opposite() Side {
	if s == Left {
		return Right
	}
	return Left
}

func (s Side) String() string {
	return string(s)
}

// suffixes is the side-suffix table used for renaming bones between hands.
var suffixes = map[Side]string{
	Left:  ".L",
	Right: ".R",
}

// fingerBases are the side-less bone names in registry order.
var fingerBases = []string{
	"親指０", "親指１", "親指２",
	"人指１", "人指２", "人指３",
	"中指１", "中指２", "中指３",
	"薬指１", "薬指２", "薬指３",
	"小指１", "小指２", "小指３",
}

// Count is the number of registry bones per side.
const Count = 15

var registry = map[Side][]string{
	Left:  withSuffix(".L"),
	Right: withSuffix(".R"),
}

func withSuffix(suffix string) []string {
	names := make([]string, len(fingerBases))
	for i, base := range fingerBases {
		names[i] = base + suffix
	}
	return names
}

// For returns the ordered bone names for side. The result is a copy and may be
// modified by the caller. An invalid side yields nil.
func For(side Side) []string {
	names, ok := registry[side]
	if !ok {
		return nil
	}
	out := make([]string, len(names))
	copy(out, names)
	return out
}

// Contains reports whether name is a registry bone for side.
func Contains(side Side, name string) bool {
	for _, n := range registry[side] {
		if n == name {
			return true
		}
	}
	return false
}

// SuffixFor returns the bone name suffix of side, or "" for an invalid side.
func SuffixFor(side Side) string {
	return suffixes[side]
}

// Rename swaps the from-side suffix of name for the to-side suffix.
// A name that does not end in the from suffix is returned unchanged with
// ok=false.
func Rename(name string, from, to Side) (renamed string, ok bool) {
	fromSuffix, toSuffix := suffixes[from], suffixes[to]
	if fromSuffix == "" || toSuffix == "" || !strings.HasSuffix(name, fromSuffix) {
		return name, false
	}
	return strings.TrimSuffix(name, fromSuffix) + toSuffix, true
}
