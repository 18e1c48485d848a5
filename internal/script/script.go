// Package script answers which writing system a piece of text uses.
package script

import "regexp"

var (
	banglaRange = regexp.MustCompile(`[\x{0980}-\x{09FF}]`)
	hangulRange = regexp.MustCompile(`[\x{AC00}-\x{D7AF}]`)
	emailShape  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// ContainsBangla reports whether s has at least one rune in the Bengali block.
func ContainsBangla(s string) bool { return banglaRange.MatchString(s) }

// ContainsHangul reports whether s has at least one precomposed Hangul syllable.
func ContainsHangul(s string) bool { return hangulRange.MatchString(s) }

// IsEmail applies the loose address shape used by the request form.
func IsEmail(s string) bool { return emailShape.MatchString(s) }
