package validator

import (
	"strings"
)

// MaxPlateRunes caps how much of a typed registration is stored
const MaxPlateRunes = 32

// NormalizePlate uppercases a vehicle registration and collapses whitespace.
// Any text is accepted; an empty plate returns "" and longer input is cut to MaxPlateRunes.
func NormalizePlate(plate string) string {
	plate = strings.Join(strings.Fields(strings.ToUpper(plate)), " ")
	if runes := []rune(plate); len(runes) > MaxPlateRunes {
		plate = strings.TrimSpace(string(runes[:MaxPlateRunes]))
	}
	return plate
}
