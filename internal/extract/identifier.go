package extract

import (
	"fmt"
	"strings"
)

// NormalizeIdentifier derives a stable identifier for an entry. The three
// prefixes form disjoint namespaces, so a dotted-code identifier can never
// collide with a sosa-derived one even when the numeric values coincide.
func NormalizeIdentifier(number, sosa string, index int) string {
	if number != "" {
		normalized := strings.ReplaceAll(number, " ", "")
		return "I_" + strings.ReplaceAll(normalized, ".", "_")
	}
	if digits := strings.ReplaceAll(sosa, " ", ""); digits != "" {
		return "S_" + digits
	}
	return fmt.Sprintf("AUTO_%04d", index)
}

// ChildIdentifier maps a raw child reference token (as printed, e.g. "2.1")
// to the identifier namespace used for dotted-code entries.
func ChildIdentifier(ref string) string {
	return "I_" + strings.ReplaceAll(ref, ".", "_")
}
