package letters

import "strings"

// visaCodes are the canonical short codes, matched by prefix.
var visaCodes = []string{"EB1", "EB2", "EB3", "O1", "L1", "H1B", "P1", "P3"}

var visaSeparators = strings.NewReplacer("-", "", " ", "", "_", "", ".", "", "/", "")

// NormalizeVisaType maps surface variants such as "EB-1A" or "o-1" to their
// canonical code. Unrecognized values are returned unchanged.
func NormalizeVisaType(visaType string) string {
	compact := visaSeparators.Replace(strings.ToUpper(strings.TrimSpace(visaType)))
	for _, code := range visaCodes {
		if strings.HasPrefix(compact, code) {
			return code
		}
	}
	return visaType
}
