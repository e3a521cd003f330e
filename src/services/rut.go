package services

import (
	"regexp"
	"strings"
)

var rutPattern = regexp.MustCompile(`^\d{7,8}[0-9Kk]$`)

// NormalizeRUT validates the structural shape of a RUT and returns it with
// surrounding whitespace, dots and dashes removed ("12.345.678-5" ->
// "123456785"). The check digit is not verified.
func NormalizeRUT(rut string) (string, error) {
	rut = strings.TrimSpace(rut)
	if rut == "" {
		return "", NewValidationError("RUT is required")
	}

	clean := strings.NewReplacer(".", "", "-", "").Replace(rut)

	if len(clean) < 8 || len(clean) > 9 {
		return "", NewValidationError("RUT must have between 8 and 9 characters")
	}

	if !rutPattern.MatchString(clean) {
		return "", NewValidationError("Invalid RUT format. Expected format: XXXXXXXX-X")
	}

	return clean, nil
}
