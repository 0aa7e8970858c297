package utils

import "regexp"

var (
	nationalIDPattern = regexp.MustCompile(`^\d{10}$`)
	phonePattern      = regexp.MustCompile(`^09\d{9}$`)
)

// ValidateNationalID reports whether s is exactly 10 decimal digits.
func ValidateNationalID(s string) bool {
	return nationalIDPattern.MatchString(s)
}

// ValidatePhoneNumber reports whether s is an Iranian mobile number:
// leading "09" followed by 9 digits.
func ValidatePhoneNumber(s string) bool {
	return phonePattern.MatchString(s)
}
