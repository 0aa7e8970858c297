package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateNationalID(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"ten digits", "1234567890", true},
		{"too short", "12345", false},
		{"too long", "12345678901", false},
		{"letters", "12345abcde", false},
		{"empty", "", false},
		{"digits with space", "123456789 ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateNationalID(tt.input))
		})
	}
}

func TestValidatePhoneNumber(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"valid mobile", "09123456789", true},
		{"missing leading zero", "9123456789", false},
		{"wrong prefix", "08123456789", false},
		{"too short", "0912345678", false},
		{"too long", "091234567890", false},
		{"letters", "0912345678a", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidatePhoneNumber(tt.input))
		})
	}
}
