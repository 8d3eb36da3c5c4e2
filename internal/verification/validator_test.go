package verification

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimpleTokenValidator(t *testing.T) {
	v := SimpleTokenValidator{}

	valid := []string{
		"ABCD-1234-XYZ",
		"BATCH-2025-08-0001",
		"1234",
		"A-B-C",
		strings.Repeat("A", 64),
	}
	for _, token := range valid {
		assert.NoError(t, v.Validate(token), token)
	}

	invalid := []string{
		"",
		"   ",
		"ABC",                      // too short
		strings.Repeat("A", 65),    // too long
		"-ABCD",                    // leading dash
		"abcd-1234",                // lower case
		"ABCD_1234",                // underscore
		"ABCD 1234",                // space
	}
	for _, token := range invalid {
		assert.Error(t, v.Validate(token), token)
	}
}
