// Package util provides utility functions for the TalentPipe application.
package util

import (
	"math/rand/v2"
	"strings"
)

// GenerateRandomID generates a random ID with the specified prefix and hex length.
// The returned ID will be in the format: "{prefix}{hex_string}".
func GenerateRandomID(prefix string, hexLength int) string {
	return prefix + GenerateRandomHex(hexLength)
}

// GenerateRandomHex generates a random hexadecimal string of the specified length.
// Uses math/rand/v2; entity ids need uniqueness, not cryptographic strength.
func GenerateRandomHex(length int) string {
	if length <= 0 {
		return ""
	}

	const hexChars = "0123456789abcdef"
	var builder strings.Builder
	builder.Grow(length)

	for i := 0; i < length; i++ {
		builder.WriteByte(hexChars[rand.IntN(16)])
	}

	return builder.String()
}

// GenerateProcessID generates a unique interview process ID with "proc_" prefix.
func GenerateProcessID() string {
	return GenerateRandomID("proc_", 32)
}

// GenerateStageID generates a unique interview stage ID with "stg_" prefix.
func GenerateStageID() string {
	return GenerateRandomID("stg_", 32)
}

// GenerateInterviewID generates a unique interview session ID with "int_" prefix.
func GenerateInterviewID() string {
	return GenerateRandomID("int_", 32)
}

// GenerateQuestionID generates a unique question ID with "q_" prefix.
func GenerateQuestionID() string {
	return GenerateRandomID("q_", 32)
}

// GenerateEntityID generates a unique ID for posting and candidate records.
func GenerateEntityID() string {
	return GenerateRandomID("", 32)
}
