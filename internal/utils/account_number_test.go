package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccountNumberCandidate_Format(t *testing.T) {
	for i := 0; i < 100; i++ {
		num, err := GenerateAccountNumberCandidate()
		require.NoError(t, err)
		assert.Len(t, num, 12)
		assert.True(t, strings.HasPrefix(num, AccountNumberPrefix))
		assert.True(t, IsValidAccountNumber(num), "generated candidate %q should be valid", num)
	}
}

func TestIsValidAccountNumber(t *testing.T) {
	assert.True(t, IsValidAccountNumber("NB0123456789"))
	assert.False(t, IsValidAccountNumber("NB123"))            // too short
	assert.False(t, IsValidAccountNumber("nb0123456789"))     // lowercase prefix
	assert.False(t, IsValidAccountNumber("NB01234567890"))    // too long
	assert.False(t, IsValidAccountNumber("N10123456789"))     // digit in prefix
	assert.False(t, IsValidAccountNumber(""))
}
