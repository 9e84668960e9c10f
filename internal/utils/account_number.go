package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
)

// AccountNumberPrefix is the fixed two-letter prefix on every public account number.
const AccountNumberPrefix = "NB"

// accountNumberDigits is the length of the numeric part.
const accountNumberDigits = 10

var accountNumberPattern = regexp.MustCompile(`^[A-Z]{2}\d{10}$`)

// GenerateAccountNumberCandidate produces a random public account number
// candidate: the fixed prefix followed by a zero-padded random number.
// Uniqueness is the caller's responsibility (check the directory, retry on
// collision).
func GenerateAccountNumberCandidate() (string, error) {
	max := new(big.Int).Exp(big.NewInt(10), big.NewInt(accountNumberDigits), nil)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("failed to read random bytes for account number: %w", err)
	}
	return fmt.Sprintf("%s%0*d", AccountNumberPrefix, accountNumberDigits, n), nil
}

// IsValidAccountNumber reports whether a string has the public account number
// format: two uppercase letters followed by ten digits.
func IsValidAccountNumber(s string) bool {
	return accountNumberPattern.MatchString(s)
}
