package library

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword derives a salted bcrypt digest from plain. Empty passwords
// are rejected; everything else is up to the caller's strength policy.
func HashPassword(plain string) (string, error) {
	if plain == "" {
		return "", fmt.Errorf("%w: empty password", ErrInvalidInput)
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(digest), nil
}

// CheckPassword reports whether plain matches the stored digest. A mismatch
// is a plain false, never an error.
func CheckPassword(plain, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}

// ValidateISBN checks raw against the ISBN-10 and ISBN-13 checksum rules.
// Hyphens, spaces and an optional "ISBN" prefix are tolerated. A valid
// ISBN-10 is normalized to its 978-prefixed ISBN-13 equivalent. When the
// input has the right shape but the wrong check digit, the would-be
// normalized string is returned alongside ok=false so callers can show it
// in diagnostics. Inputs matching neither shape yield ("", false).
func ValidateISBN(raw string) (ok bool, normalized string) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = strings.TrimPrefix(s, "ISBN")
	s = strings.TrimPrefix(s, ":")
	s = strings.Map(func(r rune) rune {
		if r == '-' || r == ' ' {
			return -1
		}
		return r
	}, s)

	switch {
	case isISBN10Shape(s):
		return validateISBN10(s)
	case isISBN13Shape(s):
		return validateISBN13(s)
	default:
		return false, ""
	}
}

func isISBN10Shape(s string) bool {
	if len(s) != 10 {
		return false
	}
	for i := 0; i < 9; i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	last := s[9]
	return last == 'X' || (last >= '0' && last <= '9')
}

func isISBN13Shape(s string) bool {
	if len(s) != 13 {
		return false
	}
	for i := 0; i < 13; i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// validateISBN10 applies the weighted sum over the first nine digits
// (weights 10 down to 2) and normalizes to ISBN-13 either way.
func validateISBN10(s string) (bool, string) {
	sum := 0
	for i := 0; i < 9; i++ {
		sum += int(s[i]-'0') * (10 - i)
	}
	check := byte('0')
	switch c := 11 - sum%11; c {
	case 10:
		check = 'X'
	case 11:
		check = '0'
	default:
		check = byte('0' + c)
	}
	return check == s[9], toISBN13("978" + s[:9])
}

// validateISBN13 applies the alternating 1,3 weights over the first twelve
// digits. The normalized form always carries the recomputed check digit, so
// a failed input still shows what it would have normalized to.
func validateISBN13(s string) (bool, string) {
	return isbn13Check(s[:12]) == s[12], toISBN13(s[:12])
}

// toISBN13 appends the recomputed check digit to a 12-digit prefix.
func toISBN13(prefix string) string {
	return prefix + string(isbn13Check(prefix))
}

func isbn13Check(prefix string) byte {
	sum := 0
	for i := 0; i < 12; i++ {
		w := 1
		if i%2 == 1 {
			w = 3
		}
		sum += int(prefix[i]-'0') * w
	}
	c := 10 - sum%10
	if c == 10 {
		c = 0
	}
	return byte('0' + c)
}
