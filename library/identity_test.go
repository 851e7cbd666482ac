package library

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateISBN(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		ok         bool
		normalized string
	}{
		{"isbn13 with hyphens", "978-3-16-148410-0", true, "9783161484100"},
		{"isbn13 plain", "9783161484100", true, "9783161484100"},
		{"isbn10 converts to isbn13", "0-306-40615-2", true, "9780306406157"},
		{"isbn10 with X check digit", "0-8044-2957-X", true, "9780804429573"},
		{"isbn prefix and spaces", "ISBN 0 306 40615 2", true, "9780306406157"},
		{"isbn10 wrong check digit", "0-306-40615-3", false, "9780306406157"},
		{"isbn13 wrong check digit", "978-3-16-148410-9", false, "9783161484100"},
		{"garbage", "not-an-isbn", false, ""},
		{"too short", "12345", false, ""},
		{"empty", "", false, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ok, normalized := ValidateISBN(tc.raw)
			require.Equal(t, tc.ok, ok)
			require.Equal(t, tc.normalized, normalized)
		})
	}
}

func TestPasswordRoundTrip(t *testing.T) {
	digest, err := HashPassword("Sup3r.Secret")
	require.NoError(t, err)
	require.True(t, CheckPassword("Sup3r.Secret", digest))
	require.False(t, CheckPassword("wrong", digest))
	require.False(t, CheckPassword("", digest))
}

func TestHashPasswordSalts(t *testing.T) {
	d1, err := HashPassword("same input")
	require.NoError(t, err)
	d2, err := HashPassword("same input")
	require.NoError(t, err)

	// Salted: different digests, both verify.
	require.NotEqual(t, d1, d2)
	require.True(t, CheckPassword("same input", d1))
	require.True(t, CheckPassword("same input", d2))
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	_, err := HashPassword("")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestTitleCase(t *testing.T) {
	require.Equal(t, "George Orwell", titleCase("george ORWELL"))
	require.Equal(t, "Jean-Paul", titleCase("jean-paul"))
	require.Equal(t, "O'Brien", titleCase("o'brien"))
	require.Equal(t, "", titleCase("   "))
	require.Equal(t, "London", capitalize("LONDON"))
	require.Equal(t, "", capitalize(""))
}
