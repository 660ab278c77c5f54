package utils

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	namePattern  = regexp.MustCompile(`^[A-Za-z ]+$`)
	phonePattern = regexp.MustCompile(`^[0-9+]{8,20}$`)
)

func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// IsValidPassword requires six characters with at least one letter and one digit.
func IsValidPassword(password string) bool {
	if len(password) < 6 {
		return false
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}

func IsValidName(name string) bool {
	return len(name) >= 3 && namePattern.MatchString(name)
}

func IsValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

func SanitizeString(input string) string {
	return strings.TrimSpace(input)
}

func IsValidRating(rating int) bool {
	return rating >= 1 && rating <= 5
}
