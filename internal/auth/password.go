package auth

import (
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

const DefaultBcryptCost = 10

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9_+&*-]+(\.[a-zA-Z0-9_+&*-]+)*@([a-zA-Z0-9-]+\.)+[a-zA-Z]{2,7}$`)

// HashPassword hashes a plain text password with bcrypt. A fresh salt is
// generated per call, so hashing the same password twice yields different
// outputs.
func HashPassword(password string, cost int) (string, error) {
	if cost == 0 {
		cost = DefaultBcryptCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword verifies a plain text password against a stored hash.
// A malformed hash is reported as a mismatch, never an error.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// IsValidPassword requires a minimum length of 6. No upper bound and no
// complexity requirement.
func IsValidPassword(password string) bool {
	return len(password) >= 6
}

// IsValidEmail checks for a conventional local@domain.tld shape with a
// 2-7 letter TLD.
func IsValidEmail(email string) bool {
	if email == "" {
		return false
	}
	return emailRegex.MatchString(email)
}
