// Package cryptox wraps the password hashing primitives used by the server.
package cryptox

import "golang.org/x/crypto/bcrypt"

// bcryptCost matches the work factor the service has always used; raising it
// invalidates no existing hashes but makes new signups slower.
const bcryptCost = 5

// HashPassword returns a salted bcrypt digest of the plaintext password.
func HashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
}

// CheckPassword reports whether the plaintext password matches the stored
// bcrypt digest.
func CheckPassword(hash []byte, password string) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}
