// Package authutil provides password hashing helpers used by registration
// and login.
package authutil

import "golang.org/x/crypto/bcrypt"

// BcryptCost is the work factor for password hashes. 12 keeps hashing under
// ~250ms on current hardware while staying expensive for offline attacks.
const BcryptCost = 12

// HashPassword returns a bcrypt hash of the given password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored bcrypt hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
