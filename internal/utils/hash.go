package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword returns a bcrypt hash of the password combined with the
// server-side pepper.
func HashPassword(password, pepper string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password+pepper), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword compares a bcrypt hash with a peppered plaintext candidate.
func CheckPassword(hashedPassword, password, pepper string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password+pepper)) == nil
}
