package utils

import "golang.org/x/crypto/bcrypt"

// Only the self-hosted identity mode hashes passwords; hosted mode never
// sees a raw credential beyond proxying it to the provider.
const bcryptCost = 12

func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcryptCost)
	return string(b), err
}

func CheckPassword(hashed, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(pw)) == nil
}
