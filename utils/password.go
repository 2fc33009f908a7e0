package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

const passwordCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// TempPasswordLength is the length of passwords issued to imported users.
const TempPasswordLength = 16

// GenerateRandomPassword draws n characters from crypto/rand.
func GenerateRandomPassword(n int) (string, error) {
	limit := big.NewInt(int64(len(passwordCharset)))
	password := make([]byte, n)
	for i := range password {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("generate password: %w", err)
		}
		password[i] = passwordCharset[idx.Int64()]
	}
	return string(password), nil
}

func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// NewTempPasswordHash returns a bcrypt hash of a fresh random password. The
// plaintext is discarded; imported users reset it out of band.
func NewTempPasswordHash(cost int) (string, error) {
	plain, err := GenerateRandomPassword(TempPasswordLength)
	if err != nil {
		return "", err
	}
	return HashPassword(plain, cost)
}
