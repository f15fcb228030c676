package secret

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"math/big"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	// PasswordCost is the bcrypt cost for voter passwords
	PasswordCost = 12
	// CodeCost is the bcrypt cost for short-lived one-time codes
	CodeCost = bcrypt.DefaultCost
)

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	return hash(password, PasswordCost)
}

// HashCode hashes a one-time code using bcrypt
func HashCode(code string) (string, error) {
	return hash(code, CodeCost)
}

func hash(value string, cost int) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(value), cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Verify compares a plain value with a bcrypt hash
func Verify(value, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(value))
	return err == nil
}

// HashToken hashes a bearer token using SHA256 (for the revocation registry)
func HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// Digits generates a uniformly random numeric code of the given length
func Digits(length int) (string, error) {
	var sb strings.Builder
	sb.Grow(length)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		sb.WriteByte(byte('0' + n.Int64()))
	}
	return sb.String(), nil
}
