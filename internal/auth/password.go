package auth

import (
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("empty password")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func ComparePassword(hash, password string) error {
	if hash == "" || password == "" {
		return errors.New("missing hash or password")
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// VerifyAdmin checks the configured admin credential. A bcrypt hash takes
// precedence over the plaintext fallback.
func VerifyAdmin(user, password, cfgUser, cfgPassword, cfgHash string) error {
	if subtle.ConstantTimeCompare([]byte(user), []byte(cfgUser)) != 1 {
		return errors.New("invalid credentials")
	}
	if cfgHash != "" {
		if err := ComparePassword(cfgHash, password); err != nil {
			return errors.New("invalid credentials")
		}
		return nil
	}
	if cfgPassword == "" || subtle.ConstantTimeCompare([]byte(password), []byte(cfgPassword)) != 1 {
		return errors.New("invalid credentials")
	}
	return nil
}
