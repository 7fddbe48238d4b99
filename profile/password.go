package profile

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/pbkdf2"
)

const (
	hashIterations = 4096
	hashKeyLen     = 32
)

// HashPassword derives a hex-encoded PBKDF2-SHA256 hash of password, salted
// with the profile's name so identical passwords hash differently per user.
func HashPassword(p Profile, password string) string {
	salt := []byte(p.FirstName + p.LastName)
	key := pbkdf2.Key([]byte(password), salt, hashIterations, hashKeyLen, sha256.New)
	return hex.EncodeToString(key)
}

// VerifyPIN checks the sign-in PIN against the stored hash.
func VerifyPIN(p Profile, pin string) bool {
	return p.PINHash != "" && hashEqual(HashPassword(p, pin), p.PINHash)
}

// VerifyTradingPassword checks the trading password against the stored hash.
func VerifyTradingPassword(p Profile, password string) bool {
	return p.TradingPasswordHash != "" && hashEqual(HashPassword(p, password), p.TradingPasswordHash)
}

// TradingPasswordSatisfied reports whether entered clears the trading gate.
// A profile without a configured trading password always passes.
func TradingPasswordSatisfied(p Profile, entered string) bool {
	if p.TradingPasswordHash == "" {
		return true
	}
	return VerifyTradingPassword(p, entered)
}

func hashEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
