// Package auth resolves caller identities. A caller identifies itself by a
// wallet address, either sent raw or wrapped in an operator-signed token.
package auth

import (
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/itsghostchannel/my-x402-articles-sub001/internal/common"
)

// Claims carries the standard registered claims plus the caller's wallet
// address.
type Claims struct {
	jwt.RegisteredClaims
	Address string
}

// addressPattern is deliberately loose: the gateway does not assume any
// particular chain, so an address is any printable token without whitespace.
var addressPattern = regexp.MustCompile(`^[\x21-\x7e]{4,128}$`)

// ValidAddress reports whether s is acceptable as a wallet address.
func ValidAddress(s string) bool {
	return addressPattern.MatchString(s)
}

// GenerateToken mints an HS256 token whose Address claim is the given wallet
// address. Used by the operator CLI to hand out pre-authorized identities.
func GenerateToken(address string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		Address: address,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// AddressFromToken parses and validates a token and returns the embedded
// wallet address.
func AddressFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		return "", err
	}

	if !token.Valid {
		return "", common.ErrorInvalidToken
	}

	return claims.Address, nil
}

// ResolveIdentity turns the value of the payer header into a wallet address.
// A value with two dots is treated as a signed token, anything else as a raw
// address. Returns "" with common.ErrorInvalidToken/ErrorValidation when the
// value cannot be resolved; an empty input resolves to the empty identity.
func ResolveIdentity(headerValue string, secretKey []byte) (string, error) {
	v := strings.TrimSpace(headerValue)
	if v == "" {
		return "", nil
	}

	if strings.Count(v, ".") == 2 {
		addr, err := AddressFromToken(v, secretKey)
		if err != nil {
			return "", common.ErrorInvalidToken
		}
		if !ValidAddress(addr) {
			return "", common.ErrorValidation
		}
		return addr, nil
	}

	if !ValidAddress(v) {
		return "", common.ErrorValidation
	}
	return v, nil
}
