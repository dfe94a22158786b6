package models

import "github.com/golang-jwt/jwt/v5"

// UserClaims identifies the account holder behind a request.
type UserClaims struct {
	jwt.RegisteredClaims
	AccountID string `json:"account_id"`
	Username  string `json:"username"`
}

// Owns reports whether the claims belong to the holder of username.
func (c *UserClaims) Owns(username string) bool {
	return NormalizeUsername(c.Username) == NormalizeUsername(username)
}
