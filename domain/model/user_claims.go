package model

import "github.com/golang-jwt/jwt"

// UserClaims is the payload of a relay-issued bearer token. Issuer
// carries the user id.
type UserClaims struct {
	UserName string `json:"user_name"`
	jwt.StandardClaims
}
