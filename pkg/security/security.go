package security

import (
	"errors"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// TokenClaims is the authenticated identity carried by the request token.
type TokenClaims struct {
	User       string `json:"u"`
	Email      string `json:"e"`
	ExpireTime int64  `json:"exp"`
	NotBefore  int64  `json:"nbf"`
}

func NewTokenClaims(userID, email string, expireAt int64) TokenClaims {
	return TokenClaims{
		User:       userID,
		Email:      email,
		ExpireTime: expireAt,
		NotBefore:  time.Now().Unix() - 1,
	}
}

func (t TokenClaims) GetUser() string {
	return t.User
}

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

func GenerateJWT(info TokenClaims, secret []byte) (string, error) {
	claims := jwt.MapClaims{
		"u":   info.User,
		"e":   info.Email,
		"exp": info.ExpireTime,
		"nbf": info.NotBefore,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func ParseJWT(tokenString string, secret []byte) (TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return secret, nil
	})
	if err != nil {
		if ve, ok := err.(*jwt.ValidationError); ok && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return TokenClaims{}, ErrTokenExpired
		}
		return TokenClaims{}, ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return TokenClaims{}, ErrTokenInvalid
	}

	result := TokenClaims{}
	if v, ok := claims["u"].(string); ok {
		result.User = v
	}
	if v, ok := claims["e"].(string); ok {
		result.Email = v
	}
	if v, ok := claims["exp"].(float64); ok {
		result.ExpireTime = int64(v)
	}
	if v, ok := claims["nbf"].(float64); ok {
		result.NotBefore = int64(v)
	}

	if result.User == "" {
		return TokenClaims{}, ErrTokenInvalid
	}
	return result, nil
}
