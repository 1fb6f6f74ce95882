package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
)

type OperatorJWT struct {
	Subject   string `json:"sub"`
	Role      string `json:"role"`
	ExpiresAt int64  `json:"exp"`
}

func parseOperatorJWT(authHeader, secret string) (*OperatorJWT, error) {
	jwtStr := strings.TrimPrefix(authHeader, "Bearer ")
	if jwtStr == "" {
		return nil, fmt.Errorf("missing bearer token")
	}

	token, err := jwt.Parse(jwtStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("failed to parse claims")
	}

	parsed := &OperatorJWT{}
	if sub, ok := claims["sub"].(string); ok {
		parsed.Subject = sub
	}
	if role, ok := claims["role"].(string); ok {
		parsed.Role = role
	}
	if exp, ok := claims["exp"].(float64); ok {
		parsed.ExpiresAt = int64(exp)
	}

	if time.Now().UTC().Unix() > parsed.ExpiresAt {
		return nil, fmt.Errorf("jwt is expired")
	}

	return parsed, nil
}
