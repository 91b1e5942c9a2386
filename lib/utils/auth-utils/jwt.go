package authutils

import (
	"sabbatical-backend/config"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// GetToken issues an HS256 token whose subject is the caller email.
func GetToken(email, name string) (tokenString string, err error) {
	claims := jwt.MapClaims{
		"name": name,
		"sub":  strings.ToLower(strings.TrimSpace(email)),
		"exp":  time.Now().Add(time.Second * time.Duration(config.Conf.Auth.JWTExpireInSec)).Unix(),
		"iat":  time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.Conf.Auth.JWTSecret))
}

func GetClaims(ctx *fiber.Ctx) jwt.MapClaims {
	token, ok := ctx.Locals("user").(*jwt.Token)
	if !ok {
		return jwt.MapClaims{}
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return jwt.MapClaims{}
	}
	return claims
}

func GetClaimString(ctx *fiber.Ctx, key string) string {
	if value, ok := GetClaims(ctx)[key].(string); ok {
		return value
	}
	return ""
}
