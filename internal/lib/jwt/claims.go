// Package jwt implementa la emisión y validación de los tokens de
// sesión. La verificación de credenciales la hace el backend remoto;
// aquí solo se firma la identidad que aquel devuelve.
package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CustomClaims guarda la identidad PULPA dentro del token.
type CustomClaims struct {
	UserID               string `json:"user_id"`
	Email                string `json:"email"`
	Nombre               string `json:"nombre"`
	Nivel                int    `json:"nivel"`
	jwt.RegisteredClaims        // ExpiresAt, IssuedAt y demás claims estándar
}

// Maker describe la generación y el parseo de tokens de sesión.
type Maker interface {
	GenerateToken(userID, email, nombre string, nivel int) (string, error)
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl implementa Maker con clave secreta HS256 y TTL fijo.
type MakerImpl struct {
	secretKey string
	tokenTTL  time.Duration
}

// NewJWTMaker crea un MakerImpl con la clave y el TTL configurados.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
