package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var jwtSecret []byte

// Init imposta il secret usato per firmare e validare i token.
// Va chiamata una sola volta all'avvio.
func Init(secret string) error {
	if secret == "" {
		return errors.New("JWT_SECRET non definita")
	}
	jwtSecret = []byte(secret)
	return nil
}

// Claims del token applicativo: identità più RBAC semplice.
// ClienteID è 0 per gli utenti admin.
type Claims struct {
	UtenteID  uint `json:"utenteId"`
	IsAdmin   bool `json:"isAdmin"`
	ClienteID uint `json:"clienteId"`
	jwt.RegisteredClaims
}

// GeneraToken genera un JWT HS256 con validità di 24h.
func GeneraToken(utenteID uint, isAdmin bool, clienteID uint) (string, error) {
	claims := &Claims{
		UtenteID:  utenteID,
		IsAdmin:   isAdmin,
		ClienteID: clienteID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(utenteID),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// ValidaToken valida il token e restituisce le claims.
func ValidaToken(tokenStr string) (*Claims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256"}))
	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("token non valido o scaduto: %w", err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, errors.New("impossibile estrarre le claims")
	}
	return claims, nil
}
