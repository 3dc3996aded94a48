package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	maker := NewJWTMaker("clave-de-prueba", time.Hour)

	token, err := maker.GenerateToken("3", "ana@frutosdecopan.hn", "Ana", 1)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := maker.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "3", claims.UserID)
	assert.Equal(t, "ana@frutosdecopan.hn", claims.Email)
	assert.Equal(t, "Ana", claims.Nombre)
	assert.Equal(t, 1, claims.Nivel)
}

func TestParseTokenExpirado(t *testing.T) {
	maker := NewJWTMaker("clave-de-prueba", -time.Minute)

	token, err := maker.GenerateToken("3", "ana@frutosdecopan.hn", "Ana", 2)
	require.NoError(t, err)

	_, err = maker.ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenConOtraClave(t *testing.T) {
	maker := NewJWTMaker("clave-a", time.Hour)
	otro := NewJWTMaker("clave-b", time.Hour)

	token, err := maker.GenerateToken("3", "ana@frutosdecopan.hn", "Ana", 1)
	require.NoError(t, err)

	_, err = otro.ParseToken(token)
	assert.Error(t, err)
}
