package session_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frutosdecopan/pulpa-backend/internal/lib/jwt"
	"github.com/frutosdecopan/pulpa-backend/internal/models"
	"github.com/frutosdecopan/pulpa-backend/internal/services/session"
	"github.com/frutosdecopan/pulpa-backend/internal/sheets"
)

type fakeGateway struct {
	usuario *models.Usuario
	err     error
}

func (f *fakeGateway) Login(_ context.Context, _, _ string) (*models.Usuario, error) {
	return f.usuario, f.err
}

func newService(gw session.Gateway) *session.Service {
	maker := jwt.NewJWTMaker("clave-de-prueba", time.Hour)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return session.New(gw, maker, log)
}

func TestLoginExitoso(t *testing.T) {
	gw := &fakeGateway{usuario: &models.Usuario{
		ID:     "USR-007",
		Correo: "ana@frutosdecopan.hn",
		Nombre: "Ana",
		Nivel:  models.NivelAdmin,
	}}
	svc := newService(gw)

	sesion, err := svc.Login(context.Background(), "ana@frutosdecopan.hn", "secreta")
	require.NoError(t, err)
	require.NotEmpty(t, sesion.Token)
	assert.Equal(t, "Ana", sesion.Usuario.Nombre)

	usuario, err := svc.Verify(sesion.Token)
	require.NoError(t, err)
	assert.Equal(t, "USR-007", usuario.ID)
	assert.Equal(t, models.NivelAdmin, usuario.Nivel)
}

func TestLoginCredencialesRechazadas(t *testing.T) {
	gw := &fakeGateway{err: &sheets.RemoteError{Action: "login", Message: "Credenciales incorrectas"}}
	svc := newService(gw)

	sesion, err := svc.Login(context.Background(), "ana@frutosdecopan.hn", "mala")
	require.ErrorIs(t, err, session.ErrCredenciales)
	assert.Nil(t, sesion)
}

func TestLoginFalloDeRed(t *testing.T) {
	gw := &fakeGateway{err: sheets.ErrNetwork}
	svc := newService(gw)

	_, err := svc.Login(context.Background(), "ana@frutosdecopan.hn", "secreta")
	require.ErrorIs(t, err, sheets.ErrNetwork)
	assert.False(t, errors.Is(err, session.ErrCredenciales))
}

func TestLoginIdentidadVacia(t *testing.T) {
	gw := &fakeGateway{usuario: &models.Usuario{}}
	svc := newService(gw)

	_, err := svc.Login(context.Background(), "ana@frutosdecopan.hn", "secreta")
	require.ErrorIs(t, err, session.ErrCredenciales)
}

func TestVerifyTokenInvalido(t *testing.T) {
	svc := newService(&fakeGateway{})

	_, err := svc.Verify("no-es-un-token")
	require.Error(t, err)
}
