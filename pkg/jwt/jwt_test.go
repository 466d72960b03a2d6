package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "secreto-de-prueba"

func TestGenerateParse(t *testing.T) {
	tok, err := Generate(testSecret, "admin", time.Hour)
	require.NoError(t, err)

	claims, err := Parse(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username())
}

func TestParse_Rechazos(t *testing.T) {
	tok, err := Generate(testSecret, "admin", time.Hour)
	require.NoError(t, err)

	_, err = Parse("otra-clave", tok)
	assert.Error(t, err, "firma incorrecta")

	expired, err := Generate(testSecret, "admin", -time.Minute)
	require.NoError(t, err)
	_, err = Parse(testSecret, expired)
	assert.Error(t, err, "vencido")

	_, err = Parse("", tok)
	assert.ErrorIs(t, err, ErrEmptySecret)

	_, err = Generate("", "admin", time.Hour)
	assert.ErrorIs(t, err, ErrEmptySecret)
}

func TestTokenEnContexto(t *testing.T) {
	ctx := ContextWithToken(context.Background(), "abc")
	assert.Equal(t, "abc", TokenFromContext(ctx))
	assert.Empty(t, TokenFromContext(context.Background()))
}
