package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/inventario-silo/pkg/jwt"
)

var opts = pkgjwt.Options{
	Secret:     "test-secret-key-for-unit-tests",
	Issuer:     "inventario-silo-test",
	Audience:   "silo-clients",
	ExpMinutes: 60,
}

func TestGenerateAndParse(t *testing.T) {
	tok, err := pkgjwt.Generate(opts, "u-1", "jperez", "Juan Perez", "admin")
	require.NoError(t, err)

	claims, err := pkgjwt.Parse(opts, tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "jperez", claims.Username)
	assert.Equal(t, "Juan Perez", claims.Name)
	assert.Equal(t, "admin", claims.Role)
}

func TestParse_Expirado(t *testing.T) {
	expired := opts
	expired.ExpMinutes = -1
	tok, err := pkgjwt.Generate(expired, "u-1", "jperez", "Juan", "admin")
	require.NoError(t, err)

	_, err = pkgjwt.Parse(opts, tok)
	assert.Error(t, err)
}

func TestParse_SecretOAudienciaDistintos(t *testing.T) {
	tok, err := pkgjwt.Generate(opts, "u-1", "jperez", "Juan", "usuario")
	require.NoError(t, err)

	other := opts
	other.Secret = "otro-secret-completamente-distinto"
	_, err = pkgjwt.Parse(other, tok)
	assert.Error(t, err)

	other = opts
	other.Audience = "otra-audiencia"
	_, err = pkgjwt.Parse(other, tok)
	assert.Error(t, err)
}

func TestGenerate_SinSecret(t *testing.T) {
	_, err := pkgjwt.Generate(pkgjwt.Options{}, "u", "n", "n", "admin")
	assert.Error(t, err)
}
