package clock_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-silo/pkg/clock"
)

func TestLoadLocation_Desplazamiento(t *testing.T) {
	loc, err := clock.LoadLocation("-04:00")
	require.NoError(t, err)

	_, offset := time.Date(2024, 6, 1, 12, 0, 0, 0, loc).Zone()
	assert.Equal(t, -4*3600, offset)

	loc, err = clock.LoadLocation("+0530")
	require.NoError(t, err)
	_, offset = time.Date(2024, 6, 1, 12, 0, 0, 0, loc).Zone()
	assert.Equal(t, 5*3600+30*60, offset)
}

func TestLoadLocation_Invalida(t *testing.T) {
	_, err := clock.LoadLocation("Marte/Olympus")
	assert.Error(t, err)
}

func TestFixed_Advance(t *testing.T) {
	start := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	c := clock.NewFixed(start)
	c.Advance(90 * time.Minute)
	assert.True(t, c.Now().Equal(start.Add(90*time.Minute)))
	assert.Equal(t, time.UTC, c.Location())
}

func TestSystem_UsaZona(t *testing.T) {
	loc := time.FixedZone("UTC-4", -4*3600)
	assert.Equal(t, loc, clock.New(loc).Now().Location())
}
