package knowledge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect_EmptyTextAllZero(t *testing.T) {
	got := Detect("")

	require.Len(t, got, len(Signals))
	for name, v := range got {
		assert.Equal(t, 0.0, v, "signal %s", name)
	}
}

func TestDetect_AccentInsensitive(t *testing.T) {
	withAccents := Detect("Operación de soporte con fecha límite")
	without := Detect("operacion de soporte con fecha limite")

	assert.Equal(t, 1.0, withAccents["ops_flow"])
	assert.Equal(t, 1.0, withAccents["fixed_deadline"])
	assert.Equal(t, without, withAccents)
}

func TestDetect_IndependentSignals(t *testing.T) {
	got := Detect("App móvil de pagos con Stripe para una fintech regulada por PCI")

	assert.Equal(t, 1.0, got["mobile"])
	assert.Equal(t, 1.0, got["payments"])
	assert.Equal(t, 1.0, got["fintech"])
	assert.Equal(t, 1.0, got["regulated"])
	assert.Equal(t, 0.0, got["gaming"])
}

func TestDetect_IndustrySignals(t *testing.T) {
	cases := []struct {
		text   string
		signal string
	}{
		{"Plataforma de telemedicina para pacientes", "healthtech"},
		{"Gestión de pólizas y siniestros para una aseguradora", "insurtech"},
		{"ERP con facturación y nóminas", "erp"},
		{"Startup con ronda de inversión reciente", "startup"},
		{"Tracking de envíos y rutas de la flota", "logistics"},
		{"Juego multijugador en línea", "gaming"},
	}
	for _, tc := range cases {
		got := Detect(tc.text)
		assert.Equal(t, 1.0, got[tc.signal], "text %q should fire %s", tc.text, tc.signal)
	}
}

func TestFired_VocabularyOrder(t *testing.T) {
	got := Fired(Detect("soporte 24/7 con incertidumbre y deadline"))

	assert.Equal(t, []string{"uncertainty", "ops_flow", "fixed_deadline"}, got)
}
