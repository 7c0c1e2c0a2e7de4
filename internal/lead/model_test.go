package lead

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatoValido(t *testing.T) {
	for _, s := range []string{StatoNuovo, StatoContattato, StatoInLavorazione, StatoPerso, StatoVinto} {
		assert.True(t, StatoValido(s), s)
	}
	assert.False(t, StatoValido("Archiviato"))
	assert.False(t, StatoValido(""))
	assert.False(t, StatoValido("nuovo"))
}

func TestDataAttribuzioneDaMarcatore(t *testing.T) {
	l := &Lead{
		CreatedAt: time.Date(2025, 2, 10, 12, 0, 0, 0, time.UTC),
		Dati:      map[string]string{ChiaveDataAttribuzione: "2025-05"},
	}
	assert.Equal(t, time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), l.DataAttribuzione())
}

func TestDataAttribuzioneFallbackCreazione(t *testing.T) {
	l := &Lead{CreatedAt: time.Date(2025, 2, 10, 12, 0, 0, 0, time.UTC)}
	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), l.DataAttribuzione())

	// marcatore malformato: si ricade sul mese di creazione
	l.Dati = map[string]string{ChiaveDataAttribuzione: "maggio 2025"}
	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), l.DataAttribuzione())
}
