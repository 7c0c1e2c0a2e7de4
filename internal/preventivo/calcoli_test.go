package preventivo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalcolaTotali(t *testing.T) {
	voci := []Voce{
		{Quantita: 2, Prezzo: 50, AliquotaIVA: 22},
	}
	totali := CalcolaTotali(voci)
	assert.Equal(t, 100.0, totali.Imponibile)
	assert.Equal(t, 22.0, totali.IVA)
	assert.Equal(t, 122.0, totali.Totale)
}

func TestCalcolaTotaliPiuVoci(t *testing.T) {
	voci := []Voce{
		{Quantita: 1, Prezzo: 80, AliquotaIVA: 22},
		{Quantita: 3, Prezzo: 15.5, AliquotaIVA: 22},
		{Quantita: 1, Prezzo: 40, AliquotaIVA: 10},
	}
	totali := CalcolaTotali(voci)
	assert.Equal(t, 166.5, totali.Imponibile)
	assert.Equal(t, 31.83, totali.IVA)
	assert.Equal(t, totali.Totale, totali.Imponibile+totali.IVA)
}

func TestCalcolaTotaliSanificaNegativi(t *testing.T) {
	voci := []Voce{
		{Quantita: -2, Prezzo: 50, AliquotaIVA: 22},
		{Quantita: 1, Prezzo: -10, AliquotaIVA: 22},
	}
	totali := CalcolaTotali(voci)
	assert.Equal(t, 0.0, totali.Imponibile)
	assert.Equal(t, 0.0, totali.IVA)
	assert.Equal(t, 0.0, totali.Totale)
}

func TestCalcolaTotaliVuoto(t *testing.T) {
	totali := CalcolaTotali(nil)
	assert.Equal(t, 0.0, totali.Totale)
}

func TestCalcolaTotaliIdentita(t *testing.T) {
	voci := []Voce{
		{Quantita: 7, Prezzo: 13.37, AliquotaIVA: 22},
		{Quantita: 2, Prezzo: 99.99, AliquotaIVA: 4},
	}
	totali := CalcolaTotali(voci)
	assert.InDelta(t, totali.Imponibile+totali.IVA, totali.Totale, 0.011)
	assert.GreaterOrEqual(t, totali.Imponibile, 0.0)
	assert.GreaterOrEqual(t, totali.IVA, 0.0)
}
