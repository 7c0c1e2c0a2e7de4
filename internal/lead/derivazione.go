package lead

import (
	"strconv"

	"github.com/MWSGestioneLead/api-lead/internal/utils"
)

// ValoreDaPreventivo deriva il valore del lead dal totale del
// preventivo vincente al netto del costo ricambi, al centesimo.
func ValoreDaPreventivo(totale, costoRicambi float64) float64 {
	return utils.Arrotonda2(totale - costoRicambi)
}

// ApplicaSelezione imposta il valore derivato sul lead conservandone
// il valore precedente per il ripristino. Funzione pura dei soli
// (totale preventivo, costo ricambi); non persiste nulla.
func ApplicaSelezione(l *Lead, totalePreventivo, costoRicambi float64) {
	if l.Dati == nil {
		l.Dati = map[string]string{}
	}
	if _, ok := l.Dati[ChiaveValorePrecedente]; !ok {
		l.Dati[ChiaveValorePrecedente] = strconv.FormatFloat(l.Valore, 'f', 2, 64)
	}
	l.Valore = ValoreDaPreventivo(totalePreventivo, costoRicambi)
}

// UnisciDatiRiservati riporta nei dati in arrivo le chiavi riservate
// (marcatore di attribuzione, valore precedente) presenti nei dati
// correnti: un PUT dei campi liberi non le deve cancellare. Il valore
// in arrivo, se presente, vince.
func UnisciDatiRiservati(nuovi, correnti map[string]string) map[string]string {
	for _, chiave := range []string{ChiaveDataAttribuzione, ChiaveValorePrecedente} {
		if _, ok := nuovi[chiave]; ok {
			continue
		}
		if v, ok := correnti[chiave]; ok {
			nuovi[chiave] = v
		}
	}
	return nuovi
}

// RimuoviSelezione ripristina il valore del lead memorizzato prima
// della selezione. Selezione seguita da rimozione riproduce il valore
// originale.
func RimuoviSelezione(l *Lead) {
	if l.Dati == nil {
		return
	}
	if v, ok := l.Dati[ChiaveValorePrecedente]; ok {
		l.Valore = utils.ParseImporto(v)
		delete(l.Dati, ChiaveValorePrecedente)
	}
}
