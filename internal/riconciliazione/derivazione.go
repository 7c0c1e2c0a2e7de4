package riconciliazione

import (
	"errors"
	"time"

	"github.com/MWSGestioneLead/api-lead/internal/lead"
)

// Scelte di attribuzione del ricavo al passaggio a Vinto.
const (
	AttribuzioneCreazione = "creazione"
	AttribuzioneCorrente  = "corrente"
)

// MeseAttribuzione risolve la scelta di attribuzione nel mese da
// marcare sul lead.
func MeseAttribuzione(l *lead.Lead, scelta string, adesso time.Time) (string, error) {
	switch scelta {
	case AttribuzioneCreazione:
		return l.CreatedAt.Format(lead.FormatoMese), nil
	case AttribuzioneCorrente:
		return adesso.Format(lead.FormatoMese), nil
	}
	return "", errors.New("attribuzione non valida: usare 'creazione' o 'corrente'")
}
