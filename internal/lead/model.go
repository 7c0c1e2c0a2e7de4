package lead

import (
	"time"

	"gorm.io/gorm"
)

// Stati possibili di un lead.
const (
	StatoNuovo         = "Nuovo"
	StatoContattato    = "Contattato"
	StatoInLavorazione = "In Lavorazione"
	StatoPerso         = "Perso"
	StatoVinto         = "Vinto"
)

// Chiavi riservate dentro Dati. Il marcatore di attribuzione viene
// scritto al passaggio a Vinto; il valore precedente viene conservato
// quando un preventivo vincente sovrascrive il valore del lead.
const (
	ChiaveDataAttribuzione = "data_attribuzione"
	ChiaveValorePrecedente = "valore_precedente"
)

// FormatoMese è il formato del marcatore di attribuzione (anno-mese).
const FormatoMese = "2006-01"

// Lead rappresenta una richiesta di contatto raccolta dal form di un cliente.
type Lead struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deletedAt,omitempty"`

	ClienteID uint   `gorm:"not null;index" json:"clienteId"`
	Servizio  string `gorm:"size:255" json:"servizio"`

	Stato  string  `gorm:"size:50;not null;default:'Nuovo';index" json:"stato"`
	Valore float64 `gorm:"not null;default:0" json:"valore"`

	// Campi liberi del form di acquisizione (nome, telefono, targa, ...),
	// schema guidato dalle definizioni di campo del servizio del cliente.
	Dati map[string]string `gorm:"type:jsonb;serializer:json" json:"dati"`
}

// StatoValido verifica che lo stato sia uno di quelli ammessi.
func StatoValido(s string) bool {
	switch s {
	case StatoNuovo, StatoContattato, StatoInLavorazione, StatoPerso, StatoVinto:
		return true
	}
	return false
}

// DataAttribuzione restituisce il mese di attribuzione del ricavo.
// In assenza del marcatore ricade sul mese di creazione del lead.
func (l *Lead) DataAttribuzione() time.Time {
	if l.Dati != nil {
		if v, ok := l.Dati[ChiaveDataAttribuzione]; ok {
			if t, err := time.Parse(FormatoMese, v); err == nil {
				return t
			}
		}
	}
	return time.Date(l.CreatedAt.Year(), l.CreatedAt.Month(), 1, 0, 0, 0, 0, time.UTC)
}
