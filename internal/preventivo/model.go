package preventivo

import (
	"time"

	"gorm.io/gorm"
)

// Stati possibili di un preventivo.
const (
	StatoBozza     = "draft"
	StatoInviato   = "sent"
	StatoAccettato = "accepted"
	StatoRifiutato = "rejected"
)

// Preventivo è una stima itemizzata legata a un lead.
type Preventivo struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deletedAt,omitempty"`

	ClienteID uint `gorm:"not null;index" json:"clienteId"`
	LeadID    uint `gorm:"not null;index" json:"leadId"`

	Stato string `gorm:"size:50;not null;default:'draft';index" json:"stato"`

	// Totali ricalcolati a ogni modifica delle voci.
	Imponibile float64 `gorm:"not null;default:0" json:"imponibile"`
	IVA        float64 `gorm:"not null;default:0" json:"iva"`
	Totale     float64 `gorm:"not null;default:0" json:"totale"`

	Voci []Voce `gorm:"foreignKey:PreventivoID;constraint:OnDelete:CASCADE" json:"voci"`
}

// Voce è una riga del preventivo.
type Voce struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	PreventivoID uint    `gorm:"not null;index" json:"preventivoId"`
	Descrizione  string  `gorm:"size:255" json:"descrizione"`
	Quantita     float64 `gorm:"not null;default:0" json:"quantita"`
	Prezzo       float64 `gorm:"not null;default:0" json:"prezzo"`
	AliquotaIVA  float64 `gorm:"not null;default:0" json:"aliquotaIva"`
}

func (Preventivo) TableName() string { return "preventivi" }
func (Voce) TableName() string       { return "voci" }

// StatoValido verifica che lo stato sia uno di quelli ammessi.
func StatoValido(s string) bool {
	switch s {
	case StatoBozza, StatoInviato, StatoAccettato, StatoRifiutato:
		return true
	}
	return false
}
