package appuntamento

import (
	"time"

	"gorm.io/gorm"
)

// Appuntamento rappresenta un appuntamento in officina. Può essere
// legato a un lead oppure essere un appuntamento generico di un utente.
type Appuntamento struct {
	gorm.Model

	LeadID    *uint `gorm:"index" json:"leadId,omitempty"`
	ClienteID *uint `gorm:"index" json:"clienteId,omitempty"`
	UtenteID  *uint `gorm:"index" json:"utenteId,omitempty"`

	Data         time.Time `gorm:"not null;index" json:"data"`
	Ora          string    `gorm:"size:5" json:"ora"` // "HH:MM"
	DurataMinuti int       `gorm:"not null;default:30" json:"durataMinuti"`
	Note         string    `gorm:"type:text" json:"note"`

	CostoRicambi float64 `gorm:"not null;default:0" json:"costoRicambi"`

	// Preventivo scelto come vincente per il lead collegato.
	PreventivoVincenteID *uint `json:"preventivoVincenteId,omitempty"`
}

func (Appuntamento) TableName() string { return "appuntamenti" }
