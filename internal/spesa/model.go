package spesa

import (
	"time"

	"gorm.io/gorm"
)

// SpesaPubblicitaria è una voce di spesa in campagne per un cliente.
type SpesaPubblicitaria struct {
	gorm.Model

	ClienteID   uint      `gorm:"not null;index" json:"clienteId"`
	Servizio    string    `gorm:"size:255" json:"servizio"`
	Piattaforma string    `gorm:"size:100" json:"piattaforma"` // es. "Google Ads", "Meta"
	Importo     float64   `gorm:"not null;default:0" json:"importo"`
	Data        time.Time `gorm:"not null;index" json:"data"`
}

func (SpesaPubblicitaria) TableName() string { return "spese_pubblicitarie" }
