package utente

import "gorm.io/gorm"

// Utente è un account dell'applicazione: operatore MWS (admin)
// oppure utente legato a un singolo cliente.
type Utente struct {
	gorm.Model
	Nome      string `json:"nome"`
	Email     string `json:"email" gorm:"uniqueIndex;not null"`
	Password  string `json:"-" gorm:"not null"`
	IsAdmin   bool   `json:"isAdmin" gorm:"default:false"`
	ClienteID *uint  `json:"clienteId" gorm:"index"`
}

func (Utente) TableName() string { return "utenti" }

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreaUtenteRequest struct {
	Nome      string `json:"nome"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	IsAdmin   bool   `json:"isAdmin"`
	ClienteID *uint  `json:"clienteId"`
}

type AggiornaUtenteRequest struct {
	Nome     *string `json:"nome"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}
