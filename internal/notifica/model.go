package notifica

import "gorm.io/gorm"

// Notifica è un avviso applicativo destinato a un utente. Viene
// persistita e, se l'utente è connesso, pubblicata sul suo canale Redis.
type Notifica struct {
	gorm.Model
	UtenteID  uint   `json:"utenteId" gorm:"not null;index"`
	Titolo    string `json:"titolo"`
	Messaggio string `json:"messaggio" gorm:"type:text"`
	Letta     bool   `json:"letta" gorm:"default:false"`
}

func (Notifica) TableName() string { return "notifiche" }
