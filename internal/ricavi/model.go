package ricavi

import "gorm.io/gorm"

// Stati di pagamento di una riga del registro mensile.
const (
	StatoPagato         = "paid"
	StatoNonPagato      = "unpaid"
	StatoParzialePagato = "partially_paid"
)

// RicavoMensile è una riga del registro dei ricavi MWS, riconciliata
// manualmente dall'amministratore.
type RicavoMensile struct {
	gorm.Model
	ClienteID     uint    `json:"clienteId" gorm:"not null;index"`
	Mese          string  `json:"mese" gorm:"not null;index"` // formato 2006-01
	ImportoRicavo float64 `json:"importoRicavo"`
	ImportoPagato float64 `json:"importoPagato"`
	Stato         string  `json:"stato" gorm:"default:'unpaid'"`
}

func (RicavoMensile) TableName() string { return "ricavi_mensili" }

// StatoPerImporti deriva lo stato di pagamento dagli importi.
func StatoPerImporti(ricavo, pagato float64) string {
	switch {
	case pagato <= 0:
		return StatoNonPagato
	case pagato >= ricavo:
		return StatoPagato
	default:
		return StatoParzialePagato
	}
}
