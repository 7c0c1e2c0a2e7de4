package preventivo

import "github.com/MWSGestioneLead/api-lead/internal/utils"

// VoceDTO accetta quantità, prezzo e aliquota come stringhe per
// supportare sia la virgola che il punto come separatore decimale.
type VoceDTO struct {
	Descrizione string `json:"descrizione"`
	Quantita    string `json:"quantita"`
	Prezzo      string `json:"prezzo"`
	AliquotaIVA string `json:"aliquotaIva"`
}

// CreaPreventivoDTO è il payload di creazione/aggiornamento.
type CreaPreventivoDTO struct {
	LeadID uint      `json:"leadId"`
	Voci   []VoceDTO `json:"voci"`
}

// Modello converte il DTO in voci del modello, normalizzando i numeri.
func (d CreaPreventivoDTO) Modello() []Voce {
	voci := make([]Voce, 0, len(d.Voci))
	for _, v := range d.Voci {
		voci = append(voci, Voce{
			Descrizione: v.Descrizione,
			Quantita:    utils.ParseImporto(v.Quantita),
			Prezzo:      utils.ParseImporto(v.Prezzo),
			AliquotaIVA: utils.ParseImporto(v.AliquotaIVA),
		})
	}
	return voci
}
