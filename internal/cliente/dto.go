package cliente

import (
	"github.com/MWSGestioneLead/api-lead/internal/lead"
	"github.com/MWSGestioneLead/api-lead/internal/spesa"
)

// RiepilogoClienteDTO raccoglie i principali dati e metriche del cliente.
type RiepilogoClienteDTO struct {
	ID                  uint    `json:"id"`
	Nome                string  `json:"nome"`
	Email               string  `json:"email"`
	Telefono            string  `json:"telefono"`
	FeeFisso            float64 `json:"feeFisso"`
	PercentualeProfitto float64 `json:"percentualeProfitto"`

	LeadTotali    int     `json:"leadTotali"`
	LeadInCorso   int     `json:"leadInCorso"`
	LeadVinti     int     `json:"leadVinti"`
	ValoreVinto   float64 `json:"valoreVinto"`
	SpesaTotale   float64 `json:"spesaTotale"`
	ServiziAttivi int     `json:"serviziAttivi"`
}

// MontaRiepilogoClienteDTO costruisce il DTO di riepilogo a partire
// dalle collezioni già caricate.
func MontaRiepilogoClienteDTO(c Cliente, leads []lead.Lead, spese []spesa.SpesaPubblicitaria) RiepilogoClienteDTO {
	var inCorso, vinti int
	var valoreVinto float64
	for _, l := range leads {
		switch l.Stato {
		case lead.StatoVinto:
			vinti++
			valoreVinto += l.Valore
		case lead.StatoContattato, lead.StatoInLavorazione:
			inCorso++
		}
	}

	var spesaTotale float64
	for _, s := range spese {
		spesaTotale += s.Importo
	}

	return RiepilogoClienteDTO{
		ID:                  c.ID,
		Nome:                c.Nome,
		Email:               c.Email,
		Telefono:            c.Telefono,
		FeeFisso:            c.FeeFisso,
		PercentualeProfitto: c.PercentualeProfitto,
		LeadTotali:          len(leads),
		LeadInCorso:         inCorso,
		LeadVinti:           vinti,
		ValoreVinto:         valoreVinto,
		SpesaTotale:         spesaTotale,
		ServiziAttivi:       len(c.Servizi),
	}
}
