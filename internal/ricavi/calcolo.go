package ricavi

import (
	"time"

	"github.com/MWSGestioneLead/api-lead/internal/lead"
	"github.com/MWSGestioneLead/api-lead/internal/spesa"
	"github.com/MWSGestioneLead/api-lead/internal/utils"
)

// RiepilogoRicavi è il risultato del calcolo del ricavo MWS su un
// intervallo di mesi.
type RiepilogoRicavi struct {
	Da                  string  `json:"da"`
	A                   string  `json:"a"`
	RicavoLead          float64 `json:"ricavoLead"`
	SpesaPubblicitaria  float64 `json:"spesaPubblicitaria"`
	Profitto            float64 `json:"profitto"`
	FeeFisso            float64 `json:"feeFisso"`
	PercentualeProfitto float64 `json:"percentualeProfitto"`
	RicavoMWS           float64 `json:"ricavoMws"`
	LeadVinti           int     `json:"leadVinti"`
}

// CalcolaRiepilogo aggrega i lead vinti attribuiti all'intervallo
// [da, a] (mesi inclusivi, formato 2006-01) e la spesa pubblicitaria
// dello stesso intervallo. Il ricavo MWS è il fee fisso più la quota
// percentuale del solo profitto positivo.
func CalcolaRiepilogo(leads []lead.Lead, spese []spesa.SpesaPubblicitaria, da, a time.Time, feeFisso, percentuale float64) RiepilogoRicavi {
	inizio := time.Date(da.Year(), da.Month(), 1, 0, 0, 0, 0, time.UTC)
	fine := time.Date(a.Year(), a.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)

	r := RiepilogoRicavi{
		Da:                  inizio.Format(lead.FormatoMese),
		A:                   fine.AddDate(0, -1, 0).Format(lead.FormatoMese),
		FeeFisso:            feeFisso,
		PercentualeProfitto: percentuale,
	}

	for _, l := range leads {
		if l.Stato != lead.StatoVinto {
			continue
		}
		attr := l.DataAttribuzione()
		if attr.Before(inizio) || !attr.Before(fine) {
			continue
		}
		r.RicavoLead += l.Valore
		r.LeadVinti++
	}

	for _, s := range spese {
		if s.Data.Before(inizio) || !s.Data.Before(fine) {
			continue
		}
		r.SpesaPubblicitaria += s.Importo
	}

	r.RicavoLead = utils.Arrotonda2(r.RicavoLead)
	r.SpesaPubblicitaria = utils.Arrotonda2(r.SpesaPubblicitaria)
	r.Profitto = utils.Arrotonda2(r.RicavoLead - r.SpesaPubblicitaria)

	quota := 0.0
	if r.Profitto > 0 {
		quota = r.Profitto * percentuale / 100
	}
	r.RicavoMWS = utils.Arrotonda2(feeFisso + quota)
	return r
}
