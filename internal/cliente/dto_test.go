package cliente

import (
	"testing"

	"github.com/MWSGestioneLead/api-lead/internal/lead"
	"github.com/MWSGestioneLead/api-lead/internal/spesa"
	"github.com/stretchr/testify/assert"
)

func TestMontaRiepilogoClienteDTO(t *testing.T) {
	c := Cliente{
		Nome:                "Officina Rossi",
		FeeFisso:            100,
		PercentualeProfitto: 10,
		Servizi:             []Servizio{{Nome: "Tagliando"}, {Nome: "Gomme"}},
	}
	leads := []lead.Lead{
		{Stato: lead.StatoNuovo},
		{Stato: lead.StatoContattato},
		{Stato: lead.StatoInLavorazione},
		{Stato: lead.StatoVinto, Valore: 250},
		{Stato: lead.StatoVinto, Valore: 100},
		{Stato: lead.StatoPerso},
	}
	spese := []spesa.SpesaPubblicitaria{{Importo: 80}, {Importo: 20}}

	dto := MontaRiepilogoClienteDTO(c, leads, spese)
	assert.Equal(t, "Officina Rossi", dto.Nome)
	assert.Equal(t, 6, dto.LeadTotali)
	assert.Equal(t, 2, dto.LeadInCorso)
	assert.Equal(t, 2, dto.LeadVinti)
	assert.Equal(t, 350.0, dto.ValoreVinto)
	assert.Equal(t, 100.0, dto.SpesaTotale)
	assert.Equal(t, 2, dto.ServiziAttivi)
}

func TestServizioPerNome(t *testing.T) {
	c := Cliente{Servizi: []Servizio{{Nome: "Tagliando"}, {Nome: "Gomme"}}}
	assert.NotNil(t, c.ServizioPerNome("Gomme"))
	assert.Nil(t, c.ServizioPerNome("Carrozzeria"))
}

func TestCampiMancanti(t *testing.T) {
	s := Servizio{Campi: []CampoLead{
		{Nome: "nome", Obbligatorio: true},
		{Nome: "telefono", Obbligatorio: true},
		{Nome: "targa", Obbligatorio: false},
	}}

	mancanti := s.CampiMancanti(map[string]string{"nome": "Mario", "telefono": ""})
	assert.Equal(t, []string{"telefono"}, mancanti)

	assert.Empty(t, s.CampiMancanti(map[string]string{"nome": "Mario", "telefono": "333111"}))
}
