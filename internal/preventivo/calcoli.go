package preventivo

import "github.com/MWSGestioneLead/api-lead/internal/utils"

// Totali aggrega imponibile, IVA e totale di un insieme di voci.
type Totali struct {
	Imponibile float64 `json:"imponibile"`
	IVA        float64 `json:"iva"`
	Totale     float64 `json:"totale"`
}

// CalcolaTotali ricalcola i totali a partire dalle voci.
// Quantità, prezzi e aliquote negativi vengono sanificati a 0 prima
// dell'aggregazione; i risultati sono arrotondati al centesimo.
func CalcolaTotali(voci []Voce) Totali {
	var imponibile, iva float64
	for _, v := range voci {
		q := utils.SanificaImporto(v.Quantita)
		p := utils.SanificaImporto(v.Prezzo)
		aliquota := utils.SanificaImporto(v.AliquotaIVA)
		imponibile += q * p
		iva += q * p * aliquota / 100
	}
	imponibile = utils.Arrotonda2(imponibile)
	iva = utils.Arrotonda2(iva)
	return Totali{
		Imponibile: imponibile,
		IVA:        iva,
		Totale:     utils.Arrotonda2(imponibile + iva),
	}
}
