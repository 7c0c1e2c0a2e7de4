package cliente

import (
	"github.com/MWSGestioneLead/api-lead/internal/lead"
	"github.com/MWSGestioneLead/api-lead/internal/spesa"
	"gorm.io/gorm"
)

// Cliente è un'azienda cliente della piattaforma, con i propri servizi
// configurabili e le impostazioni di ripartizione del profitto.
type Cliente struct {
	gorm.Model
	Nome     string `gorm:"size:255;not null" json:"nome"`
	Email    string `gorm:"size:255" json:"email"`
	Telefono string `gorm:"size:50" json:"telefono"`

	// Impostazioni di ricavo MWS: fee fissa mensile più percentuale
	// sul profitto del cliente.
	FeeFisso            float64 `gorm:"not null;default:0" json:"feeFisso"`
	PercentualeProfitto float64 `gorm:"not null;default:0" json:"percentualeProfitto"`

	Servizi []Servizio                 `gorm:"foreignKey:ClienteID;constraint:OnDelete:CASCADE" json:"servizi"`
	Leads   []lead.Lead                `gorm:"foreignKey:ClienteID" json:"leads,omitempty"`
	Spese   []spesa.SpesaPubblicitaria `gorm:"foreignKey:ClienteID" json:"spese,omitempty"`
}

// Servizio è una prestazione offerta dal cliente (es. "Tagliando"),
// con lo schema dei campi del suo form di acquisizione lead.
type Servizio struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	ClienteID uint        `gorm:"not null;index" json:"clienteId"`
	Nome      string      `gorm:"size:255;not null" json:"nome"`
	Campi     []CampoLead `gorm:"foreignKey:ServizioID;constraint:OnDelete:CASCADE" json:"campi"`
}

// CampoLead definisce un campo del form di acquisizione di un servizio.
type CampoLead struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	ServizioID   uint   `gorm:"not null;index" json:"servizioId"`
	Nome         string `gorm:"size:100;not null" json:"nome"` // chiave dentro Lead.Dati
	Etichetta    string `gorm:"size:255" json:"etichetta"`
	Tipo         string `gorm:"size:50;default:'testo'" json:"tipo"` // testo | numero | telefono | email
	Obbligatorio bool   `gorm:"not null;default:false" json:"obbligatorio"`
}

func (Cliente) TableName() string   { return "clienti" }
func (Servizio) TableName() string  { return "servizi" }
func (CampoLead) TableName() string { return "campi_lead" }

// ServizioPerNome cerca un servizio del cliente per nome.
func (c *Cliente) ServizioPerNome(nome string) *Servizio {
	for i := range c.Servizi {
		if c.Servizi[i].Nome == nome {
			return &c.Servizi[i]
		}
	}
	return nil
}

// CampiMancanti restituisce i nomi dei campi obbligatori del servizio
// assenti (o vuoti) nei dati del lead.
func (s *Servizio) CampiMancanti(dati map[string]string) []string {
	var mancanti []string
	for _, campo := range s.Campi {
		if !campo.Obbligatorio {
			continue
		}
		if v, ok := dati[campo.Nome]; !ok || v == "" {
			mancanti = append(mancanti, campo.Nome)
		}
	}
	return mancanti
}
