package preventivo

import (
	"gorm.io/gorm"
)

// Repository incapsula le operazioni di banca dati per Preventivo.
type Repository struct {
	DB *gorm.DB
}

// NewRepository crea un nuovo repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// Crea inserisce un nuovo preventivo.
func (r *Repository) Crea(p *Preventivo) error {
	return r.DB.Create(p).Error
}

// TrovaPerID restituisce un preventivo con le sue voci.
func (r *Repository) TrovaPerID(id uint) (*Preventivo, error) {
	var p Preventivo
	if err := r.DB.Preload("Voci").First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// TrovaPerLead restituisce tutti i preventivi di un lead.
func (r *Repository) TrovaPerLead(leadID uint) ([]Preventivo, error) {
	var list []Preventivo
	err := r.DB.Preload("Voci").Where("lead_id = ?", leadID).Find(&list).Error
	return list, err
}

// ListaPerCliente restituisce tutti i preventivi di un cliente.
func (r *Repository) ListaPerCliente(clienteID uint) ([]Preventivo, error) {
	var list []Preventivo
	err := r.DB.Preload("Voci").Where("cliente_id = ?", clienteID).Find(&list).Error
	return list, err
}

// TrovaAccettatoPerLead restituisce il preventivo accettato di un lead,
// escludendo eventualmente un ID (quello in corso di promozione).
func (r *Repository) TrovaAccettatoPerLead(leadID, escludiID uint) (*Preventivo, error) {
	var p Preventivo
	q := r.DB.Where("lead_id = ? AND stato = ?", leadID, StatoAccettato)
	if escludiID != 0 {
		q = q.Where("id <> ?", escludiID)
	}
	if err := q.First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// AggiornaStato aggiorna il solo stato di un preventivo.
func (r *Repository) AggiornaStato(id uint, stato string) error {
	return r.DB.Model(&Preventivo{}).Where("id = ?", id).Update("stato", stato).Error
}

// Salva salva le modifiche a un preventivo esistente.
func (r *Repository) Salva(p *Preventivo) error {
	return r.DB.Save(p).Error
}

// Elimina rimuove un preventivo (soft delete).
func (r *Repository) Elimina(p *Preventivo) error {
	return r.DB.Delete(p).Error
}
