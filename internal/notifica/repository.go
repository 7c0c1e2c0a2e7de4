package notifica

import "gorm.io/gorm"

type Repository interface {
	Salva(db *gorm.DB, n *Notifica) error
	TrovaPerID(db *gorm.DB, id uint) (*Notifica, error)
	ListaPerUtente(db *gorm.DB, utenteID uint, soloNonLette bool) ([]Notifica, error)
	SegnaLetta(db *gorm.DB, id uint) error
	SegnaTutteLette(db *gorm.DB, utenteID uint) error
	Elimina(db *gorm.DB, id uint) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Salva(db *gorm.DB, n *Notifica) error {
	return db.Create(n).Error
}

func (r *repositoryImpl) TrovaPerID(db *gorm.DB, id uint) (*Notifica, error) {
	var n Notifica
	if err := db.First(&n, id).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *repositoryImpl) ListaPerUtente(db *gorm.DB, utenteID uint, soloNonLette bool) ([]Notifica, error) {
	var notifiche []Notifica
	q := db.Where("utente_id = ?", utenteID)
	if soloNonLette {
		q = q.Where("letta = ?", false)
	}
	if err := q.Order("created_at desc").Find(&notifiche).Error; err != nil {
		return nil, err
	}
	return notifiche, nil
}

func (r *repositoryImpl) SegnaLetta(db *gorm.DB, id uint) error {
	return db.Model(&Notifica{}).Where("id = ?", id).Update("letta", true).Error
}

func (r *repositoryImpl) SegnaTutteLette(db *gorm.DB, utenteID uint) error {
	return db.Model(&Notifica{}).Where("utente_id = ? AND letta = ?", utenteID, false).
		Update("letta", true).Error
}

func (r *repositoryImpl) Elimina(db *gorm.DB, id uint) error {
	return db.Delete(&Notifica{}, id).Error
}
