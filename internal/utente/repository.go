package utente

import "gorm.io/gorm"

type Repository interface {
	Salva(db *gorm.DB, u *Utente) error
	TrovaPerID(db *gorm.DB, id uint) (*Utente, error)
	TrovaPerEmail(db *gorm.DB, email string) (*Utente, error)
	ListaTutti(db *gorm.DB) ([]Utente, error)
	Aggiorna(db *gorm.DB, u *Utente) error
	Elimina(db *gorm.DB, id uint) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Salva(db *gorm.DB, u *Utente) error {
	return db.Save(u).Error
}

func (r *repositoryImpl) TrovaPerID(db *gorm.DB, id uint) (*Utente, error) {
	var u Utente
	if err := db.First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repositoryImpl) TrovaPerEmail(db *gorm.DB, email string) (*Utente, error) {
	var u Utente
	if err := db.Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repositoryImpl) ListaTutti(db *gorm.DB) ([]Utente, error) {
	var utenti []Utente
	if err := db.Find(&utenti).Error; err != nil {
		return nil, err
	}
	return utenti, nil
}

func (r *repositoryImpl) Aggiorna(db *gorm.DB, u *Utente) error {
	return db.Save(u).Error
}

func (r *repositoryImpl) Elimina(db *gorm.DB, id uint) error {
	return db.Delete(&Utente{}, id).Error
}
