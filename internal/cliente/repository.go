package cliente

import (
	"gorm.io/gorm"
)

type Repository interface {
	Salva(db *gorm.DB, c *Cliente) error
	TrovaPerID(db *gorm.DB, id uint) (*Cliente, error)
	ListaTutti(db *gorm.DB) ([]Cliente, error)
	Aggiorna(db *gorm.DB, c *Cliente) error
	Elimina(db *gorm.DB, id uint) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Salva(db *gorm.DB, c *Cliente) error {
	return db.Create(c).Error
}

func (r *repositoryImpl) TrovaPerID(db *gorm.DB, id uint) (*Cliente, error) {
	var c Cliente
	err := db.Preload("Servizi.Campi").First(&c, id).Error
	return &c, err
}

func (r *repositoryImpl) ListaTutti(db *gorm.DB) ([]Cliente, error) {
	var clienti []Cliente
	err := db.Preload("Servizi.Campi").Find(&clienti).Error
	return clienti, err
}

func (r *repositoryImpl) Aggiorna(db *gorm.DB, c *Cliente) error {
	return db.Save(c).Error
}

func (r *repositoryImpl) Elimina(db *gorm.DB, id uint) error {
	return db.Delete(&Cliente{}, id).Error
}
