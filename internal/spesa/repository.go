package spesa

import (
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	Salva(db *gorm.DB, s *SpesaPubblicitaria) error
	TrovaPerID(db *gorm.DB, id uint) (*SpesaPubblicitaria, error)
	ListaPerCliente(db *gorm.DB, clienteID uint) ([]SpesaPubblicitaria, error)
	ListaPerClienteEPeriodo(db *gorm.DB, clienteID uint, da, a time.Time) ([]SpesaPubblicitaria, error)
	Aggiorna(db *gorm.DB, s *SpesaPubblicitaria) error
	Elimina(db *gorm.DB, id uint) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Salva(db *gorm.DB, s *SpesaPubblicitaria) error {
	return db.Create(s).Error
}

func (r *repositoryImpl) TrovaPerID(db *gorm.DB, id uint) (*SpesaPubblicitaria, error) {
	var s SpesaPubblicitaria
	err := db.First(&s, id).Error
	return &s, err
}

func (r *repositoryImpl) ListaPerCliente(db *gorm.DB, clienteID uint) ([]SpesaPubblicitaria, error) {
	var list []SpesaPubblicitaria
	err := db.Where("cliente_id = ?", clienteID).Order("data DESC").Find(&list).Error
	return list, err
}

func (r *repositoryImpl) ListaPerClienteEPeriodo(db *gorm.DB, clienteID uint, da, a time.Time) ([]SpesaPubblicitaria, error) {
	var list []SpesaPubblicitaria
	err := db.Where("cliente_id = ? AND data BETWEEN ? AND ?", clienteID, da, a).
		Order("data").Find(&list).Error
	return list, err
}

func (r *repositoryImpl) Aggiorna(db *gorm.DB, s *SpesaPubblicitaria) error {
	return db.Save(s).Error
}

func (r *repositoryImpl) Elimina(db *gorm.DB, id uint) error {
	return db.Delete(&SpesaPubblicitaria{}, id).Error
}
