package appuntamento

import (
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	Salva(db *gorm.DB, a *Appuntamento) error
	TrovaPerID(db *gorm.DB, id uint) (*Appuntamento, error)
	ListaPerCliente(db *gorm.DB, clienteID uint) ([]Appuntamento, error)
	ListaPerUtente(db *gorm.DB, utenteID uint) ([]Appuntamento, error)
	ListaPerPeriodo(db *gorm.DB, da, a time.Time) ([]Appuntamento, error)
	Aggiorna(db *gorm.DB, a *Appuntamento) error
	Elimina(db *gorm.DB, id uint) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Salva(db *gorm.DB, a *Appuntamento) error {
	return db.Create(a).Error
}

func (r *repositoryImpl) TrovaPerID(db *gorm.DB, id uint) (*Appuntamento, error) {
	var a Appuntamento
	err := db.First(&a, id).Error
	return &a, err
}

func (r *repositoryImpl) ListaPerCliente(db *gorm.DB, clienteID uint) ([]Appuntamento, error) {
	var list []Appuntamento
	err := db.Where("cliente_id = ?", clienteID).Order("data, ora").Find(&list).Error
	return list, err
}

func (r *repositoryImpl) ListaPerUtente(db *gorm.DB, utenteID uint) ([]Appuntamento, error) {
	var list []Appuntamento
	err := db.Where("utente_id = ?", utenteID).Order("data, ora").Find(&list).Error
	return list, err
}

func (r *repositoryImpl) ListaPerPeriodo(db *gorm.DB, da, a time.Time) ([]Appuntamento, error) {
	var list []Appuntamento
	err := db.Where("data BETWEEN ? AND ?", da, a).Order("data, ora").Find(&list).Error
	return list, err
}

func (r *repositoryImpl) Aggiorna(db *gorm.DB, a *Appuntamento) error {
	return db.Save(a).Error
}

func (r *repositoryImpl) Elimina(db *gorm.DB, id uint) error {
	return db.Delete(&Appuntamento{}, id).Error
}
