package lead

import (
	"gorm.io/gorm"
)

type Repository interface {
	Salva(db *gorm.DB, l *Lead) error
	TrovaPerID(db *gorm.DB, id uint) (*Lead, error)
	ListaPerCliente(db *gorm.DB, clienteID uint, stato string) ([]Lead, error)
	ListaTutti(db *gorm.DB, stato string) ([]Lead, error)
	VintiPerCliente(db *gorm.DB, clienteID uint) ([]Lead, error)
	Aggiorna(db *gorm.DB, l *Lead) error
	Elimina(db *gorm.DB, id uint) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Salva(db *gorm.DB, l *Lead) error {
	return db.Create(l).Error
}

func (r *repositoryImpl) TrovaPerID(db *gorm.DB, id uint) (*Lead, error) {
	var l Lead
	err := db.First(&l, id).Error
	return &l, err
}

func (r *repositoryImpl) ListaPerCliente(db *gorm.DB, clienteID uint, stato string) ([]Lead, error) {
	var list []Lead
	q := db.Where("cliente_id = ?", clienteID)
	if stato != "" {
		q = q.Where("stato = ?", stato)
	}
	err := q.Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *repositoryImpl) ListaTutti(db *gorm.DB, stato string) ([]Lead, error) {
	var list []Lead
	q := db.Session(&gorm.Session{})
	if stato != "" {
		q = q.Where("stato = ?", stato)
	}
	err := q.Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *repositoryImpl) VintiPerCliente(db *gorm.DB, clienteID uint) ([]Lead, error) {
	var list []Lead
	err := db.Where("cliente_id = ? AND stato = ?", clienteID, StatoVinto).Find(&list).Error
	return list, err
}

func (r *repositoryImpl) Aggiorna(db *gorm.DB, l *Lead) error {
	return db.Save(l).Error
}

func (r *repositoryImpl) Elimina(db *gorm.DB, id uint) error {
	return db.Delete(&Lead{}, id).Error
}
