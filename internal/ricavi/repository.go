package ricavi

import "gorm.io/gorm"

type Repository interface {
	Salva(db *gorm.DB, r *RicavoMensile) error
	TrovaPerID(db *gorm.DB, id uint) (*RicavoMensile, error)
	ListaPerCliente(db *gorm.DB, clienteID uint) ([]RicavoMensile, error)
	TrovaPerClienteEMese(db *gorm.DB, clienteID uint, mese string) (*RicavoMensile, error)
	Aggiorna(db *gorm.DB, r *RicavoMensile) error
	Elimina(db *gorm.DB, id uint) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (repo *repositoryImpl) Salva(db *gorm.DB, r *RicavoMensile) error {
	return db.Save(r).Error
}

func (repo *repositoryImpl) TrovaPerID(db *gorm.DB, id uint) (*RicavoMensile, error) {
	var r RicavoMensile
	if err := db.First(&r, id).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

func (repo *repositoryImpl) ListaPerCliente(db *gorm.DB, clienteID uint) ([]RicavoMensile, error) {
	var righe []RicavoMensile
	if err := db.Where("cliente_id = ?", clienteID).Order("mese desc").Find(&righe).Error; err != nil {
		return nil, err
	}
	return righe, nil
}

func (repo *repositoryImpl) TrovaPerClienteEMese(db *gorm.DB, clienteID uint, mese string) (*RicavoMensile, error) {
	var r RicavoMensile
	if err := db.Where("cliente_id = ? AND mese = ?", clienteID, mese).First(&r).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

func (repo *repositoryImpl) Aggiorna(db *gorm.DB, r *RicavoMensile) error {
	return db.Save(r).Error
}

func (repo *repositoryImpl) Elimina(db *gorm.DB, id uint) error {
	return db.Delete(&RicavoMensile{}, id).Error
}
