package db

import (
	"fmt"

	"github.com/MWSGestioneLead/api-lead/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connetti apre la connessione Postgres a partire dalla configurazione.
func Connetti(cfg config.DBConfig) (*gorm.DB, error) {
	var sslMode string
	if cfg.SSLDisable {
		sslMode = " sslmode=disable"
	}
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d%s",
		cfg.Host, cfg.Utente, cfg.Password, cfg.Nome, cfg.Porta, sslMode)
	return gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
}
