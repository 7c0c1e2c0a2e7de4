package realtime

import (
	"context"
	"fmt"
	"time"

	"github.com/MWSGestioneLead/api-lead/internal/config"
	"github.com/redis/go-redis/v9"
)

// Canale presenza condiviso da tutti gli utenti; le notifiche
// viaggiano invece su un canale per utente.
const (
	CanalePresenza = "presenza"

	prefissoCanaleNotifiche = "notifiche:"
	prefissoChiavePresenza  = "presenza:"
)

// CanaleNotifiche restituisce il canale pub/sub delle notifiche di un utente.
func CanaleNotifiche(utenteID uint) string {
	return fmt.Sprintf("%s%d", prefissoCanaleNotifiche, utenteID)
}

// ChiavePresenza restituisce la chiave volatile di presenza di un utente.
func ChiavePresenza(utenteID uint) string {
	return fmt.Sprintf("%s%d", prefissoChiavePresenza, utenteID)
}

// PatternChiaviPresenza è il pattern SCAN per elencare gli utenti online.
const PatternChiaviPresenza = prefissoChiavePresenza + "*"

// NuovoClient crea il client Redis dell'applicazione.
func NuovoClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})
}

// Ping verifica la connessione Redis.
func Ping(ctx context.Context, client *redis.Client) error {
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping fallito: %w", err)
	}
	return nil
}
