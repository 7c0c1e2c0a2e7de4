package presenza

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/MWSGestioneLead/api-lead/internal/auth"
	"github.com/MWSGestioneLead/api-lead/internal/realtime"
	"github.com/MWSGestioneLead/api-lead/internal/utente"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TTLPresenza è la durata di validità di un heartbeat: scaduto questo
// intervallo senza rinnovo l'utente risulta offline.
const TTLPresenza = 60 * time.Second

// Presenza è lo stato volatile pubblicato a ogni heartbeat.
type Presenza struct {
	UtenteID  uint      `json:"utenteId"`
	Nome      string    `json:"nome"`
	IP        string    `json:"ip"`
	Timestamp time.Time `json:"timestamp"`

	Posizione *Geolocalizzazione `json:"posizione,omitempty"`
}

type Handler struct {
	DB     *gorm.DB
	Redis  *redis.Client
	Utenti utente.Repository
	GeoURL string
	Log    *zap.Logger
}

func NewHandler(db *gorm.DB, rdb *redis.Client, geoURL string, log *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Redis:  rdb,
		Utenti: utente.NewRepository(),
		GeoURL: geoURL,
		Log:    log,
	}
}

// indirizzoClient estrae l'IP del chiamante, preferendo X-Forwarded-For
// quando il servizio sta dietro un proxy.
func indirizzoClient(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// POST /presenza/heartbeat — rinnova la chiave volatile dell'utente e
// pubblica l'evento sul canale presenza.
func (h *Handler) Heartbeat(w http.ResponseWriter, r *http.Request) {
	utenteID, _ := r.Context().Value(auth.CtxUtenteID).(uint)

	u, err := h.Utenti.TrovaPerID(h.DB, utenteID)
	if err != nil {
		http.Error(w, "utente non trovato", http.StatusNotFound)
		return
	}

	p := Presenza{
		UtenteID:  utenteID,
		Nome:      u.Nome,
		IP:        indirizzoClient(r),
		Timestamp: time.Now().UTC(),
	}
	payload, err := json.Marshal(p)
	if err != nil {
		http.Error(w, "errore interno", http.StatusInternalServerError)
		return
	}

	ctx := r.Context()
	if err := h.Redis.Set(ctx, realtime.ChiavePresenza(utenteID), payload, TTLPresenza).Err(); err != nil {
		h.Log.Error("scrittura presenza fallita", zap.Error(err))
		http.Error(w, "errore nel registro presenze", http.StatusInternalServerError)
		return
	}
	if err := h.Redis.Publish(ctx, realtime.CanalePresenza, payload).Err(); err != nil {
		h.Log.Warn("pubblicazione presenza fallita", zap.Error(err))
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(p)
}

// GET /presenza?geo=true (solo admin) — elenca gli utenti online,
// opzionalmente arricchiti con la geolocalizzazione dell'IP.
func (h *Handler) Lista(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	conGeo := r.URL.Query().Get("geo") == "true"

	var chiavi []string
	iter := h.Redis.Scan(ctx, 0, realtime.PatternChiaviPresenza, 100).Iterator()
	for iter.Next(ctx) {
		chiavi = append(chiavi, iter.Val())
	}
	if err := iter.Err(); err != nil {
		h.Log.Error("scansione presenze fallita", zap.Error(err))
		http.Error(w, "errore nel registro presenze", http.StatusInternalServerError)
		return
	}

	presenze := []Presenza{}
	if len(chiavi) > 0 {
		valori, err := h.Redis.MGet(ctx, chiavi...).Result()
		if err != nil {
			http.Error(w, "errore nel registro presenze", http.StatusInternalServerError)
			return
		}
		for _, v := range valori {
			s, ok := v.(string)
			if !ok {
				continue
			}
			var p Presenza
			if err := json.Unmarshal([]byte(s), &p); err != nil {
				continue
			}
			if conGeo {
				p.Posizione = Localizza(ctx, h.GeoURL, p.IP)
			}
			presenze = append(presenze, p)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(presenze)
}

// GET /presenza/stream (solo admin) — flusso SSE degli heartbeat.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming non supportato", http.StatusInternalServerError)
		return
	}

	ctx := r.Context()
	sub := h.Redis.Subscribe(ctx, realtime.CanalePresenza)
	defer sub.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	flusher.Flush()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, aperto := <-ch:
			if !aperto {
				return
			}
			_, _ = w.Write([]byte("data: " + msg.Payload + "\n\n"))
			flusher.Flush()
		}
	}
}
