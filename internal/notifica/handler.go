package notifica

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/MWSGestioneLead/api-lead/internal/auth"
	"github.com/MWSGestioneLead/api-lead/internal/realtime"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Handler struct {
	DB         *gorm.DB
	Repository Repository
	Redis      *redis.Client
	Log        *zap.Logger
}

func NewHandler(db *gorm.DB, rdb *redis.Client, log *zap.Logger) *Handler {
	return &Handler{
		DB:         db,
		Repository: NewRepository(),
		Redis:      rdb,
		Log:        log,
	}
}

type creaNotificaRequest struct {
	UtenteID  uint   `json:"utenteId"`
	Titolo    string `json:"titolo"`
	Messaggio string `json:"messaggio"`
}

// Pubblica persiste la notifica e la inoltra sul canale Redis
// dell'utente. Un errore di pubblicazione non invalida la scrittura:
// la notifica resta leggibile dall'elenco.
func (h *Handler) Pubblica(n *Notifica) error {
	if err := h.Repository.Salva(h.DB, n); err != nil {
		return err
	}
	payload, err := json.Marshal(n)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := h.Redis.Publish(ctx, realtime.CanaleNotifiche(n.UtenteID), payload).Err(); err != nil {
		h.Log.Warn("pubblicazione notifica fallita", zap.Uint("utenteId", n.UtenteID), zap.Error(err))
	}
	return nil
}

// POST /notifiche (solo admin)
func (h *Handler) Crea(w http.ResponseWriter, r *http.Request) {
	var req creaNotificaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON non valido", http.StatusBadRequest)
		return
	}
	if req.UtenteID == 0 || req.Messaggio == "" {
		http.Error(w, "utenteId e messaggio obbligatori", http.StatusBadRequest)
		return
	}

	n := Notifica{UtenteID: req.UtenteID, Titolo: req.Titolo, Messaggio: req.Messaggio}
	if err := h.Pubblica(&n); err != nil {
		h.Log.Error("creazione notifica fallita", zap.Error(err))
		http.Error(w, "errore nel salvataggio della notifica", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(n)
}

// GET /notifiche?nonLette=true — le notifiche dell'utente autenticato.
func (h *Handler) Lista(w http.ResponseWriter, r *http.Request) {
	utenteID, _ := r.Context().Value(auth.CtxUtenteID).(uint)
	soloNonLette := r.URL.Query().Get("nonLette") == "true"

	notifiche, err := h.Repository.ListaPerUtente(h.DB, utenteID, soloNonLette)
	if err != nil {
		http.Error(w, "errore nella lista delle notifiche", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(notifiche)
}

// PATCH /notifiche/{id}/letta
func (h *Handler) SegnaLetta(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID non valido", http.StatusBadRequest)
		return
	}

	n, err := h.Repository.TrovaPerID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "notifica non trovata", http.StatusNotFound)
		return
	}
	utenteID, _ := r.Context().Value(auth.CtxUtenteID).(uint)
	if n.UtenteID != utenteID {
		http.Error(w, "accesso negato", http.StatusForbidden)
		return
	}

	if err := h.Repository.SegnaLetta(h.DB, uint(id)); err != nil {
		http.Error(w, "errore nell'aggiornamento della notifica", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("notifica segnata come letta"))
}

// PATCH /notifiche/lette — segna tutte le notifiche dell'utente come lette.
func (h *Handler) SegnaTutteLette(w http.ResponseWriter, r *http.Request) {
	utenteID, _ := r.Context().Value(auth.CtxUtenteID).(uint)
	if err := h.Repository.SegnaTutteLette(h.DB, utenteID); err != nil {
		http.Error(w, "errore nell'aggiornamento delle notifiche", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("notifiche segnate come lette"))
}

// DELETE /notifiche/{id}
func (h *Handler) Elimina(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID non valido", http.StatusBadRequest)
		return
	}

	n, err := h.Repository.TrovaPerID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "notifica non trovata", http.StatusNotFound)
		return
	}
	utenteID, _ := r.Context().Value(auth.CtxUtenteID).(uint)
	isAdmin, _ := r.Context().Value(auth.CtxIsAdmin).(bool)
	if !isAdmin && n.UtenteID != utenteID {
		http.Error(w, "accesso negato", http.StatusForbidden)
		return
	}

	if err := h.Repository.Elimina(h.DB, uint(id)); err != nil {
		http.Error(w, "errore nell'eliminazione della notifica", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("notifica eliminata"))
}

// GET /notifiche/stream — flusso SSE delle notifiche in tempo reale.
// La sottoscrizione Redis vive quanto la richiesta: la chiusura del
// contesto la smonta.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming non supportato", http.StatusInternalServerError)
		return
	}
	utenteID, _ := r.Context().Value(auth.CtxUtenteID).(uint)

	ctx := r.Context()
	sub := h.Redis.Subscribe(ctx, realtime.CanaleNotifiche(utenteID))
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
			fmt.Fprintf(w, "data: %s\n\n", msg.Payload)
			flusher.Flush()
		}
	}
}
