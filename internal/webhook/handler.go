package webhook

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/MWSGestioneLead/api-lead/internal/cliente"
	"github.com/MWSGestioneLead/api-lead/internal/lead"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ChiaveServizio è il parametro riservato che indica il servizio del
// lead; tutti gli altri parametri finiscono in Dati.
const ChiaveServizio = "service"

// Handler riceve i lead in ingresso dalle campagne pubblicitarie.
// La rotta è pubblica: i form esterni non hanno credenziali.
type Handler struct {
	DB       *gorm.DB
	Clienti  cliente.Repository
	Leads    lead.Repository
	Log      *zap.Logger
	Notifica func(clienteID uint, l *lead.Lead)
}

func NewHandler(db *gorm.DB, log *zap.Logger) *Handler {
	return &Handler{
		DB:      db,
		Clienti: cliente.NewRepository(),
		Leads:   lead.NewRepository(),
		Log:     log,
	}
}

// parametri riunisce query string, form e corpo JSON in un'unica mappa.
func parametri(r *http.Request) map[string]string {
	out := map[string]string{}
	for k, v := range r.URL.Query() {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	if r.Method == http.MethodPost {
		ct := r.Header.Get("Content-Type")
		switch {
		case strings.HasPrefix(ct, "application/json"):
			var corpo map[string]any
			if err := json.NewDecoder(r.Body).Decode(&corpo); err == nil {
				for k, v := range corpo {
					out[k] = fmt.Sprint(v)
				}
			}
		default:
			if err := r.ParseForm(); err == nil {
				for k, v := range r.PostForm {
					if len(v) > 0 {
						out[k] = v[0]
					}
				}
			}
		}
	}
	return out
}

// Ricevi tratta POST|GET /webhook/lead/{clienteID}: crea un lead Nuovo
// con i campi ricevuti. Se il cliente ha configurato il servizio
// indicato, i campi obbligatori mancanti respingono la richiesta.
func (h *Handler) Ricevi(w http.ResponseWriter, r *http.Request) {
	clienteID, err := strconv.Atoi(mux.Vars(r)["clienteID"])
	if err != nil {
		http.Error(w, "ID del cliente non valido", http.StatusBadRequest)
		return
	}

	c, err := h.Clienti.TrovaPerID(h.DB, uint(clienteID))
	if err != nil {
		http.Error(w, "cliente non trovato", http.StatusNotFound)
		return
	}

	campi := parametri(r)
	servizio := campi[ChiaveServizio]
	delete(campi, ChiaveServizio)

	if len(campi) == 0 {
		http.Error(w, "nessun campo ricevuto", http.StatusBadRequest)
		return
	}

	if s := c.ServizioPerNome(servizio); s != nil {
		if mancanti := s.CampiMancanti(campi); len(mancanti) > 0 {
			http.Error(w, "campi obbligatori mancanti: "+strings.Join(mancanti, ", "), http.StatusBadRequest)
			return
		}
	}

	l := lead.Lead{
		ClienteID: c.ID,
		Servizio:  servizio,
		Stato:     lead.StatoNuovo,
		Dati:      campi,
	}
	if err := h.Leads.Salva(h.DB, &l); err != nil {
		h.Log.Error("salvataggio lead da webhook fallito",
			zap.Uint("clienteId", c.ID), zap.Error(err))
		http.Error(w, "errore nel salvataggio del lead", http.StatusInternalServerError)
		return
	}

	h.Log.Info("lead ricevuto da webhook",
		zap.Uint("clienteId", c.ID),
		zap.Uint("leadId", l.ID),
		zap.String("servizio", servizio))
	if h.Notifica != nil {
		h.Notifica(c.ID, &l)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "leadId": l.ID})
}
