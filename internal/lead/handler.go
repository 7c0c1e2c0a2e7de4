package lead

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/MWSGestioneLead/api-lead/internal/auth"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type creaLeadRequest struct {
	ClienteID uint              `json:"clienteId"`
	Servizio  string            `json:"servizio"`
	Valore    float64           `json:"valore"`
	Dati      map[string]string `json:"dati"`
}

type aggiornaLeadRequest struct {
	Servizio string            `json:"servizio"`
	Valore   float64           `json:"valore"`
	Dati     map[string]string `json:"dati"`
}

// Handler incapsula DB e repository.
type Handler struct {
	DB         *gorm.DB
	Repository Repository
	Log        *zap.Logger
}

// NewHandler restituisce un handler inizializzato.
func NewHandler(db *gorm.DB, log *zap.Logger) *Handler {
	return &Handler{
		DB:         db,
		Repository: NewRepository(),
		Log:        log,
	}
}

func (h *Handler) puoAccedere(r *http.Request, clienteID uint) bool {
	isAdmin, _ := r.Context().Value(auth.CtxIsAdmin).(bool)
	ctxCliente, _ := r.Context().Value(auth.CtxClienteID).(uint)
	return isAdmin || ctxCliente == clienteID
}

// Crea tratta POST /leads.
func (h *Handler) Crea(w http.ResponseWriter, r *http.Request) {
	var req creaLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON non valido", http.StatusBadRequest)
		return
	}

	// Un non-admin crea lead solo per il proprio cliente.
	isAdmin, _ := r.Context().Value(auth.CtxIsAdmin).(bool)
	if !isAdmin {
		ctxCliente, _ := r.Context().Value(auth.CtxClienteID).(uint)
		req.ClienteID = ctxCliente
	}
	if req.ClienteID == 0 {
		http.Error(w, "il campo 'clienteId' è obbligatorio", http.StatusBadRequest)
		return
	}
	if req.Dati == nil {
		req.Dati = map[string]string{}
	}

	l := Lead{
		ClienteID: req.ClienteID,
		Servizio:  req.Servizio,
		Stato:     StatoNuovo,
		Valore:    req.Valore,
		Dati:      req.Dati,
	}
	if err := h.Repository.Salva(h.DB, &l); err != nil {
		h.Log.Error("salvataggio lead fallito", zap.Error(err))
		http.Error(w, "errore nel salvataggio del lead", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(l)
}

// Lista tratta GET /leads. Un admin vede tutto (con filtro opzionale
// ?clienteId= e ?stato=), un cliente solo i propri lead.
func (h *Handler) Lista(w http.ResponseWriter, r *http.Request) {
	isAdmin, _ := r.Context().Value(auth.CtxIsAdmin).(bool)
	ctxCliente, _ := r.Context().Value(auth.CtxClienteID).(uint)
	stato := r.URL.Query().Get("stato")
	if stato != "" && !StatoValido(stato) {
		http.Error(w, "stato non valido", http.StatusBadRequest)
		return
	}

	var (
		list []Lead
		err  error
	)
	if isAdmin {
		if cid := r.URL.Query().Get("clienteId"); cid != "" {
			id, convErr := strconv.Atoi(cid)
			if convErr != nil {
				http.Error(w, "clienteId non valido", http.StatusBadRequest)
				return
			}
			list, err = h.Repository.ListaPerCliente(h.DB, uint(id), stato)
		} else {
			list, err = h.Repository.ListaTutti(h.DB, stato)
		}
	} else {
		list, err = h.Repository.ListaPerCliente(h.DB, ctxCliente, stato)
	}
	if err != nil {
		http.Error(w, "errore nella lista dei lead", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(list)
}

// TrovaPerID tratta GET /leads/{id}.
func (h *Handler) TrovaPerID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID non valido", http.StatusBadRequest)
		return
	}

	l, err := h.Repository.TrovaPerID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "lead non trovato", http.StatusNotFound)
		return
	}
	if !h.puoAccedere(r, l.ClienteID) {
		http.Error(w, "accesso negato", http.StatusForbidden)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(l)
}

// Aggiorna tratta PUT /leads/{id}. Lo stato non si cambia da qui:
// passa dalla rotta dedicata con le sue regole di transizione.
func (h *Handler) Aggiorna(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID non valido", http.StatusBadRequest)
		return
	}

	l, err := h.Repository.TrovaPerID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "lead non trovato", http.StatusNotFound)
		return
	}
	if !h.puoAccedere(r, l.ClienteID) {
		http.Error(w, "accesso negato", http.StatusForbidden)
		return
	}

	var req aggiornaLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON non valido", http.StatusBadRequest)
		return
	}

	l.Servizio = req.Servizio
	l.Valore = req.Valore
	if req.Dati != nil {
		l.Dati = UnisciDatiRiservati(req.Dati, l.Dati)
	}
	if err := h.Repository.Aggiorna(h.DB, l); err != nil {
		h.Log.Error("aggiornamento lead fallito", zap.Uint("leadId", l.ID), zap.Error(err))
		http.Error(w, "errore nell'aggiornamento del lead", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(l)
}

// Elimina tratta DELETE /leads/{id}.
func (h *Handler) Elimina(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID non valido", http.StatusBadRequest)
		return
	}

	l, err := h.Repository.TrovaPerID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "lead non trovato", http.StatusNotFound)
		return
	}
	if !h.puoAccedere(r, l.ClienteID) {
		http.Error(w, "accesso negato", http.StatusForbidden)
		return
	}

	if err := h.Repository.Elimina(h.DB, uint(id)); err != nil {
		http.Error(w, "errore nell'eliminazione del lead", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
