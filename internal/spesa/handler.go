package spesa

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/MWSGestioneLead/api-lead/internal/auth"
	"github.com/MWSGestioneLead/api-lead/internal/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var validate = validator.New()

type creaSpesaRequest struct {
	ClienteID   uint   `json:"clienteId" validate:"required"`
	Servizio    string `json:"servizio"`
	Piattaforma string `json:"piattaforma" validate:"required"`
	Importo     string `json:"importo" validate:"required"` // accetta virgola o punto
	Data        string `json:"data" validate:"required"`    // "2006-01-02"
}

// Handler incapsula DB e repository. La spesa pubblicitaria è gestita
// solo dagli admin.
type Handler struct {
	DB         *gorm.DB
	Repository Repository
	Log        *zap.Logger
}

func NewHandler(db *gorm.DB, log *zap.Logger) *Handler {
	return &Handler{
		DB:         db,
		Repository: NewRepository(),
		Log:        log,
	}
}

// Crea tratta POST /spese.
func (h *Handler) Crea(w http.ResponseWriter, r *http.Request) {
	var req creaSpesaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON non valido", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, "campi obbligatori mancanti: clienteId, piattaforma, importo, data", http.StatusBadRequest)
		return
	}
	data, err := time.Parse("2006-01-02", req.Data)
	if err != nil {
		http.Error(w, "il campo 'data' deve essere nel formato AAAA-MM-GG", http.StatusBadRequest)
		return
	}

	s := SpesaPubblicitaria{
		ClienteID:   req.ClienteID,
		Servizio:    req.Servizio,
		Piattaforma: req.Piattaforma,
		Importo:     utils.ParseImporto(req.Importo),
		Data:        data,
	}
	if err := h.Repository.Salva(h.DB, &s); err != nil {
		h.Log.Error("salvataggio spesa fallito", zap.Error(err))
		http.Error(w, "errore nel salvataggio della spesa", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(s)
}

// ListaPerCliente tratta GET /clienti/{id}/spese con intervallo
// opzionale ?da=&a=. I clienti vedono solo le proprie spese.
func (h *Handler) ListaPerCliente(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID non valido", http.StatusBadRequest)
		return
	}
	isAdmin, _ := r.Context().Value(auth.CtxIsAdmin).(bool)
	ctxCliente, _ := r.Context().Value(auth.CtxClienteID).(uint)
	if !isAdmin && ctxCliente != uint(id) {
		http.Error(w, "accesso negato", http.StatusForbidden)
		return
	}

	var list []SpesaPubblicitaria
	da, errDa := time.Parse("2006-01-02", r.URL.Query().Get("da"))
	a, errA := time.Parse("2006-01-02", r.URL.Query().Get("a"))
	if errDa == nil && errA == nil {
		list, err = h.Repository.ListaPerClienteEPeriodo(h.DB, uint(id), da, a)
	} else {
		list, err = h.Repository.ListaPerCliente(h.DB, uint(id))
	}
	if err != nil {
		http.Error(w, "errore nella lista delle spese", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(list)
}

// Aggiorna tratta PUT /spese/{id}.
func (h *Handler) Aggiorna(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID non valido", http.StatusBadRequest)
		return
	}

	s, err := h.Repository.TrovaPerID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "spesa non trovata", http.StatusNotFound)
		return
	}

	var req creaSpesaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON non valido", http.StatusBadRequest)
		return
	}
	if req.Data != "" {
		data, err := time.Parse("2006-01-02", req.Data)
		if err != nil {
			http.Error(w, "il campo 'data' deve essere nel formato AAAA-MM-GG", http.StatusBadRequest)
			return
		}
		s.Data = data
	}
	if req.Servizio != "" {
		s.Servizio = req.Servizio
	}
	if req.Piattaforma != "" {
		s.Piattaforma = req.Piattaforma
	}
	if req.Importo != "" {
		s.Importo = utils.ParseImporto(req.Importo)
	}

	if err := h.Repository.Aggiorna(h.DB, s); err != nil {
		http.Error(w, "errore nell'aggiornamento della spesa", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s)
}

// Elimina tratta DELETE /spese/{id}.
func (h *Handler) Elimina(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID non valido", http.StatusBadRequest)
		return
	}
	if _, err := h.Repository.TrovaPerID(h.DB, uint(id)); err != nil {
		http.Error(w, "spesa non trovata", http.StatusNotFound)
		return
	}
	if err := h.Repository.Elimina(h.DB, uint(id)); err != nil {
		http.Error(w, "errore nell'eliminazione della spesa", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
