package cliente

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/MWSGestioneLead/api-lead/internal/auth"
	"github.com/MWSGestioneLead/api-lead/internal/lead"
	"github.com/MWSGestioneLead/api-lead/internal/spesa"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var validate = validator.New()

type creaClienteRequest struct {
	Nome                string  `json:"nome" validate:"required"`
	Email               string  `json:"email" validate:"omitempty,email"`
	Telefono            string  `json:"telefono"`
	FeeFisso            float64 `json:"feeFisso" validate:"gte=0"`
	PercentualeProfitto float64 `json:"percentualeProfitto" validate:"gte=0,lte=100"`
}

type creaServizioRequest struct {
	Nome  string `json:"nome" validate:"required"`
	Campi []struct {
		Nome         string `json:"nome" validate:"required"`
		Etichetta    string `json:"etichetta"`
		Tipo         string `json:"tipo"`
		Obbligatorio bool   `json:"obbligatorio"`
	} `json:"campi" validate:"dive"`
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

// Crea tratta POST /clienti (solo admin).
func (h *Handler) Crea(w http.ResponseWriter, r *http.Request) {
	var req creaClienteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON non valido", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, "dati del cliente non validi", http.StatusBadRequest)
		return
	}

	c := Cliente{
		Nome:                req.Nome,
		Email:               req.Email,
		Telefono:            req.Telefono,
		FeeFisso:            req.FeeFisso,
		PercentualeProfitto: req.PercentualeProfitto,
	}
	if err := h.Repository.Salva(h.DB, &c); err != nil {
		h.Log.Error("salvataggio cliente fallito", zap.Error(err))
		http.Error(w, "errore nel salvataggio del cliente", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(c)
}

// Lista tratta GET /clienti: gli admin vedono tutti, un cliente solo sé stesso.
func (h *Handler) Lista(w http.ResponseWriter, r *http.Request) {
	isAdmin, _ := r.Context().Value(auth.CtxIsAdmin).(bool)
	ctxCliente, _ := r.Context().Value(auth.CtxClienteID).(uint)

	if isAdmin {
		clienti, err := h.Repository.ListaTutti(h.DB)
		if err != nil {
			http.Error(w, "errore nella lista dei clienti", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(clienti)
		return
	}

	c, err := h.Repository.TrovaPerID(h.DB, ctxCliente)
	if err != nil {
		http.Error(w, "cliente non trovato", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode([]Cliente{*c})
}

// TrovaPerID tratta GET /clienti/{id}.
func (h *Handler) TrovaPerID(w http.ResponseWriter, r *http.Request) {
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

	c, err := h.Repository.TrovaPerID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "cliente non trovato", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(c)
}

// Aggiorna tratta PUT /clienti/{id} (solo admin).
func (h *Handler) Aggiorna(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID non valido", http.StatusBadRequest)
		return
	}

	c, err := h.Repository.TrovaPerID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "cliente non trovato", http.StatusNotFound)
		return
	}

	var req creaClienteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON non valido", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, "dati del cliente non validi", http.StatusBadRequest)
		return
	}

	c.Nome = req.Nome
	c.Email = req.Email
	c.Telefono = req.Telefono
	c.FeeFisso = req.FeeFisso
	c.PercentualeProfitto = req.PercentualeProfitto

	if err := h.Repository.Aggiorna(h.DB, c); err != nil {
		http.Error(w, "errore nell'aggiornamento del cliente", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(c)
}

// Elimina tratta DELETE /clienti/{id} (solo admin).
func (h *Handler) Elimina(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID non valido", http.StatusBadRequest)
		return
	}
	if err := h.Repository.Elimina(h.DB, uint(id)); err != nil {
		http.Error(w, "errore nell'eliminazione del cliente", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("cliente eliminato"))
}

// AggiungiServizio tratta POST /clienti/{id}/servizi (solo admin):
// aggiunge un servizio con le sue definizioni di campo.
func (h *Handler) AggiungiServizio(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID non valido", http.StatusBadRequest)
		return
	}
	if _, err := h.Repository.TrovaPerID(h.DB, uint(id)); err != nil {
		http.Error(w, "cliente non trovato", http.StatusNotFound)
		return
	}

	var req creaServizioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON non valido", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, "dati del servizio non validi", http.StatusBadRequest)
		return
	}

	s := Servizio{ClienteID: uint(id), Nome: req.Nome}
	for _, campo := range req.Campi {
		tipo := campo.Tipo
		if tipo == "" {
			tipo = "testo"
		}
		s.Campi = append(s.Campi, CampoLead{
			Nome:         campo.Nome,
			Etichetta:    campo.Etichetta,
			Tipo:         tipo,
			Obbligatorio: campo.Obbligatorio,
		})
	}
	if err := h.DB.Create(&s).Error; err != nil {
		h.Log.Error("salvataggio servizio fallito", zap.Error(err))
		http.Error(w, "errore nel salvataggio del servizio", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(s)
}

// RimuoviServizio tratta DELETE /clienti/{id}/servizi/{sid} (solo admin).
func (h *Handler) RimuoviServizio(w http.ResponseWriter, r *http.Request) {
	sid, err := strconv.Atoi(mux.Vars(r)["sid"])
	if err != nil {
		http.Error(w, "ID del servizio non valido", http.StatusBadRequest)
		return
	}
	if err := h.DB.Delete(&Servizio{}, sid).Error; err != nil {
		http.Error(w, "errore nell'eliminazione del servizio", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Riepilogo tratta GET /clienti/{id}/riepilogo: metriche aggregate
// su lead e spesa del cliente.
func (h *Handler) Riepilogo(w http.ResponseWriter, r *http.Request) {
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

	c, err := h.Repository.TrovaPerID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "cliente non trovato", http.StatusNotFound)
		return
	}

	leads, _ := lead.NewRepository().ListaPerCliente(h.DB, c.ID, "")
	spese, _ := spesa.NewRepository().ListaPerCliente(h.DB, c.ID)
	dto := MontaRiepilogoClienteDTO(*c, leads, spese)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(dto)
}
