package appuntamento

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/MWSGestioneLead/api-lead/internal/auth"
	"github.com/MWSGestioneLead/api-lead/internal/lead"
	"github.com/MWSGestioneLead/api-lead/internal/preventivo"
	"github.com/MWSGestioneLead/api-lead/internal/utils"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type creaAppuntamentoRequest struct {
	LeadID       *uint  `json:"leadId"`
	ClienteID    *uint  `json:"clienteId"`
	Data         string `json:"data"` // "2006-01-02"
	Ora          string `json:"ora"`
	DurataMinuti int    `json:"durataMinuti"`
	Note         string `json:"note"`
	CostoRicambi string `json:"costoRicambi"` // accetta virgola o punto
}

// Handler incapsula DB e repository.
type Handler struct {
	DB         *gorm.DB
	Repository Repository
	Leads      lead.Repository
	Preventivi *preventivo.Repository
	Log        *zap.Logger
}

func NewHandler(db *gorm.DB, log *zap.Logger) *Handler {
	return &Handler{
		DB:         db,
		Repository: NewRepository(),
		Leads:      lead.NewRepository(),
		Preventivi: preventivo.NewRepository(db),
		Log:        log,
	}
}

func (h *Handler) puoAccedere(r *http.Request, a *Appuntamento) bool {
	isAdmin, _ := r.Context().Value(auth.CtxIsAdmin).(bool)
	if isAdmin {
		return true
	}
	utenteID, _ := r.Context().Value(auth.CtxUtenteID).(uint)
	clienteID, _ := r.Context().Value(auth.CtxClienteID).(uint)
	if a.UtenteID != nil && *a.UtenteID == utenteID {
		return true
	}
	return a.ClienteID != nil && *a.ClienteID == clienteID
}

// Crea tratta POST /appuntamenti. Un appuntamento senza lead è un
// appuntamento generico dell'utente che lo crea.
func (h *Handler) Crea(w http.ResponseWriter, r *http.Request) {
	var req creaAppuntamentoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON non valido", http.StatusBadRequest)
		return
	}

	data, err := time.Parse("2006-01-02", req.Data)
	if err != nil {
		http.Error(w, "il campo 'data' deve essere nel formato AAAA-MM-GG", http.StatusBadRequest)
		return
	}

	utenteID, _ := r.Context().Value(auth.CtxUtenteID).(uint)
	a := Appuntamento{
		LeadID:       req.LeadID,
		ClienteID:    req.ClienteID,
		Data:         data,
		Ora:          req.Ora,
		DurataMinuti: req.DurataMinuti,
		Note:         req.Note,
		CostoRicambi: utils.ParseImporto(req.CostoRicambi),
	}
	if a.LeadID == nil {
		a.UtenteID = &utenteID
	}
	if a.DurataMinuti <= 0 {
		a.DurataMinuti = 30
	}

	if err := h.Repository.Salva(h.DB, &a); err != nil {
		h.Log.Error("salvataggio appuntamento fallito", zap.Error(err))
		http.Error(w, "errore nel salvataggio dell'appuntamento", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(a)
}

// Lista tratta GET /appuntamenti con filtri ?da=&a= (calendario) oppure
// ?clienteId= per gli admin; un cliente vede solo i propri.
func (h *Handler) Lista(w http.ResponseWriter, r *http.Request) {
	isAdmin, _ := r.Context().Value(auth.CtxIsAdmin).(bool)
	ctxCliente, _ := r.Context().Value(auth.CtxClienteID).(uint)

	var (
		list []Appuntamento
		err  error
	)
	switch {
	case !isAdmin:
		list, err = h.Repository.ListaPerCliente(h.DB, ctxCliente)
	case r.URL.Query().Get("clienteId") != "":
		id, convErr := strconv.Atoi(r.URL.Query().Get("clienteId"))
		if convErr != nil {
			http.Error(w, "clienteId non valido", http.StatusBadRequest)
			return
		}
		list, err = h.Repository.ListaPerCliente(h.DB, uint(id))
	default:
		da, errDa := time.Parse("2006-01-02", r.URL.Query().Get("da"))
		a, errA := time.Parse("2006-01-02", r.URL.Query().Get("a"))
		if errDa != nil || errA != nil {
			// senza intervallo: mese corrente
			now := time.Now()
			da = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
			a = da.AddDate(0, 1, -1)
		}
		list, err = h.Repository.ListaPerPeriodo(h.DB, da, a)
	}
	if err != nil {
		http.Error(w, "errore nella lista degli appuntamenti", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(list)
}

// TrovaPerID tratta GET /appuntamenti/{id}.
func (h *Handler) TrovaPerID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID non valido", http.StatusBadRequest)
		return
	}

	a, err := h.Repository.TrovaPerID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "appuntamento non trovato", http.StatusNotFound)
		return
	}
	if !h.puoAccedere(r, a) {
		http.Error(w, "accesso negato", http.StatusForbidden)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(a)
}

// Aggiorna tratta PUT /appuntamenti/{id}.
func (h *Handler) Aggiorna(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID non valido", http.StatusBadRequest)
		return
	}

	a, err := h.Repository.TrovaPerID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "appuntamento non trovato", http.StatusNotFound)
		return
	}
	if !h.puoAccedere(r, a) {
		http.Error(w, "accesso negato", http.StatusForbidden)
		return
	}

	var req creaAppuntamentoRequest
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
		a.Data = data
	}
	if req.Ora != "" {
		a.Ora = req.Ora
	}
	if req.DurataMinuti > 0 {
		a.DurataMinuti = req.DurataMinuti
	}
	a.Note = req.Note
	costoCambiato := false
	if req.CostoRicambi != "" {
		nuovo := utils.ParseImporto(req.CostoRicambi)
		costoCambiato = nuovo != a.CostoRicambi
		a.CostoRicambi = nuovo
	}

	if err := h.Repository.Aggiorna(h.DB, a); err != nil {
		h.Log.Error("aggiornamento appuntamento fallito", zap.Uint("appuntamentoId", a.ID), zap.Error(err))
		http.Error(w, "errore nell'aggiornamento dell'appuntamento", http.StatusInternalServerError)
		return
	}

	// Il valore del lead deriva da (totale preventivo - costo ricambi):
	// se il costo cambia con un preventivo vincente attivo va riallineato.
	// Due salvataggi sequenziali, non atomici (lacuna nota).
	if costoCambiato && a.PreventivoVincenteID != nil && a.LeadID != nil {
		if err := h.rideriva(a); err != nil {
			h.Log.Error("riallineamento valore lead fallito",
				zap.Uint("appuntamentoId", a.ID), zap.Error(err))
			http.Error(w, "errore nel riallineamento del valore del lead", http.StatusInternalServerError)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(a)
}

func (h *Handler) rideriva(a *Appuntamento) error {
	l, err := h.Leads.TrovaPerID(h.DB, *a.LeadID)
	if err != nil {
		return err
	}
	p, err := h.Preventivi.TrovaPerID(*a.PreventivoVincenteID)
	if err != nil {
		return err
	}
	lead.ApplicaSelezione(l, p.Totale, a.CostoRicambi)
	return h.Leads.Aggiorna(h.DB, l)
}

// Elimina tratta DELETE /appuntamenti/{id}.
func (h *Handler) Elimina(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID non valido", http.StatusBadRequest)
		return
	}

	a, err := h.Repository.TrovaPerID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "appuntamento non trovato", http.StatusNotFound)
		return
	}
	if !h.puoAccedere(r, a) {
		http.Error(w, "accesso negato", http.StatusForbidden)
		return
	}

	if err := h.Repository.Elimina(h.DB, uint(id)); err != nil {
		http.Error(w, "errore nell'eliminazione dell'appuntamento", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
