package ricavi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/MWSGestioneLead/api-lead/internal/auth"
	"github.com/MWSGestioneLead/api-lead/internal/cliente"
	"github.com/MWSGestioneLead/api-lead/internal/lead"
	"github.com/MWSGestioneLead/api-lead/internal/spesa"
	"github.com/MWSGestioneLead/api-lead/internal/utils"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Handler struct {
	DB         *gorm.DB
	Repository Repository
	Clienti    cliente.Repository
	Leads      lead.Repository
	Spese      spesa.Repository
	Log        *zap.Logger
}

func NewHandler(db *gorm.DB, log *zap.Logger) *Handler {
	return &Handler{
		DB:         db,
		Repository: NewRepository(),
		Clienti:    cliente.NewRepository(),
		Leads:      lead.NewRepository(),
		Spese:      spesa.NewRepository(),
		Log:        log,
	}
}

type salvaRicavoRequest struct {
	Mese          string `json:"mese"`
	ImportoRicavo string `json:"importoRicavo"`
	ImportoPagato string `json:"importoPagato"`
}

func (h *Handler) puoAccedere(r *http.Request, clienteID uint) bool {
	isAdmin, _ := r.Context().Value(auth.CtxIsAdmin).(bool)
	if isAdmin {
		return true
	}
	ctxCliente, _ := r.Context().Value(auth.CtxClienteID).(uint)
	return ctxCliente == clienteID
}

// Calcolo tratta GET /clienti/{id}/ricavi/calcolo?da=&a=: calcola il
// ricavo MWS sull'intervallo di mesi richiesto (default: mese corrente).
func (h *Handler) Calcolo(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID non valido", http.StatusBadRequest)
		return
	}
	if !h.puoAccedere(r, uint(id)) {
		http.Error(w, "accesso negato", http.StatusForbidden)
		return
	}

	c, err := h.Clienti.TrovaPerID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "cliente non trovato", http.StatusNotFound)
		return
	}

	adesso := time.Now().UTC()
	da, a := adesso, adesso
	if q := r.URL.Query().Get("da"); q != "" {
		if da, err = time.Parse(lead.FormatoMese, q); err != nil {
			http.Error(w, "parametro 'da' non valido: usare il formato 2006-01", http.StatusBadRequest)
			return
		}
	}
	if q := r.URL.Query().Get("a"); q != "" {
		if a, err = time.Parse(lead.FormatoMese, q); err != nil {
			http.Error(w, "parametro 'a' non valido: usare il formato 2006-01", http.StatusBadRequest)
			return
		}
	}
	if a.Before(da) {
		http.Error(w, "intervallo non valido: 'a' precede 'da'", http.StatusBadRequest)
		return
	}

	leads, err := h.Leads.VintiPerCliente(h.DB, c.ID)
	if err != nil {
		http.Error(w, "errore nella lettura dei lead", http.StatusInternalServerError)
		return
	}
	spese, err := h.Spese.ListaPerCliente(h.DB, c.ID)
	if err != nil {
		http.Error(w, "errore nella lettura delle spese", http.StatusInternalServerError)
		return
	}

	riepilogo := CalcolaRiepilogo(leads, spese, da, a, c.FeeFisso, c.PercentualeProfitto)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(riepilogo)
}

// Lista tratta GET /clienti/{id}/ricavi: il registro mensile del cliente.
func (h *Handler) Lista(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID non valido", http.StatusBadRequest)
		return
	}
	if !h.puoAccedere(r, uint(id)) {
		http.Error(w, "accesso negato", http.StatusForbidden)
		return
	}

	righe, err := h.Repository.ListaPerCliente(h.DB, uint(id))
	if err != nil {
		http.Error(w, "errore nella lista dei ricavi", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(righe)
}

// Salva tratta POST /clienti/{id}/ricavi (solo admin): crea o aggiorna
// la riga del mese indicato. Lo stato è derivato dagli importi.
func (h *Handler) Salva(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID non valido", http.StatusBadRequest)
		return
	}

	var req salvaRicavoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON non valido", http.StatusBadRequest)
		return
	}
	if _, err := time.Parse(lead.FormatoMese, req.Mese); err != nil {
		http.Error(w, "mese non valido: usare il formato 2006-01", http.StatusBadRequest)
		return
	}

	ricavo := utils.ParseImporto(req.ImportoRicavo)
	pagato := utils.ParseImporto(req.ImportoPagato)

	riga, err := h.Repository.TrovaPerClienteEMese(h.DB, uint(id), req.Mese)
	if err != nil {
		riga = &RicavoMensile{ClienteID: uint(id), Mese: req.Mese}
	}
	riga.ImportoRicavo = ricavo
	riga.ImportoPagato = pagato
	riga.Stato = StatoPerImporti(ricavo, pagato)

	if err := h.Repository.Salva(h.DB, riga); err != nil {
		h.Log.Error("salvataggio ricavo fallito", zap.Error(err))
		http.Error(w, "errore nel salvataggio del ricavo", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(riga)
}

// Elimina tratta DELETE /ricavi/{id} (solo admin).
func (h *Handler) Elimina(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID non valido", http.StatusBadRequest)
		return
	}
	if err := h.Repository.Elimina(h.DB, uint(id)); err != nil {
		http.Error(w, "errore nell'eliminazione del ricavo", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ricavo eliminato"))
}
