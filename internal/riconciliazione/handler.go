package riconciliazione

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/MWSGestioneLead/api-lead/internal/appuntamento"
	"github.com/MWSGestioneLead/api-lead/internal/auth"
	"github.com/MWSGestioneLead/api-lead/internal/lead"
	"github.com/MWSGestioneLead/api-lead/internal/preventivo"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Handler orchestra il flusso di riconciliazione lead/preventivo:
// transizioni di stato del lead e scelta del preventivo vincente.
// Le sequenze multi-chiamata non sono transazionali: un fallimento a
// metà lascia stato incoerente e il chiamante riallinea con un refetch
// (lacuna nota, mantenuta deliberatamente).
type Handler struct {
	DB           *gorm.DB
	Leads        lead.Repository
	Preventivi   *preventivo.Repository
	Appuntamenti appuntamento.Repository
	Log          *zap.Logger
}

func NewHandler(db *gorm.DB, log *zap.Logger) *Handler {
	return &Handler{
		DB:           db,
		Leads:        lead.NewRepository(),
		Preventivi:   preventivo.NewRepository(db),
		Appuntamenti: appuntamento.NewRepository(),
		Log:          log,
	}
}

type transizioneStatoRequest struct {
	Stato        string `json:"stato"`
	Attribuzione string `json:"attribuzione,omitempty"`
}

type selezionaVincenteRequest struct {
	PreventivoID uint `json:"preventivoId"`
}

type esitoSelezioneResponse struct {
	Appuntamento *appuntamento.Appuntamento `json:"appuntamento"`
	Lead         *lead.Lead                 `json:"lead"`
}

func (h *Handler) puoAccedere(r *http.Request, clienteID uint) bool {
	isAdmin, _ := r.Context().Value(auth.CtxIsAdmin).(bool)
	ctxCliente, _ := r.Context().Value(auth.CtxClienteID).(uint)
	return isAdmin || ctxCliente == clienteID
}

// TransizioneStato tratta PATCH /leads/{id}/stato.
//
// Verso "Vinto": il valore del lead deve essere positivo e la scelta
// di attribuzione ('creazione' o 'corrente') è obbligatoria; il mese
// scelto viene marcato dentro i dati liberi del lead.
// Da "Vinto" verso altro: l'eventuale preventivo accettato del lead
// viene retrocesso a "sent" prima del cambio di stato.
func (h *Handler) TransizioneStato(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID non valido", http.StatusBadRequest)
		return
	}

	var req transizioneStatoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON non valido", http.StatusBadRequest)
		return
	}
	if !lead.StatoValido(req.Stato) {
		http.Error(w, "stato non valido", http.StatusBadRequest)
		return
	}

	l, err := h.Leads.TrovaPerID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "lead non trovato", http.StatusNotFound)
		return
	}
	if !h.puoAccedere(r, l.ClienteID) {
		http.Error(w, "accesso negato", http.StatusForbidden)
		return
	}

	if req.Stato == lead.StatoVinto {
		if l.Valore <= 0 {
			http.Error(w, "un lead si può segnare Vinto solo con valore positivo", http.StatusBadRequest)
			return
		}
		mese, err := MeseAttribuzione(l, req.Attribuzione, time.Now())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if l.Dati == nil {
			l.Dati = map[string]string{}
		}
		l.Dati[lead.ChiaveDataAttribuzione] = mese
	}

	if l.Stato == lead.StatoVinto && req.Stato != lead.StatoVinto {
		// Retrocessione del preventivo accettato prima del cambio di
		// stato; chiamata separata, non atomica rispetto al salvataggio
		// del lead.
		accettato, err := h.Preventivi.TrovaAccettatoPerLead(l.ID, 0)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "errore nella ricerca del preventivo accettato", http.StatusInternalServerError)
			return
		}
		if accettato != nil {
			if err := h.Preventivi.AggiornaStato(accettato.ID, preventivo.StatoInviato); err != nil {
				h.Log.Error("retrocessione preventivo fallita",
					zap.Uint("preventivoId", accettato.ID), zap.Error(err))
				http.Error(w, "errore nella retrocessione del preventivo", http.StatusInternalServerError)
				return
			}
		}
	}

	l.Stato = req.Stato
	if err := h.Leads.Aggiorna(h.DB, l); err != nil {
		h.Log.Error("aggiornamento stato lead fallito", zap.Uint("leadId", l.ID), zap.Error(err))
		http.Error(w, "errore nell'aggiornamento dello stato", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(l)
}

// SelezionaVincente tratta PUT /appuntamenti/{id}/preventivo-vincente:
// il valore del lead diventa totale del preventivo meno costo ricambi,
// e il valore precedente resta memorizzato per il ripristino.
func (h *Handler) SelezionaVincente(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID non valido", http.StatusBadRequest)
		return
	}

	var req selezionaVincenteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PreventivoID == 0 {
		http.Error(w, "il campo 'preventivoId' è obbligatorio", http.StatusBadRequest)
		return
	}

	a, err := h.Appuntamenti.TrovaPerID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "appuntamento non trovato", http.StatusNotFound)
		return
	}
	if a.LeadID == nil {
		http.Error(w, "l'appuntamento non è legato a un lead", http.StatusBadRequest)
		return
	}

	l, err := h.Leads.TrovaPerID(h.DB, *a.LeadID)
	if err != nil {
		http.Error(w, "lead non trovato", http.StatusNotFound)
		return
	}
	if !h.puoAccedere(r, l.ClienteID) {
		http.Error(w, "accesso negato", http.StatusForbidden)
		return
	}

	p, err := h.Preventivi.TrovaPerID(req.PreventivoID)
	if err != nil {
		http.Error(w, "preventivo non trovato", http.StatusNotFound)
		return
	}
	if p.LeadID != l.ID {
		http.Error(w, "il preventivo non appartiene al lead dell'appuntamento", http.StatusBadRequest)
		return
	}

	lead.ApplicaSelezione(l, p.Totale, a.CostoRicambi)
	a.PreventivoVincenteID = &p.ID

	// Due salvataggi sequenziali: appuntamento poi lead.
	if err := h.Appuntamenti.Aggiorna(h.DB, a); err != nil {
		h.Log.Error("salvataggio appuntamento fallito", zap.Uint("appuntamentoId", a.ID), zap.Error(err))
		http.Error(w, "errore nel salvataggio dell'appuntamento", http.StatusInternalServerError)
		return
	}
	if err := h.Leads.Aggiorna(h.DB, l); err != nil {
		h.Log.Error("salvataggio lead fallito", zap.Uint("leadId", l.ID), zap.Error(err))
		http.Error(w, "errore nel salvataggio del lead", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(esitoSelezioneResponse{Appuntamento: a, Lead: l})
}

// RimuoviVincente tratta DELETE /appuntamenti/{id}/preventivo-vincente:
// ripristina il valore del lead precedente alla selezione.
func (h *Handler) RimuoviVincente(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID non valido", http.StatusBadRequest)
		return
	}

	a, err := h.Appuntamenti.TrovaPerID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "appuntamento non trovato", http.StatusNotFound)
		return
	}
	if a.LeadID == nil {
		http.Error(w, "l'appuntamento non è legato a un lead", http.StatusBadRequest)
		return
	}

	l, err := h.Leads.TrovaPerID(h.DB, *a.LeadID)
	if err != nil {
		http.Error(w, "lead non trovato", http.StatusNotFound)
		return
	}
	if !h.puoAccedere(r, l.ClienteID) {
		http.Error(w, "accesso negato", http.StatusForbidden)
		return
	}

	lead.RimuoviSelezione(l)
	a.PreventivoVincenteID = nil

	if err := h.Appuntamenti.Aggiorna(h.DB, a); err != nil {
		http.Error(w, "errore nel salvataggio dell'appuntamento", http.StatusInternalServerError)
		return
	}
	if err := h.Leads.Aggiorna(h.DB, l); err != nil {
		h.Log.Error("ripristino valore lead fallito", zap.Uint("leadId", l.ID), zap.Error(err))
		http.Error(w, "errore nel salvataggio del lead", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(esitoSelezioneResponse{Appuntamento: a, Lead: l})
}
