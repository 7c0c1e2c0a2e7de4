package preventivo

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/MWSGestioneLead/api-lead/internal/auth"
	"github.com/MWSGestioneLead/api-lead/internal/lead"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Handler gestisce le rotte dei preventivi.
type Handler struct {
	Repo *Repository
	Log  *zap.Logger
}

// NewHandler crea un nuovo Handler.
func NewHandler(repo *Repository, log *zap.Logger) *Handler {
	return &Handler{Repo: repo, Log: log}
}

type aggiornaStatoRequest struct {
	Stato string `json:"stato"`
}

func (h *Handler) puoAccedere(r *http.Request, clienteID uint) bool {
	isAdmin, _ := r.Context().Value(auth.CtxIsAdmin).(bool)
	ctxCliente, _ := r.Context().Value(auth.CtxClienteID).(uint)
	return isAdmin || ctxCliente == clienteID
}

// Crea tratta POST /preventivi: crea il preventivo con le sue voci e
// ne calcola i totali in un'unica transazione.
func (h *Handler) Crea(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var dto CreaPreventivoDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "JSON non valido", http.StatusBadRequest)
		return
	}
	if dto.LeadID == 0 {
		http.Error(w, "il campo 'leadId' è obbligatorio", http.StatusBadRequest)
		return
	}

	// Il cliente del preventivo è quello del lead.
	var l lead.Lead
	if err := h.Repo.DB.First(&l, dto.LeadID).Error; err != nil {
		http.Error(w, "lead non trovato", http.StatusNotFound)
		return
	}
	if !h.puoAccedere(r, l.ClienteID) {
		http.Error(w, "accesso negato", http.StatusForbidden)
		return
	}

	voci := dto.Modello()
	totali := CalcolaTotali(voci)

	p := Preventivo{
		ClienteID:  l.ClienteID,
		LeadID:     l.ID,
		Stato:      StatoBozza,
		Imponibile: totali.Imponibile,
		IVA:        totali.IVA,
		Totale:     totali.Totale,
	}

	tx := h.Repo.DB.Begin()
	if tx.Error != nil {
		http.Error(w, "impossibile avviare la transazione", http.StatusInternalServerError)
		return
	}

	if err := tx.Create(&p).Error; err != nil {
		_ = tx.Rollback()
		h.Log.Error("creazione preventivo fallita", zap.Error(err))
		http.Error(w, "errore nella creazione del preventivo", http.StatusInternalServerError)
		return
	}
	for i := range voci {
		voci[i].PreventivoID = p.ID
	}
	if len(voci) > 0 {
		if err := tx.Create(&voci).Error; err != nil {
			_ = tx.Rollback()
			h.Log.Error("creazione voci fallita", zap.Error(err))
			http.Error(w, "errore nella creazione delle voci", http.StatusInternalServerError)
			return
		}
	}
	if err := tx.Commit().Error; err != nil {
		_ = tx.Rollback()
		http.Error(w, "errore nel confermare la transazione", http.StatusInternalServerError)
		return
	}

	p.Voci = voci
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(p)
}

// ListaPerLead tratta GET /leads/{id}/preventivi.
func (h *Handler) ListaPerLead(w http.ResponseWriter, r *http.Request) {
	leadID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID del lead non valido", http.StatusBadRequest)
		return
	}

	var l lead.Lead
	if err := h.Repo.DB.First(&l, leadID).Error; err != nil {
		http.Error(w, "lead non trovato", http.StatusNotFound)
		return
	}
	if !h.puoAccedere(r, l.ClienteID) {
		http.Error(w, "accesso negato", http.StatusForbidden)
		return
	}

	list, err := h.Repo.TrovaPerLead(uint(leadID))
	if err != nil {
		http.Error(w, "errore nella ricerca dei preventivi", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(list)
}

// Trova tratta GET /preventivi/{id}.
func (h *Handler) Trova(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID non valido", http.StatusBadRequest)
		return
	}

	p, err := h.Repo.TrovaPerID(uint(id))
	if err != nil {
		http.Error(w, "preventivo non trovato", http.StatusNotFound)
		return
	}
	if !h.puoAccedere(r, p.ClienteID) {
		http.Error(w, "accesso negato", http.StatusForbidden)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(p)
}

// Aggiorna tratta PUT /preventivi/{id}: sostituisce le voci e ricalcola i totali.
func (h *Handler) Aggiorna(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID non valido", http.StatusBadRequest)
		return
	}

	p, err := h.Repo.TrovaPerID(uint(id))
	if err != nil {
		http.Error(w, "preventivo non trovato", http.StatusNotFound)
		return
	}
	if !h.puoAccedere(r, p.ClienteID) {
		http.Error(w, "accesso negato", http.StatusForbidden)
		return
	}

	var dto CreaPreventivoDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "JSON non valido", http.StatusBadRequest)
		return
	}

	voci := dto.Modello()
	totali := CalcolaTotali(voci)

	tx := h.Repo.DB.Begin()
	if tx.Error != nil {
		http.Error(w, "impossibile avviare la transazione", http.StatusInternalServerError)
		return
	}

	if err := tx.Where("preventivo_id = ?", p.ID).Delete(&Voce{}).Error; err != nil {
		_ = tx.Rollback()
		http.Error(w, "errore nell'aggiornamento delle voci", http.StatusInternalServerError)
		return
	}
	for i := range voci {
		voci[i].PreventivoID = p.ID
	}
	if len(voci) > 0 {
		if err := tx.Create(&voci).Error; err != nil {
			_ = tx.Rollback()
			http.Error(w, "errore nell'aggiornamento delle voci", http.StatusInternalServerError)
			return
		}
	}
	if err := tx.Model(p).Updates(map[string]interface{}{
		"imponibile": totali.Imponibile,
		"iva":        totali.IVA,
		"totale":     totali.Totale,
	}).Error; err != nil {
		_ = tx.Rollback()
		http.Error(w, "errore nell'aggiornamento dei totali", http.StatusInternalServerError)
		return
	}
	if err := tx.Commit().Error; err != nil {
		_ = tx.Rollback()
		http.Error(w, "errore nel confermare la transazione", http.StatusInternalServerError)
		return
	}

	totaleCambiato := p.Totale != totali.Totale
	p.Voci = voci
	p.Imponibile = totali.Imponibile
	p.IVA = totali.IVA
	p.Totale = totali.Totale

	// Se il preventivo è il vincente di un appuntamento, il valore del
	// lead deriva dal suo totale e va riallineato. Salvataggio separato
	// dalla transazione delle voci, non atomico (lacuna nota).
	if totaleCambiato {
		if err := h.riderivaLead(p); err != nil {
			h.Log.Error("riallineamento valore lead fallito",
				zap.Uint("preventivoId", p.ID), zap.Error(err))
			http.Error(w, "errore nel riallineamento del valore del lead", http.StatusInternalServerError)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(p)
}

// riderivaLead riallinea il valore del lead quando il preventivo è il
// vincente di un appuntamento attivo. La scansione è su tabella cruda
// per non dipendere dal pacchetto appuntamento, quindi il filtro sul
// soft delete è esplicito.
func (h *Handler) riderivaLead(p *Preventivo) error {
	var sel struct {
		LeadID       *uint
		CostoRicambi float64
	}
	err := h.Repo.DB.Table("appuntamenti").
		Select("lead_id, costo_ricambi").
		Where("preventivo_vincente_id = ? AND deleted_at IS NULL", p.ID).
		Take(&sel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if sel.LeadID == nil {
		return nil
	}

	var l lead.Lead
	if err := h.Repo.DB.First(&l, *sel.LeadID).Error; err != nil {
		return err
	}
	lead.ApplicaSelezione(&l, p.Totale, sel.CostoRicambi)
	return h.Repo.DB.Save(&l).Error
}

// AggiornaStato tratta PATCH /preventivi/{id}/stato.
// Quando il nuovo stato è "accepted" applica l'invariante di unico
// preventivo accettato per lead: l'eventuale preventivo già accettato
// viene retrocesso a "sent" prima della promozione. Sono due update
// sequenziali senza rollback compensativo: un'interruzione tra i due
// passi lascia il lead senza preventivo accettato (lacuna nota).
func (h *Handler) AggiornaStato(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID non valido", http.StatusBadRequest)
		return
	}

	var payload aggiornaStatoRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "JSON non valido", http.StatusBadRequest)
		return
	}
	if !StatoValido(payload.Stato) {
		http.Error(w, "stato non valido", http.StatusBadRequest)
		return
	}

	p, err := h.Repo.TrovaPerID(uint(id))
	if err != nil {
		http.Error(w, "preventivo non trovato", http.StatusNotFound)
		return
	}
	if !h.puoAccedere(r, p.ClienteID) {
		http.Error(w, "accesso negato", http.StatusForbidden)
		return
	}

	if payload.Stato == StatoAccettato {
		precedente, err := h.Repo.TrovaAccettatoPerLead(p.LeadID, p.ID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "errore nella ricerca del preventivo accettato", http.StatusInternalServerError)
			return
		}
		if precedente != nil {
			if err := h.Repo.AggiornaStato(precedente.ID, StatoInviato); err != nil {
				h.Log.Error("retrocessione preventivo fallita",
					zap.Uint("preventivoId", precedente.ID), zap.Error(err))
				http.Error(w, "errore nella retrocessione del preventivo accettato", http.StatusInternalServerError)
				return
			}
		}
	}

	if err := h.Repo.AggiornaStato(p.ID, payload.Stato); err != nil {
		h.Log.Error("aggiornamento stato preventivo fallito",
			zap.Uint("preventivoId", p.ID), zap.Error(err))
		http.Error(w, "errore nell'aggiornamento dello stato", http.StatusInternalServerError)
		return
	}

	p.Stato = payload.Stato
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(p)
}

// Elimina tratta DELETE /preventivi/{id}.
func (h *Handler) Elimina(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID non valido", http.StatusBadRequest)
		return
	}

	p, err := h.Repo.TrovaPerID(uint(id))
	if err != nil {
		http.Error(w, "preventivo non trovato", http.StatusNotFound)
		return
	}
	if !h.puoAccedere(r, p.ClienteID) {
		http.Error(w, "accesso negato", http.StatusForbidden)
		return
	}

	if err := h.Repo.Elimina(p); err != nil {
		http.Error(w, "errore nell'eliminazione del preventivo", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
