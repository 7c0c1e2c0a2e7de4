package utente

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/MWSGestioneLead/api-lead/internal/auth"
	"github.com/MWSGestioneLead/api-lead/internal/utils"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

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

// POST /login
// Valida email/password ed emette un token HS256.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload non valido", http.StatusBadRequest)
		return
	}

	u, err := h.Repository.TrovaPerEmail(h.DB, req.Email)
	if err != nil {
		http.Error(w, "credenziali non valide", http.StatusUnauthorized)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)); err != nil {
		http.Error(w, "credenziali non valide", http.StatusUnauthorized)
		return
	}

	var clienteID uint
	if u.ClienteID != nil {
		clienteID = *u.ClienteID
	}
	token, err := auth.GeneraToken(u.ID, u.IsAdmin, clienteID)
	if err != nil {
		h.Log.Error("generazione token fallita", zap.Error(err))
		http.Error(w, "errore nella generazione del token", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"access_token": token,
		"token_type":   "Bearer",
		"utente":       u,
	})
}

// POST /utenti (solo admin). Se la password è vuota ne genera una
// temporanea e la restituisce in chiaro nella risposta.
func (h *Handler) Crea(w http.ResponseWriter, r *http.Request) {
	// La rotta sta dietro auth.RequireAdmin nel router; il check qui
	// resta come salvaguardia.
	isAdmin, _ := r.Context().Value(auth.CtxIsAdmin).(bool)
	if !isAdmin {
		http.Error(w, "riservato agli amministratori", http.StatusForbidden)
		return
	}

	var req CreaUtenteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload non valido", http.StatusBadRequest)
		return
	}
	if req.Email == "" {
		http.Error(w, "email obbligatoria", http.StatusBadRequest)
		return
	}

	password := req.Password
	temporanea := false
	if password == "" {
		var err error
		password, err = utils.GeneraPasswordTemporanea()
		if err != nil {
			http.Error(w, "errore nella generazione della password", http.StatusInternalServerError)
			return
		}
		temporanea = true
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		http.Error(w, "errore nell'elaborazione della password", http.StatusInternalServerError)
		return
	}

	u := Utente{
		Nome:      req.Nome,
		Email:     req.Email,
		Password:  hash,
		IsAdmin:   req.IsAdmin,
		ClienteID: req.ClienteID,
	}
	if err := h.Repository.Salva(h.DB, &u); err != nil {
		h.Log.Error("salvataggio utente fallito", zap.Error(err))
		http.Error(w, "errore nel salvataggio dell'utente", http.StatusInternalServerError)
		return
	}

	resp := map[string]any{"utente": u}
	if temporanea {
		resp["passwordTemporanea"] = password
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(resp)
}

// GET /utenti (solo admin)
func (h *Handler) Lista(w http.ResponseWriter, r *http.Request) {
	isAdmin, _ := r.Context().Value(auth.CtxIsAdmin).(bool)
	if !isAdmin {
		http.Error(w, "accesso negato", http.StatusForbidden)
		return
	}

	utenti, err := h.Repository.ListaTutti(h.DB)
	if err != nil {
		http.Error(w, "errore nella lista degli utenti", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(utenti)
}

// GET /utenti/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	utenteID, _ := r.Context().Value(auth.CtxUtenteID).(uint)

	u, err := h.Repository.TrovaPerID(h.DB, utenteID)
	if err != nil {
		http.Error(w, "utente non trovato", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(u)
}

// PUT /utenti/{id}
func (h *Handler) Aggiorna(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID non valido", http.StatusBadRequest)
		return
	}
	isAdmin, _ := r.Context().Value(auth.CtxIsAdmin).(bool)
	utenteID, _ := r.Context().Value(auth.CtxUtenteID).(uint)
	if !isAdmin && uint(id) != utenteID {
		http.Error(w, "accesso negato", http.StatusForbidden)
		return
	}

	u, err := h.Repository.TrovaPerID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "utente non trovato", http.StatusNotFound)
		return
	}

	var req AggiornaUtenteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload non valido", http.StatusBadRequest)
		return
	}
	if req.Nome != nil {
		u.Nome = *req.Nome
	}
	if req.Email != nil {
		u.Email = *req.Email
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := utils.HashPassword(*req.Password)
		if err != nil {
			http.Error(w, "errore nell'elaborazione della password", http.StatusInternalServerError)
			return
		}
		u.Password = hash
	}

	if err := h.Repository.Aggiorna(h.DB, u); err != nil {
		http.Error(w, "errore nell'aggiornamento dell'utente", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(u)
}

// DELETE /utenti/{id} (solo admin)
func (h *Handler) Elimina(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID non valido", http.StatusBadRequest)
		return
	}
	if err := h.Repository.Elimina(h.DB, uint(id)); err != nil {
		http.Error(w, "errore nell'eliminazione dell'utente", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("utente eliminato"))
}
