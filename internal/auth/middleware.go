package auth

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey string

const (
	CtxUtenteID  ctxKey = "utenteID"
	CtxIsAdmin   ctxKey = "isAdmin"
	CtxClienteID ctxKey = "clienteID"
)

// MiddlewareAutenticazione valida il Bearer token e inietta identità e ruolo nel contesto.
func MiddlewareAutenticazione(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		h := r.Header.Get("Authorization")
		if h == "" || !strings.HasPrefix(h, "Bearer ") {
			http.Error(w, "token mancante", http.StatusUnauthorized)
			return
		}
		raw := strings.TrimPrefix(h, "Bearer ")
		claims, err := ValidaToken(raw)
		if err != nil {
			http.Error(w, "token non valido", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), CtxUtenteID, claims.UtenteID)
		ctx = context.WithValue(ctx, CtxIsAdmin, claims.IsAdmin)
		ctx = context.WithValue(ctx, CtxClienteID, claims.ClienteID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin consente l'accesso solo agli utenti admin.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v := r.Context().Value(CtxIsAdmin)
		if ok, _ := v.(bool); !ok {
			http.Error(w, "riservato agli amministratori", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// IdentitaDalContesto restituisce id utente, flag admin e cliente associato.
func IdentitaDalContesto(ctx context.Context) (utenteID uint, isAdmin bool, clienteID uint) {
	utenteID, _ = ctx.Value(CtxUtenteID).(uint)
	isAdmin, _ = ctx.Value(CtxIsAdmin).(bool)
	clienteID, _ = ctx.Value(CtxClienteID).(uint)
	return
}
