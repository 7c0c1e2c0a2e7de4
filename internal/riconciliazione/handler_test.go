package riconciliazione

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/MWSGestioneLead/api-lead/internal/auth"
	"github.com/MWSGestioneLead/api-lead/internal/lead"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func richiestaAdmin(metodo, url, corpo string) *http.Request {
	req := httptest.NewRequest(metodo, url, strings.NewReader(corpo))
	ctx := context.WithValue(req.Context(), auth.CtxIsAdmin, true)
	return req.WithContext(ctx)
}

func routerStato(h *Handler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/leads/{id}/stato", h.TransizioneStato).Methods("PATCH")
	return r
}

// Un lead con valore zero non può essere segnato Vinto e il suo stato
// resta invariato.
func TestTransizioneVintoConValoreZero(t *testing.T) {
	db, mock := setupMockDB(t)
	h := NewHandler(db, zap.NewNop())

	mock.ExpectQuery(`SELECT \* FROM "leads"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "cliente_id", "stato", "valore"}).
			AddRow(5, 3, lead.StatoInLavorazione, 0))

	rec := httptest.NewRecorder()
	routerStato(h).ServeHTTP(rec, richiestaAdmin(http.MethodPatch, "/leads/5/stato",
		`{"stato":"Vinto","attribuzione":"corrente"}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "valore positivo")
	// nessun UPDATE atteso: lo stato non è cambiato
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransizioneVintoSenzaAttribuzione(t *testing.T) {
	db, mock := setupMockDB(t)
	h := NewHandler(db, zap.NewNop())

	mock.ExpectQuery(`SELECT \* FROM "leads"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "cliente_id", "stato", "valore"}).
			AddRow(5, 3, lead.StatoInLavorazione, 300))

	rec := httptest.NewRecorder()
	routerStato(h).ServeHTTP(rec, richiestaAdmin(http.MethodPatch, "/leads/5/stato", `{"stato":"Vinto"}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "attribuzione")
}

func TestTransizioneVintoMarcaAttribuzione(t *testing.T) {
	db, mock := setupMockDB(t)
	h := NewHandler(db, zap.NewNop())

	mock.ExpectQuery(`SELECT \* FROM "leads"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "cliente_id", "stato", "valore"}).
			AddRow(5, 3, lead.StatoInLavorazione, 300))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "leads" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	rec := httptest.NewRecorder()
	routerStato(h).ServeHTTP(rec, richiestaAdmin(http.MethodPatch, "/leads/5/stato",
		`{"stato":"Vinto","attribuzione":"corrente"}`))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), lead.ChiaveDataAttribuzione)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Lasciare Vinto retrocede il preventivo accettato del lead.
func TestTransizioneDaVintoRetrocedePreventivo(t *testing.T) {
	db, mock := setupMockDB(t)
	h := NewHandler(db, zap.NewNop())

	mock.ExpectQuery(`SELECT \* FROM "leads"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "cliente_id", "stato", "valore"}).
			AddRow(5, 3, lead.StatoVinto, 300))
	mock.ExpectQuery(`SELECT \* FROM "preventivi"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "lead_id", "stato"}).
			AddRow(8, 5, "accepted"))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "preventivi" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "leads" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	rec := httptest.NewRecorder()
	routerStato(h).ServeHTTP(rec, richiestaAdmin(http.MethodPatch, "/leads/5/stato",
		`{"stato":"In Lavorazione"}`))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransizioneStatoSconosciuto(t *testing.T) {
	db, _ := setupMockDB(t)
	h := NewHandler(db, zap.NewNop())

	rec := httptest.NewRecorder()
	routerStato(h).ServeHTTP(rec, richiestaAdmin(http.MethodPatch, "/leads/5/stato",
		`{"stato":"Archiviato"}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
