package preventivo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/MWSGestioneLead/api-lead/internal/auth"
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

// Accettare un preventivo retrocede a "sent" quello già accettato
// sullo stesso lead: mai due preventivi accettati insieme.
func TestAggiornaStatoRetrocedePrecedente(t *testing.T) {
	db, mock := setupMockDB(t)
	h := NewHandler(NewRepository(db), zap.NewNop())

	// preventivo da promuovere
	mock.ExpectQuery(`SELECT \* FROM "preventivi"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "cliente_id", "lead_id", "stato"}).
			AddRow(2, 3, 9, StatoInviato))
	mock.ExpectQuery(`SELECT \* FROM "voci"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "preventivo_id"}))

	// preventivo già accettato sullo stesso lead
	mock.ExpectQuery(`SELECT \* FROM "preventivi"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "cliente_id", "lead_id", "stato"}).
			AddRow(1, 3, 9, StatoAccettato))

	// retrocessione del precedente, poi promozione
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "preventivi" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "preventivi" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	r := mux.NewRouter()
	r.HandleFunc("/preventivi/{id}/stato", h.AggiornaStato).Methods("PATCH")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, richiestaAdmin(http.MethodPatch, "/preventivi/2/stato", `{"stato":"accepted"}`))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"stato":"accepted"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAggiornaStatoSenzaPrecedente(t *testing.T) {
	db, mock := setupMockDB(t)
	h := NewHandler(NewRepository(db), zap.NewNop())

	mock.ExpectQuery(`SELECT \* FROM "preventivi"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "cliente_id", "lead_id", "stato"}).
			AddRow(2, 3, 9, StatoInviato))
	mock.ExpectQuery(`SELECT \* FROM "voci"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "preventivo_id"}))

	// nessun altro preventivo accettato
	mock.ExpectQuery(`SELECT \* FROM "preventivi"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "preventivi" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	r := mux.NewRouter()
	r.HandleFunc("/preventivi/{id}/stato", h.AggiornaStato).Methods("PATCH")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, richiestaAdmin(http.MethodPatch, "/preventivi/2/stato", `{"stato":"accepted"}`))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Modificare le voci del preventivo vincente di un appuntamento
// riallinea il valore del lead al nuovo totale meno il costo ricambi.
func TestAggiornaVociRiderivaValoreLead(t *testing.T) {
	db, mock := setupMockDB(t)
	h := NewHandler(NewRepository(db), zap.NewNop())

	mock.ExpectQuery(`SELECT \* FROM "preventivi"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "cliente_id", "lead_id", "stato", "totale"}).
			AddRow(8, 3, 5, StatoAccettato, 300.0))
	mock.ExpectQuery(`SELECT \* FROM "voci"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "preventivo_id"}))

	// sostituzione voci e ricalcolo totali in transazione
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "voci"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "voci"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
	mock.ExpectExec(`UPDATE "preventivi" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// riallineamento: selezione attiva, lead, salvataggio del lead
	mock.ExpectQuery(`SELECT lead_id, costo_ricambi FROM "appuntamenti"`).
		WillReturnRows(sqlmock.NewRows([]string{"lead_id", "costo_ricambi"}).
			AddRow(5, 80.0))
	mock.ExpectQuery(`SELECT \* FROM "leads"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "cliente_id", "stato", "valore"}).
			AddRow(5, 3, "In Lavorazione", 220.0))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "leads" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	r := mux.NewRouter()
	r.HandleFunc("/preventivi/{id}", h.Aggiorna).Methods("PUT")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, richiestaAdmin(http.MethodPut, "/preventivi/8",
		`{"voci":[{"descrizione":"Pezzi","quantita":"2","prezzo":"100","aliquotaIva":"22"}]}`))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"totale":244`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Un preventivo che non è vincente di nessun appuntamento non tocca il
// lead quando cambia.
func TestAggiornaVociSenzaSelezioneAttiva(t *testing.T) {
	db, mock := setupMockDB(t)
	h := NewHandler(NewRepository(db), zap.NewNop())

	mock.ExpectQuery(`SELECT \* FROM "preventivi"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "cliente_id", "lead_id", "stato", "totale"}).
			AddRow(8, 3, 5, StatoInviato, 300.0))
	mock.ExpectQuery(`SELECT \* FROM "voci"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "preventivo_id"}))

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "voci"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "voci"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
	mock.ExpectExec(`UPDATE "preventivi" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// nessun appuntamento con questo vincente
	mock.ExpectQuery(`SELECT lead_id, costo_ricambi FROM "appuntamenti"`).
		WillReturnRows(sqlmock.NewRows([]string{"lead_id", "costo_ricambi"}))

	r := mux.NewRouter()
	r.HandleFunc("/preventivi/{id}", h.Aggiorna).Methods("PUT")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, richiestaAdmin(http.MethodPut, "/preventivi/8",
		`{"voci":[{"descrizione":"Pezzi","quantita":"1","prezzo":"50","aliquotaIva":"22"}]}`))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAggiornaStatoNonValido(t *testing.T) {
	db, _ := setupMockDB(t)
	h := NewHandler(NewRepository(db), zap.NewNop())

	r := mux.NewRouter()
	r.HandleFunc("/preventivi/{id}/stato", h.AggiornaStato).Methods("PATCH")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, richiestaAdmin(http.MethodPatch, "/preventivi/2/stato", `{"stato":"approvato"}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
