package webhook

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
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

func router(h *Handler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/webhook/lead/{clienteID}", h.Ricevi).Methods("GET", "POST")
	return r
}

func attendiCliente(mock sqlmock.Sqlmock) {
	mock.ExpectQuery(`SELECT \* FROM "clienti"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "nome"}).AddRow(3, "Officina Rossi"))
	mock.ExpectQuery(`SELECT \* FROM "servizi"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "cliente_id", "nome"}))
}

func TestRiceviDaQueryString(t *testing.T) {
	db, mock := setupMockDB(t)
	h := NewHandler(db, zap.NewNop())

	attendiCliente(mock)
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "leads"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
	mock.ExpectCommit()

	req := httptest.NewRequest(http.MethodGet, "/webhook/lead/3?nome=Mario&telefono=333111&service=Tagliando", nil)
	rec := httptest.NewRecorder()
	router(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"leadId":42`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRiceviDaCorpoJSON(t *testing.T) {
	db, mock := setupMockDB(t)
	h := NewHandler(db, zap.NewNop())

	attendiCliente(mock)
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "leads"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectCommit()

	corpo := `{"nome":"Luisa","targa":"AB123CD","service":"Gomme"}`
	req := httptest.NewRequest(http.MethodPost, "/webhook/lead/3", strings.NewReader(corpo))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRiceviSenzaCampi(t *testing.T) {
	db, mock := setupMockDB(t)
	h := NewHandler(db, zap.NewNop())

	attendiCliente(mock)

	req := httptest.NewRequest(http.MethodGet, "/webhook/lead/3?service=Tagliando", nil)
	rec := httptest.NewRecorder()
	router(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRiceviClienteInesistente(t *testing.T) {
	db, mock := setupMockDB(t)
	h := NewHandler(db, zap.NewNop())

	mock.ExpectQuery(`SELECT \* FROM "clienti"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	req := httptest.NewRequest(http.MethodGet, "/webhook/lead/99?nome=Mario", nil)
	rec := httptest.NewRecorder()
	router(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRiceviCampoObbligatorioMancante(t *testing.T) {
	db, mock := setupMockDB(t)
	h := NewHandler(db, zap.NewNop())

	mock.ExpectQuery(`SELECT \* FROM "clienti"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "nome"}).AddRow(3, "Officina Rossi"))
	mock.ExpectQuery(`SELECT \* FROM "servizi"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "cliente_id", "nome"}).AddRow(1, 3, "Tagliando"))
	mock.ExpectQuery(`SELECT \* FROM "campi_lead"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "servizio_id", "nome", "obbligatorio"}).
			AddRow(1, 1, "telefono", true))

	req := httptest.NewRequest(http.MethodGet, "/webhook/lead/3?nome=Mario&service=Tagliando", nil)
	rec := httptest.NewRecorder()
	router(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "telefono")
}
