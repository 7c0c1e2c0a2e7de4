package ricavi

import (
	"context"
	"net/http"
	"net/http/httptest"
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

// Il calcolo pesca solo i lead vinti del cliente e aggrega per mese di
// attribuzione.
func TestCalcolo(t *testing.T) {
	db, mock := setupMockDB(t)
	h := NewHandler(db, zap.NewNop())

	mock.ExpectQuery(`SELECT \* FROM "clienti"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "fee_fisso", "percentuale_profitto"}).
			AddRow(3, 100.0, 10.0))
	mock.ExpectQuery(`SELECT \* FROM "servizi"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "cliente_id"}))

	// solo lead vinti del cliente
	mock.ExpectQuery(`SELECT \* FROM "leads" WHERE \(cliente_id = \$1 AND stato = \$2\)`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "cliente_id", "stato", "valore", "dati"}).
			AddRow(5, 3, lead.StatoVinto, 500.0, `{"data_attribuzione":"2025-03"}`))
	mock.ExpectQuery(`SELECT \* FROM "spese_pubblicitarie"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "cliente_id", "importo"}))

	r := mux.NewRouter()
	r.HandleFunc("/clienti/{id}/ricavi/calcolo", h.Calcolo).Methods("GET")

	req := httptest.NewRequest(http.MethodGet, "/clienti/3/ricavi/calcolo?da=2025-03&a=2025-03", nil)
	req = req.WithContext(context.WithValue(req.Context(), auth.CtxIsAdmin, true))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ricavoLead":500`)
	assert.Contains(t, rec.Body.String(), `"ricavoMws":150`)
	assert.Contains(t, rec.Body.String(), `"leadVinti":1`)
	assert.NoError(t, mock.ExpectationsWereMet())
}
