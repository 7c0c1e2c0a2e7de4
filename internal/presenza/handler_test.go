package presenza

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/MWSGestioneLead/api-lead/internal/auth"
	"github.com/MWSGestioneLead/api-lead/internal/realtime"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupHandler(t *testing.T) (*Handler, sqlmock.Sqlmock, *miniredis.Miniredis) {
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	return NewHandler(db, rdb, "", zap.NewNop()), mock, mr
}

func richiestaUtente(metodo, url string, utenteID uint) *http.Request {
	req := httptest.NewRequest(metodo, url, nil)
	ctx := context.WithValue(req.Context(), auth.CtxUtenteID, utenteID)
	ctx = context.WithValue(ctx, auth.CtxIsAdmin, true)
	return req.WithContext(ctx)
}

func TestHeartbeat(t *testing.T) {
	h, mock, mr := setupHandler(t)

	mock.ExpectQuery(`SELECT \* FROM "utenti"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "nome"}).AddRow(5, "Giulia"))

	rec := httptest.NewRecorder()
	h.Heartbeat(rec, richiestaUtente(http.MethodPost, "/presenza/heartbeat", 5))

	require.Equal(t, http.StatusOK, rec.Code)

	raw, err := mr.Get(realtime.ChiavePresenza(5))
	require.NoError(t, err)
	var p Presenza
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	assert.Equal(t, uint(5), p.UtenteID)
	assert.Equal(t, "Giulia", p.Nome)

	ttl := mr.TTL(realtime.ChiavePresenza(5))
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, TTLPresenza)
}

func TestListaPresenze(t *testing.T) {
	h, _, mr := setupHandler(t)

	for id, nome := range map[uint]string{1: "Giulia", 2: "Marco"} {
		payload, _ := json.Marshal(Presenza{UtenteID: id, Nome: nome, Timestamp: time.Now().UTC()})
		require.NoError(t, mr.Set(realtime.ChiavePresenza(id), string(payload)))
	}

	rec := httptest.NewRecorder()
	h.Lista(rec, richiestaUtente(http.MethodGet, "/presenza", 1))

	require.Equal(t, http.StatusOK, rec.Code)
	var presenze []Presenza
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &presenze))
	assert.Len(t, presenze, 2)
}

func TestListaPresenzeVuota(t *testing.T) {
	h, _, _ := setupHandler(t)

	rec := httptest.NewRecorder()
	h.Lista(rec, richiestaUtente(http.MethodGet, "/presenza", 1))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}
