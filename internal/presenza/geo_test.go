package presenza

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalizza(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/93.45.1.1", r.URL.Path)
		_, _ = w.Write([]byte(`{"status":"success","country":"Italy","regionName":"Lombardia","city":"Milano","isp":"Fastweb"}`))
	}))
	defer srv.Close()

	g := Localizza(context.Background(), srv.URL, "93.45.1.1")
	require.NotNil(t, g)
	assert.Equal(t, "Milano", g.Citta)
	assert.Equal(t, "Italy", g.Paese)
}

func TestLocalizzaFallimenti(t *testing.T) {
	fallito := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"fail","message":"private range"}`))
	}))
	defer fallito.Close()

	assert.Nil(t, Localizza(context.Background(), fallito.URL, "192.168.1.1"))
	assert.Nil(t, Localizza(context.Background(), fallito.URL, ""))
	assert.Nil(t, Localizza(context.Background(), "", "93.45.1.1"))
	assert.Nil(t, Localizza(context.Background(), "http://127.0.0.1:1", "93.45.1.1"))
}
