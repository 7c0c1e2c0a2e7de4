package presenza

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Geolocalizzazione è il sottoinsieme della risposta di ip-api che
// interessa al pannello presenze.
type Geolocalizzazione struct {
	Stato   string `json:"status"`
	Paese   string `json:"country"`
	Regione string `json:"regionName"`
	Citta   string `json:"city"`
	ISP     string `json:"isp"`
}

var clientGeo = &http.Client{Timeout: 3 * time.Second}

// Localizza interroga il servizio di geolocalizzazione per l'IP dato.
// Un fallimento non è un errore del chiamante: restituisce nil e il
// pannello mostra la presenza senza posizione.
func Localizza(ctx context.Context, baseURL, ip string) *Geolocalizzazione {
	if ip == "" || baseURL == "" {
		return nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/%s", baseURL, ip), nil)
	if err != nil {
		return nil
	}
	resp, err := clientGeo.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil
	}

	var g Geolocalizzazione
	if err := json.NewDecoder(resp.Body).Decode(&g); err != nil {
		return nil
	}
	if g.Stato != "success" {
		return nil
	}
	return &g
}
