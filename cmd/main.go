package main

import (
	"context"
	"net/http"
	"time"

	"github.com/MWSGestioneLead/api-lead/internal/appuntamento"
	"github.com/MWSGestioneLead/api-lead/internal/auth"
	"github.com/MWSGestioneLead/api-lead/internal/chat"
	"github.com/MWSGestioneLead/api-lead/internal/cliente"
	"github.com/MWSGestioneLead/api-lead/internal/config"
	"github.com/MWSGestioneLead/api-lead/internal/lead"
	"github.com/MWSGestioneLead/api-lead/internal/logger"
	"github.com/MWSGestioneLead/api-lead/internal/notifica"
	"github.com/MWSGestioneLead/api-lead/internal/presenza"
	"github.com/MWSGestioneLead/api-lead/internal/preventivo"
	"github.com/MWSGestioneLead/api-lead/internal/realtime"
	"github.com/MWSGestioneLead/api-lead/internal/ricavi"
	"github.com/MWSGestioneLead/api-lead/internal/riconciliazione"
	"github.com/MWSGestioneLead/api-lead/internal/spesa"
	"github.com/MWSGestioneLead/api-lead/internal/utente"
	"github.com/MWSGestioneLead/api-lead/internal/utils/db"
	"github.com/MWSGestioneLead/api-lead/internal/webhook"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Carica()

	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	defer func() { _ = log.Sync() }()

	if err := auth.Init(cfg.JWTSecret); err != nil {
		log.Fatal("configurazione JWT mancante", zap.Error(err))
	}

	conn, err := db.Connetti(cfg.DB)
	if err != nil {
		log.Fatal("connessione al database fallita", zap.Error(err))
	}

	if err := conn.AutoMigrate(
		&utente.Utente{},
		&cliente.Cliente{},
		&cliente.Servizio{},
		&cliente.CampoLead{},
		&lead.Lead{},
		&preventivo.Preventivo{},
		&preventivo.Voce{},
		&appuntamento.Appuntamento{},
		&spesa.SpesaPubblicitaria{},
		&ricavi.RicavoMensile{},
		&notifica.Notifica{},
	); err != nil {
		log.Fatal("migrazione fallita", zap.Error(err))
	}

	rdb := realtime.NuovoClient(cfg.Redis)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := realtime.Ping(ctx, rdb); err != nil {
		log.Warn("redis non raggiungibile: presenza e notifiche in tempo reale non disponibili", zap.Error(err))
	}
	cancel()

	utenteHandler := utente.NewHandler(conn, log)
	clienteHandler := cliente.NewHandler(conn, log)
	leadHandler := lead.NewHandler(conn, log)
	preventivoHandler := preventivo.NewHandler(preventivo.NewRepository(conn), log)
	appuntamentoHandler := appuntamento.NewHandler(conn, log)
	riconciliazioneHandler := riconciliazione.NewHandler(conn, log)
	spesaHandler := spesa.NewHandler(conn, log)
	ricaviHandler := ricavi.NewHandler(conn, log)
	notificaHandler := notifica.NewHandler(conn, rdb, log)
	presenzaHandler := presenza.NewHandler(conn, rdb, cfg.GeoURL, log)
	chatHandler := chat.NewHandler(cfg.ChatAPIKey, cfg.ChatModel, log)
	webhookHandler := webhook.NewHandler(conn, log)

	// Un lead in ingresso avvisa gli utenti del cliente.
	webhookHandler.Notifica = func(clienteID uint, l *lead.Lead) {
		var destinatari []utente.Utente
		if err := conn.Where("cliente_id = ? OR is_admin = ?", clienteID, true).Find(&destinatari).Error; err != nil {
			log.Warn("lettura destinatari notifica fallita", zap.Error(err))
			return
		}
		for _, u := range destinatari {
			n := notifica.Notifica{
				UtenteID:  u.ID,
				Titolo:    "Nuovo lead",
				Messaggio: "È arrivato un nuovo lead per il servizio " + l.Servizio,
			}
			if err := notificaHandler.Pubblica(&n); err != nil {
				log.Warn("notifica nuovo lead fallita", zap.Uint("utenteId", u.ID), zap.Error(err))
			}
		}
	}

	r := mux.NewRouter()

	// Rotte pubbliche
	r.HandleFunc("/login", utenteHandler.Login).Methods("POST")
	r.HandleFunc("/webhook/lead/{clienteID}", webhookHandler.Ricevi).Methods("GET", "POST")

	// Rotte autenticate
	api := r.NewRoute().Subrouter()
	api.Use(auth.MiddlewareAutenticazione)

	// Utenti
	api.Handle("/utenti", auth.RequireAdmin(http.HandlerFunc(utenteHandler.Crea))).Methods("POST")
	api.HandleFunc("/utenti", utenteHandler.Lista).Methods("GET")
	api.HandleFunc("/utenti/me", utenteHandler.Me).Methods("GET")
	api.HandleFunc("/utenti/{id}", utenteHandler.Aggiorna).Methods("PUT")
	api.Handle("/utenti/{id}", auth.RequireAdmin(http.HandlerFunc(utenteHandler.Elimina))).Methods("DELETE")

	// Clienti
	api.Handle("/clienti", auth.RequireAdmin(http.HandlerFunc(clienteHandler.Crea))).Methods("POST")
	api.HandleFunc("/clienti", clienteHandler.Lista).Methods("GET")
	api.HandleFunc("/clienti/{id}", clienteHandler.TrovaPerID).Methods("GET")
	api.Handle("/clienti/{id}", auth.RequireAdmin(http.HandlerFunc(clienteHandler.Aggiorna))).Methods("PUT")
	api.Handle("/clienti/{id}", auth.RequireAdmin(http.HandlerFunc(clienteHandler.Elimina))).Methods("DELETE")
	api.Handle("/clienti/{id}/servizi", auth.RequireAdmin(http.HandlerFunc(clienteHandler.AggiungiServizio))).Methods("POST")
	api.Handle("/clienti/{id}/servizi/{sid}", auth.RequireAdmin(http.HandlerFunc(clienteHandler.RimuoviServizio))).Methods("DELETE")
	api.HandleFunc("/clienti/{id}/riepilogo", clienteHandler.Riepilogo).Methods("GET")

	// Lead
	api.HandleFunc("/leads", leadHandler.Crea).Methods("POST")
	api.HandleFunc("/leads", leadHandler.Lista).Methods("GET")
	api.HandleFunc("/leads/{id}", leadHandler.TrovaPerID).Methods("GET")
	api.HandleFunc("/leads/{id}", leadHandler.Aggiorna).Methods("PUT")
	api.HandleFunc("/leads/{id}", leadHandler.Elimina).Methods("DELETE")
	api.HandleFunc("/leads/{id}/stato", riconciliazioneHandler.TransizioneStato).Methods("PATCH")

	// Preventivi
	api.HandleFunc("/preventivi", preventivoHandler.Crea).Methods("POST")
	api.HandleFunc("/preventivi/{id}", preventivoHandler.Trova).Methods("GET")
	api.HandleFunc("/preventivi/{id}", preventivoHandler.Aggiorna).Methods("PUT")
	api.HandleFunc("/preventivi/{id}", preventivoHandler.Elimina).Methods("DELETE")
	api.HandleFunc("/preventivi/{id}/stato", preventivoHandler.AggiornaStato).Methods("PATCH")
	api.HandleFunc("/leads/{id}/preventivi", preventivoHandler.ListaPerLead).Methods("GET")

	// Appuntamenti
	api.HandleFunc("/appuntamenti", appuntamentoHandler.Crea).Methods("POST")
	api.HandleFunc("/appuntamenti", appuntamentoHandler.Lista).Methods("GET")
	api.HandleFunc("/appuntamenti/{id}", appuntamentoHandler.TrovaPerID).Methods("GET")
	api.HandleFunc("/appuntamenti/{id}", appuntamentoHandler.Aggiorna).Methods("PUT")
	api.HandleFunc("/appuntamenti/{id}", appuntamentoHandler.Elimina).Methods("DELETE")
	api.HandleFunc("/appuntamenti/{id}/preventivo-vincente", riconciliazioneHandler.SelezionaVincente).Methods("PUT")
	api.HandleFunc("/appuntamenti/{id}/preventivo-vincente", riconciliazioneHandler.RimuoviVincente).Methods("DELETE")

	// Spese pubblicitarie
	api.Handle("/spese", auth.RequireAdmin(http.HandlerFunc(spesaHandler.Crea))).Methods("POST")
	api.Handle("/spese/{id}", auth.RequireAdmin(http.HandlerFunc(spesaHandler.Aggiorna))).Methods("PUT")
	api.Handle("/spese/{id}", auth.RequireAdmin(http.HandlerFunc(spesaHandler.Elimina))).Methods("DELETE")
	api.HandleFunc("/clienti/{id}/spese", spesaHandler.ListaPerCliente).Methods("GET")

	// Ricavi
	api.HandleFunc("/clienti/{id}/ricavi", ricaviHandler.Lista).Methods("GET")
	api.Handle("/clienti/{id}/ricavi", auth.RequireAdmin(http.HandlerFunc(ricaviHandler.Salva))).Methods("POST")
	api.HandleFunc("/clienti/{id}/ricavi/calcolo", ricaviHandler.Calcolo).Methods("GET")
	api.Handle("/ricavi/{id}", auth.RequireAdmin(http.HandlerFunc(ricaviHandler.Elimina))).Methods("DELETE")

	// Notifiche
	api.Handle("/notifiche", auth.RequireAdmin(http.HandlerFunc(notificaHandler.Crea))).Methods("POST")
	api.HandleFunc("/notifiche", notificaHandler.Lista).Methods("GET")
	api.HandleFunc("/notifiche/stream", notificaHandler.Stream).Methods("GET")
	api.HandleFunc("/notifiche/lette", notificaHandler.SegnaTutteLette).Methods("PATCH")
	api.HandleFunc("/notifiche/{id}/letta", notificaHandler.SegnaLetta).Methods("PATCH")
	api.HandleFunc("/notifiche/{id}", notificaHandler.Elimina).Methods("DELETE")

	// Presenza
	api.HandleFunc("/presenza/heartbeat", presenzaHandler.Heartbeat).Methods("POST")
	api.Handle("/presenza", auth.RequireAdmin(http.HandlerFunc(presenzaHandler.Lista))).Methods("GET")
	api.Handle("/presenza/stream", auth.RequireAdmin(http.HandlerFunc(presenzaHandler.Stream))).Methods("GET")

	// Chat
	api.HandleFunc("/chat", chatHandler.Completa).Methods("POST")

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	log.Info("server in ascolto", zap.String("porta", cfg.Porta))
	if err := http.ListenAndServe(":"+cfg.Porta, c.Handler(r)); err != nil {
		log.Fatal("server terminato", zap.Error(err))
	}
}
