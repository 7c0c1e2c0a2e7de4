package chat

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Handler inoltra le richieste di chat al provider e rigira i token
// al client come flusso SSE.
type Handler struct {
	Client  *openai.Client
	Modello string
	Log     *zap.Logger
}

// NewHandler crea l'handler; con apiKey vuota il servizio risponde 503.
func NewHandler(apiKey, modello string, log *zap.Logger) *Handler {
	h := &Handler{Modello: modello, Log: log}
	if apiKey != "" {
		h.Client = openai.NewClient(apiKey)
	}
	return h
}

type messaggioChat struct {
	Ruolo     string `json:"ruolo"`
	Contenuto string `json:"contenuto"`
}

type richiestaChat struct {
	Messaggi []messaggioChat `json:"messaggi"`
}

func ruoloProvider(ruolo string) string {
	switch ruolo {
	case "assistente":
		return openai.ChatMessageRoleAssistant
	case "sistema":
		return openai.ChatMessageRoleSystem
	default:
		return openai.ChatMessageRoleUser
	}
}

// POST /chat — corpo {messaggi: [{ruolo, contenuto}...]}, risposta SSE.
// Un errore del provider diventa un evento "error" sul flusso, non
// tocca le altre rotte.
func (h *Handler) Completa(w http.ResponseWriter, r *http.Request) {
	if h.Client == nil {
		http.Error(w, "servizio chat non configurato", http.StatusServiceUnavailable)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming non supportato", http.StatusInternalServerError)
		return
	}

	var req richiestaChat
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Messaggi) == 0 {
		http.Error(w, "JSON non valido: servono uno o più messaggi", http.StatusBadRequest)
		return
	}

	messaggi := make([]openai.ChatCompletionMessage, 0, len(req.Messaggi))
	for _, m := range req.Messaggi {
		messaggi = append(messaggi, openai.ChatCompletionMessage{
			Role:    ruoloProvider(m.Ruolo),
			Content: m.Contenuto,
		})
	}

	stream, err := h.Client.CreateChatCompletionStream(r.Context(), openai.ChatCompletionRequest{
		Model:    h.Modello,
		Messages: messaggi,
		Stream:   true,
	})
	if err != nil {
		h.Log.Error("apertura stream chat fallita", zap.Error(err))
		http.Error(w, "errore del provider chat", http.StatusBadGateway)
		return
	}
	defer stream.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	flusher.Flush()

	for {
		risposta, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			_, _ = w.Write([]byte("event: done\ndata: [DONE]\n\n"))
			flusher.Flush()
			return
		}
		if err != nil {
			h.Log.Warn("stream chat interrotto", zap.Error(err))
			_, _ = w.Write([]byte("event: error\ndata: stream interrotto\n\n"))
			flusher.Flush()
			return
		}
		if len(risposta.Choices) == 0 {
			continue
		}
		frammento, err := json.Marshal(map[string]string{"contenuto": risposta.Choices[0].Delta.Content})
		if err != nil {
			continue
		}
		_, _ = w.Write([]byte("data: "))
		_, _ = w.Write(frammento)
		_, _ = w.Write([]byte("\n\n"))
		flusher.Flush()
	}
}
