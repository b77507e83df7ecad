package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/neurocarehub/webfront/notify"
)

// ToastStreamHandler streams notifications to the page shell over SSE.
// Mounting this stream makes the page the notification center's active
// subscriber; a newer stream (another tab's shell, a reconnect) silently
// takes over.
func (s *Server) ToastStreamHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		flusher.Flush()

		toasts := make(chan notify.Toast, 8)
		unsubscribe := s.toasts.Subscribe(func(toast notify.Toast) {
			select {
			case toasts <- toast:
			default: // a stalled stream must not block publishers
			}
		})
		defer unsubscribe()

		for {
			select {
			case toast := <-toasts:
				payload, err := json.Marshal(toast)
				if err != nil {
					log.Err(err).Msg("failed to encode toast")
					continue
				}
				fmt.Fprintf(w, "data: %s\n\n", payload)
				flusher.Flush()
			case <-r.Context().Done():
				return
			}
		}
	}
}
