package transport

import (
	"net"
	"net/http"
	"net/url"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true // Non-browser clients don't send Origin
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return u.Host == r.Host
	},
}

func extractIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Routes configures the websocket and health endpoints.
func Routes(hub *Hub, auth *TokenAuth) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		ip := extractIP(r)
		if !hub.TryAcquire(ip) {
			http.Error(w, "too many connections", http.StatusServiceUnavailable)
			return
		}

		id, err := auth.Identify(r)
		if err != nil {
			hub.Release(ip)
			hub.logger.Warn("rejected token", "addr", ip, "error", err)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			hub.Release(ip)
			hub.logger.Warn("upgrade error", "error", err)
			return
		}

		client := NewClient(hub, conn, id, ip)
		hub.Register(client)

		go client.WritePump()
		go client.ReadPump()
	})

	return mux
}
