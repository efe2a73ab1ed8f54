package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	qrcode "github.com/skip2/go-qrcode"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true // Non-browser agents don't send Origin
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

// SetupRoutes configures the WebSocket endpoint and the unauthenticated
// read API
func SetupRoutes(hub *Hub, registry *Registry, replays *ReplayDB, publicURL string) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/ws", func(w http.ResponseWriter, req *http.Request) {
		serveWS(hub, w, req)
	})

	api := r.PathPrefix("/api").Subrouter()

	// Match list for agents (find a joinable slot) and spectators
	api.HandleFunc("/matches", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"matches": registry.ListMatches(),
		})
	}).Methods(http.MethodGet)

	// Point-in-time snapshot for spectators polling without a connection
	api.HandleFunc("/matches/{matchId}/state", func(w http.ResponseWriter, req *http.Request) {
		matchID := mux.Vars(req)["matchId"]
		m := registry.GetMatch(matchID)
		if m == nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "match not found"})
			return
		}
		writeJSON(w, http.StatusOK, m.Snapshot())
	}).Methods(http.MethodGet)

	// Replay summary for a finished match
	api.HandleFunc("/matches/{matchId}/replay", func(w http.ResponseWriter, req *http.Request) {
		matchID := mux.Vars(req)["matchId"]
		replay, err := replays.GetByMatchID(matchID)
		if err != nil {
			log.Printf("replay lookup %s: %v", matchID, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get replay"})
			return
		}
		if replay == nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "replay not found"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"replayId":   replay.ID,
			"finalScore": replay.FinalScore,
			"players":    replay.Players,
		})
	}).Methods(http.MethodGet)

	// Join link as a QR code PNG for the mobile flow
	api.HandleFunc("/matches/{matchId}/qr", func(w http.ResponseWriter, req *http.Request) {
		matchID := mux.Vars(req)["matchId"]
		if registry.GetMatch(matchID) == nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "match not found"})
			return
		}
		joinURL := fmt.Sprintf("%s/ws?matchId=%s", publicURL, url.QueryEscape(matchID))
		png, err := qrcode.Encode(joinURL, qrcode.Medium, 256)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to encode QR"})
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(png)
	}).Methods(http.MethodGet)

	// Recent replays, most recent first
	api.HandleFunc("/replays", func(w http.ResponseWriter, req *http.Request) {
		recent, err := replays.Recent(10)
		if err != nil {
			log.Printf("list replays: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list replays"})
			return
		}
		if recent == nil {
			recent = []Replay{}
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"replays": recent})
	}).Methods(http.MethodGet)

	return r
}

// serveWS terminates one agent connection: resolves identity, upgrades,
// auto-joins a match, and starts the pumps
func serveWS(hub *Hub, w http.ResponseWriter, r *http.Request) {
	ip := extractIP(r)
	if !hub.CanAccept(ip) {
		http.Error(w, "too many connections", http.StatusServiceUnavailable)
		return
	}

	q := r.URL.Query()
	agentID := q.Get("agentId")
	displayName := q.Get("displayName")

	// An externally issued identity token wins over self-chosen params
	if token := q.Get("token"); token != "" && hub.auth != nil {
		sub, name, err := hub.auth.VerifyAgentToken(token)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		agentID = sub
		if name != "" {
			displayName = name
		}
	}
	if agentID == "" {
		agentID = "agent_" + GenerateID(6)
	}
	if displayName == "" {
		displayName = agentID
	}
	if len(displayName) > maxNameLen {
		displayName = displayName[:maxNameLen]
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("upgrade error: %v", err)
		return
	}

	hub.TrackConnect(ip)

	client := NewClient(hub, conn, ip)
	client.playerID = agentID
	client.displayName = displayName
	hub.register <- client

	go client.WritePump()
	client.AutoJoin(q.Get("matchId"))
	go client.ReadPump()
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}
