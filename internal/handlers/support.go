package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"xtradata/internal/auth"
	"xtradata/internal/chatbot"
	"xtradata/internal/websocket"
)

type supportChatRequest struct {
	Message string `json:"message"`
}

func (h *Handler) SupportChat(w http.ResponseWriter, r *http.Request) {
	var req supportChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		respondError(w, http.StatusBadRequest, "message is required")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"response": chatbot.Respond(req.Message),
	})
}

// WSWallet upgrades to a websocket that receives wallet balance pushes.
// The token rides the query string because browsers cannot set headers on
// websocket handshakes.
func (h *Handler) WSWallet(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		authHeader := r.Header.Get("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			token = strings.TrimPrefix(authHeader, "Bearer ")
		}
	}
	if token == "" {
		respondError(w, http.StatusUnauthorized, "missing token")
		return
	}
	claims, err := auth.ParseToken(h.cfg.JWTSecret, token)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "invalid token")
		return
	}
	websocket.ServeWS(w, r, h.hub, claims.UserID)
}
