package chatbot

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ApptChat/AC-Backend/internal/auth"
	"github.com/ApptChat/AC-Backend/internal/chatbot/nlp"
	"github.com/ApptChat/AC-Backend/internal/utils"
)

// Handler owns the session-token and message-proxy endpoints.
type Handler struct {
	DB         *gorm.DB
	NLP        *nlp.Client
	Secret     string
	ChatTTL    time.Duration
	SessionTTL time.Duration
}

func NewHandler(db *gorm.DB, client *nlp.Client, secret string, chatTTL, sessionTTL time.Duration) *Handler {
	return &Handler{DB: db, NLP: client, Secret: secret, ChatTTL: chatTTL, SessionTTL: sessionTTL}
}

// TokenHandler mints the two artifacts a chat client needs: a short-lived
// access token for collaborator-facing calls and a session token that keys
// the session row. The row is created with an empty transcript; if the same
// token was already persisted (two requests inside the same signing second),
// only updated_at is refreshed.
func (h *Handler) TokenHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	chatToken, err := auth.MakeChatToken(userID, h.Secret, h.ChatTTL)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to generate chat token: "+err.Error())
		return
	}
	sessionToken, err := auth.MakeSessionToken(userID, h.Secret, h.SessionTTL)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to generate session token: "+err.Error())
		return
	}

	session := ChatSession{
		SessionToken: sessionToken,
		UserID:       userID,
		Transcript:   datatypes.JSONSlice[Exchange]{},
		ExpiresAt:    time.Now().Add(h.SessionTTL),
	}
	err = h.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_token"}},
		DoUpdates: clause.Assignments(map[string]any{"updated_at": time.Now()}),
	}).Create(&session).Error
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to create session: "+err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"chatToken":    chatToken,
		"sessionToken": sessionToken,
	})
}

// MessageHandler validates the session, forwards the message to the NLP
// collaborator, appends both sides of the exchange to the transcript, and
// passes the collaborator's payload back unchanged.
func (h *Handler) MessageHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		Message      string `json:"message"`
		SessionToken string `json:"sessionToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request format")
		return
	}
	if req.Message == "" || req.SessionToken == "" {
		utils.RespondError(w, http.StatusBadRequest, "Message and session token are required")
		return
	}

	// Unknown and expired tokens are indistinguishable to the caller.
	var session ChatSession
	err := h.DB.First(&session, "session_token = ? AND expires_at > ?", req.SessionToken, time.Now()).Error
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid or expired session")
		return
	}

	reply, raw, err := h.NLP.Send(r.Context(), nlp.Request{
		Message:      req.Message,
		UserID:       userID,
		SessionToken: req.SessionToken,
	})
	if err != nil {
		log.Printf("nlp send: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "Failed to process message")
		return
	}

	if err := h.appendExchanges(req.SessionToken, req.Message, reply.Response); err != nil {
		log.Printf("transcript append: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "Failed to update session")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(raw)
}

// appendExchanges adds the user message and the assistant reply to the
// session's transcript as a single jsonb concatenation, so two concurrent
// sends on one session interleave instead of overwriting each other.
func (h *Handler) appendExchanges(sessionToken, message, reply string) error {
	now := time.Now()
	entries, err := json.Marshal([]Exchange{
		{Role: RoleUser, Content: message, Timestamp: now},
		{Role: RoleAssistant, Content: reply, Timestamp: now},
	})
	if err != nil {
		return err
	}

	return h.DB.Model(&ChatSession{}).
		Where("session_token = ?", sessionToken).
		Update("transcript", gorm.Expr("transcript || ?::jsonb", string(entries))).Error
}
