package handler

import (
	"net/http"

	"github.com/reviewhub/xmpp-relay/internal/config"
)

// SettingsHandler exposes the current notification settings for operators.
// An invalid store answers 422 with the offending rule, mirroring the
// configuration-save validation the host's admin form performs.
type SettingsHandler struct {
	settings config.Source
}

func NewSettingsHandler(settings config.Source) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// settingsView is the sanitized representation; the sender password never
// leaves the process.
type settingsView struct {
	SendReviewNotify      bool     `json:"send_review_notify"`
	SendReviewCloseNotify bool     `json:"send_review_close_notify"`
	SendNewUserNotify     bool     `json:"send_new_user_notify"`
	Host                  string   `json:"host"`
	Port                  int      `json:"port"`
	TimeoutSeconds        int      `json:"timeout_seconds"`
	Sender                string   `json:"sender"`
	UseTLS                bool     `json:"use_tls"`
	TLSVerifyPeer         bool     `json:"tls_verify_peer"`
	Partychat             []string `json:"partychat,omitempty"`
	PartychatOnly         bool     `json:"partychat_only"`
}

// Get handles GET /api/v1/settings
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.settings.Snapshot()
	if err != nil {
		mapError(w, err)
		return
	}

	view := settingsView{
		SendReviewNotify:      s.SendReviewNotify,
		SendReviewCloseNotify: s.SendReviewCloseNotify,
		SendNewUserNotify:     s.SendNewUserNotify,
		Host:                  s.Connection.Host,
		Port:                  s.Connection.Port,
		TimeoutSeconds:        int(s.Connection.Timeout.Seconds()),
		Sender:                s.Connection.Sender.String(),
		UseTLS:                s.Connection.UseTLS,
		TLSVerifyPeer:         s.Connection.TLSVerifyPeer,
		PartychatOnly:         s.Connection.PartychatOnly,
	}
	for _, room := range s.Connection.Rooms {
		view.Partychat = append(view.Partychat, room.String())
	}

	respondJSON(w, http.StatusOK, view)
}
