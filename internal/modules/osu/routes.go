package osu

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the OAuth callback.
func (m *OsuModule) RegisterRoutes(r gin.IRouter) {
	r.GET("/auth/osu/callback", m.handleCallback)
}

func (m *OsuModule) handleCallback(c *gin.Context) {
	linker := m.linker.Load()
	if linker == nil {
		c.String(http.StatusServiceUnavailable, "osu! account linking is not available.")
		return
	}

	state, code := c.Query("state"), c.Query("code")
	if state == "" || code == "" {
		c.String(http.StatusBadRequest, "Missing code or state.")
		return
	}

	user, err := linker.Complete(c.Request.Context(), state, code)
	if errors.Is(err, ErrInvalidState) {
		c.String(http.StatusBadRequest, "This link has expired. Run /osu connect and try again.")
		return
	}
	if err != nil {
		slog.Error("failed to link osu! account", "error", err)
		if m.reporter != nil {
			m.reporter.CaptureException(err)
		}
		c.String(http.StatusBadGateway, "Something failed when communicating with the osu! API.")
		return
	}

	slog.Info("linked osu! account", "player_id", user.ID, "username", user.Username)
	if m.config != nil && m.config.SuccessURL != "" {
		c.Redirect(http.StatusFound, m.config.SuccessURL)
		return
	}
	c.String(http.StatusOK, "Connected osu! account %s. You can close this window.", user.Username)
}
