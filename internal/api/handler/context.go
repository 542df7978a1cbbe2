package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bibliotech/circulation-api/internal/core/domain"
	"github.com/bibliotech/circulation-api/internal/core/ports"
)

// ctxSession extracts the session injected by the Auth middleware. Its
// presence proves the middleware ran; handlers behind the auth chain treat a
// missing session as an unauthenticated request, not a server bug.
func ctxSession(c echo.Context) (*domain.Session, error) {
	session, _ := c.Get("session").(*domain.Session)
	if session == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing session")
	}
	return session, nil
}

// flash records a one-shot notification for the calling session. Flashes are
// advisory; a storage failure never fails the request that produced it.
func flash(c echo.Context, store ports.FlashStore, kind, message string) {
	session, _ := c.Get("session").(*domain.Session)
	if session == nil || store == nil {
		return
	}
	_ = store.Set(c.Request().Context(), session.ID, ports.Flash{Kind: kind, Message: message})
}

func flashSuccess(c echo.Context, store ports.FlashStore, message string) {
	flash(c, store, "success", message)
}
