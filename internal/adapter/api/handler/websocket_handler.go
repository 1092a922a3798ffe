package handler

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	ws "phonemart/internal/infrastructure/websocket"
	"phonemart/internal/usecase"
	"phonemart/pkg/logger"
)

type FavoritesFeedHandler struct {
	favoritesUseCase *usecase.FavoritesUseCase
	upgrader         websocket.Upgrader
}

func NewFavoritesFeedHandler(favoritesUseCase *usecase.FavoritesUseCase) *FavoritesFeedHandler {
	return &FavoritesFeedHandler{
		favoritesUseCase: favoritesUseCase,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Serve upgrades the connection and subscribes it to favorites
// notifications until the peer disconnects.
func (h *FavoritesFeedHandler) Serve(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Warn("Favorites feed upgrade failed: %v", err)
		return err
	}

	// An anonymous connection subscribes under the empty uid and only
	// ever sees the empty anonymous view.
	uid, _ := c.Get("uid").(string)

	client := ws.NewFeedClient(conn)
	h.favoritesUseCase.Subscribe(uid, client)
	go client.WritePump()

	// Push the current view so a fresh connection is not empty until the
	// next change.
	if err := h.favoritesUseCase.Refresh(c.Request().Context()); err != nil {
		logger.Debug("Initial favorites refresh for feed failed: %v", err)
	}

	client.ReadPump()

	h.favoritesUseCase.Unsubscribe(uid, client)
	client.Close()
	return nil
}
