package server

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/Aladin-0/RM-Backend/internal/domain"
	apperrors "github.com/Aladin-0/RM-Backend/internal/errors"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Kitchen panels and customer pages are served from other origins
	},
}

// handleChefSocket subscribes the connection to a restaurant's kitchen feed.
func (s *Server) handleChefSocket(c echo.Context) error {
	restaurant, err := s.app.RestaurantBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return err
	}
	return s.serveSocket(c, domain.KitchenTopicFor(restaurant.Slug))
}

// handleCustomerSocket subscribes the connection to one bill's status feed.
func (s *Server) handleCustomerSocket(c echo.Context) error {
	billID, err := uuid.Parse(c.Param("bill_id"))
	if err != nil {
		return apperrors.ValidationError("invalid bill ID").WithField("bill_id", c.Param("bill_id"))
	}

	bill, err := s.app.Bill(c.Request().Context(), billID)
	if err != nil {
		return err
	}
	return s.serveSocket(c, domain.CustomerTopicFor(bill.ID))
}

func (s *Server) serveSocket(c echo.Context, topic domain.Topic) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return fmt.Errorf("failed to upgrade WebSocket: %w", err)
	}

	sub, err := s.registry.Subscribe(topic, conn)
	if err != nil {
		_ = conn.Close()
		return nil
	}

	// Read pump: inbound frames are discarded, but reading is what notices
	// the peer going away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	s.registry.Unsubscribe(sub)
	return nil
}
