package server

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Aladin-0/RM-Backend/internal/domain"
	apperrors "github.com/Aladin-0/RM-Backend/internal/errors"
)

func (s *Server) handleKitchenOrders(c echo.Context) error {
	orders, err := s.app.ActiveKitchenOrders(c.Request().Context(), identityFrom(c))
	if err != nil {
		return err
	}
	if orders == nil {
		orders = []domain.KitchenOrder{}
	}
	if err := c.JSON(http.StatusOK, orders); err != nil {
		return fmt.Errorf("failed to write kitchen orders response: %w", err)
	}
	return nil
}

func (s *Server) handleUpdateItemStatus(c echo.Context) error {
	itemID, err := uuid.Parse(c.Param("item_id"))
	if err != nil {
		return apperrors.ValidationError("invalid order item ID").WithField("item_id", c.Param("item_id"))
	}

	// Older kitchen clients send "status", newer ones "new_status".
	var req struct {
		Status    string `json:"status"`
		NewStatus string `json:"new_status"`
	}
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	status := req.NewStatus
	if status == "" {
		status = req.Status
	}

	message, err := s.app.UpdateItemStatus(c.Request().Context(), identityFrom(c), itemID, status)
	if err != nil {
		return err
	}
	if err := c.JSON(http.StatusOK, map[string]string{"message": message}); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}
	return nil
}
