package server

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Aladin-0/RM-Backend/internal/app"
	apperrors "github.com/Aladin-0/RM-Backend/internal/errors"
)

func (s *Server) handleMenu(c echo.Context) error {
	entries, err := s.app.Menu(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return err
	}
	if err := c.JSON(http.StatusOK, entries); err != nil {
		return fmt.Errorf("failed to write menu response: %w", err)
	}
	return nil
}

func (s *Server) handleCreateOrder(c echo.Context) error {
	var req app.OrderRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	confirmation, err := s.app.CreateOrder(c.Request().Context(), c.Param("slug"), req)
	if err != nil {
		return err
	}
	if err := c.JSON(http.StatusCreated, confirmation); err != nil {
		return fmt.Errorf("failed to write order response: %w", err)
	}
	return nil
}

func (s *Server) handleCreateFrontendOrder(c echo.Context) error {
	var req app.FrontendOrderRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	confirmation, err := s.app.CreateFrontendOrder(c.Request().Context(), c.Param("slug"), req)
	if err != nil {
		return err
	}

	// The ordering frontend's contract: the bill ID doubles as the queue
	// number shown to the customer.
	response := map[string]any{
		"order_id":     confirmation.BillID,
		"queue_number": confirmation.BillID,
	}
	if err := c.JSON(http.StatusCreated, response); err != nil {
		return fmt.Errorf("failed to write order response: %w", err)
	}
	return nil
}

func (s *Server) handleCreateCaptainOrder(c echo.Context) error {
	var req app.OrderRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	confirmation, err := s.app.CreateCaptainOrder(c.Request().Context(), identityFrom(c), req)
	if err != nil {
		return err
	}
	if err := c.JSON(http.StatusCreated, confirmation); err != nil {
		return fmt.Errorf("failed to write order response: %w", err)
	}
	return nil
}

func (s *Server) handleAddItems(c echo.Context) error {
	billID, err := uuid.Parse(c.Param("bill_id"))
	if err != nil {
		return apperrors.ValidationError("invalid bill ID").WithField("bill_id", c.Param("bill_id"))
	}

	var req struct {
		Items []app.OrderItemRequest `json:"order_items"`
	}
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	if _, err := s.app.AddItems(c.Request().Context(), identityFrom(c), billID, req.Items); err != nil {
		return err
	}
	if err := c.JSON(http.StatusOK, map[string]string{"message": "Items added successfully."}); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}
	return nil
}
