package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"skyfare/internal/inventory/service"
	apperrors "skyfare/pkg/errors"
	httputil "skyfare/pkg/http"
	"skyfare/pkg/logger"
	"skyfare/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type InventoryHandler struct {
	service service.InventoryService
	log     *logger.Logger
}

func NewInventoryHandler(service service.InventoryService, log *logger.Logger) *InventoryHandler {
	return &InventoryHandler{
		service: service,
		log:     log,
	}
}

func (h *InventoryHandler) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()
	departure := query.Get("departure")
	arrival := query.Get("arrival")
	departStr := query.Get("depart")

	if departure == "" || arrival == "" || departStr == "" {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "The 'departure', 'arrival' and 'depart' query parameters are required",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Search", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	departMillis, err := strconv.ParseInt(departStr, 10, 64)
	if err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput(fmt.Sprintf("invalid depart parameter: %s", departStr))); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Search", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	flights, err := h.service.Search(r.Context(), departure, arrival, departMillis)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Search", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, flights); err != nil {
		h.log.Error("failed to write success response", "handler", "Search", "operation", "WriteSuccess", "error", err)
	}
}

func (h *InventoryHandler) Reserve(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.ReserveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Reserve", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	summary, err := h.service.Reserve(r.Context(), &req)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Reserve", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, summary); err != nil {
		h.log.Error("failed to write created response", "handler", "Reserve", "operation", "WriteCreated", "error", err)
	}
}

func (h *InventoryHandler) CreateBooking(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "CreateBooking", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	detail, err := h.service.CreateBooking(r.Context(), &req)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "CreateBooking", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, detail); err != nil {
		h.log.Error("failed to write created response", "handler", "CreateBooking", "operation", "WriteCreated", "error", err)
	}
}

func (h *InventoryHandler) GetBookingByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	detail, err := h.service.GetBookingByID(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetBookingByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, detail); err != nil {
		h.log.Error("failed to write success response", "handler", "GetBookingByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *InventoryHandler) GetBookingByPNR(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	detail, err := h.service.GetBookingByPNR(r.Context(), ps.ByName("pnr"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetBookingByPNR", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, detail); err != nil {
		h.log.Error("failed to write success response", "handler", "GetBookingByPNR", "operation", "WriteSuccess", "error", err)
	}
}

func (h *InventoryHandler) CancelBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.CancelBooking(r.Context(), ps.ByName("pnr")); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "CancelBooking", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *InventoryHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/flights/search", h.Search)
	router.POST("/api/v1/reservations", h.Reserve)
	router.POST("/api/v1/bookings", h.CreateBooking)
	router.GET("/api/v1/bookings/id/:id", h.GetBookingByID)
	router.GET("/api/v1/bookings/pnr/:pnr", h.GetBookingByPNR)
	router.DELETE("/api/v1/bookings/pnr/:pnr", h.CancelBooking)
}
