package handler

import (
	"net/http"

	"skyfare/internal/directory/service"
	httputil "skyfare/pkg/http"
	"skyfare/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type DirectoryHandler struct {
	service service.DirectoryService
	log     *logger.Logger
}

func NewDirectoryHandler(service service.DirectoryService, log *logger.Logger) *DirectoryHandler {
	return &DirectoryHandler{
		service: service,
		log:     log,
	}
}

func (h *DirectoryHandler) GetCarrier(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	carrier, err := h.service.GetCarrier(r.Context(), ps.ByName("iata"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetCarrier", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, carrier); err != nil {
		h.log.Error("failed to write success response", "handler", "GetCarrier", "error", err)
	}
}

func (h *DirectoryHandler) GetAirport(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	airport, err := h.service.GetAirport(r.Context(), ps.ByName("iata"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAirport", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, airport); err != nil {
		h.log.Error("failed to write success response", "handler", "GetAirport", "error", err)
	}
}

func (h *DirectoryHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/carriers/:iata", h.GetCarrier)
	router.GET("/api/v1/airports/:iata", h.GetAirport)
}
