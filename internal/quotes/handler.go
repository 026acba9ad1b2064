package quotes

import (
	"encoding/json"
	"net/http"

	"github.com/revolveme/backend/internal/middleware"
	"github.com/revolveme/backend/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	manager *Manager
}

func NewHandler(manager *Manager) *Handler {
	return &Handler{
		manager: manager,
	}
}

func (h *Handler) SetupRoutes(
	router *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	allowedPerMin int,
) {
	quoteRouter := router.PathPrefix("/quote").Subrouter()
	quoteRouter.HandleFunc("/random", h.HandleRandomQuote).Methods("GET", "OPTIONS").Name("quote")
	quoteRouter.Use(middleware.RateLimit(rateLimiter, "quote", allowedPerMin))
}

func (h *Handler) HandleRandomQuote(w http.ResponseWriter, r *http.Request) {
	quote := h.manager.Motivational(r.Context())

	quoteJson, err := json.Marshal(quote)
	if err != nil {
		log.Errorf("marshal quote: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, quoteJson)
}
