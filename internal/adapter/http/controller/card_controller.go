package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/atlasbank/core-banking/internal/adapter/http/models"
	"github.com/atlasbank/core-banking/internal/commons"
	"github.com/atlasbank/core-banking/internal/logger"
)

type CardService interface {
	CreateRequest(ctx context.Context, req models.CreateCardRequestRequest) (commons.Response[models.CardRequestResponse], error)
	Resolve(ctx context.Context, requestID string, req models.ResolveRequestRequest) (commons.Response[models.CardRequestResponse], error)
	ListProducts(ctx context.Context) (commons.Response[[]models.CardProductResponse], error)
	ListRequestsByClient(ctx context.Context, accountNumber string) (commons.Response[[]models.CardRequestResponse], error)
	ListPendingRequests(ctx context.Context) (commons.Response[[]models.CardRequestResponse], error)
}

type CardController struct {
	service CardService
}

func NewCardController(service CardService) *CardController {
	return &CardController{service: service}
}

func (c *CardController) RegisterRoutes(router *mux.Router, authMiddleware mux.MiddlewareFunc) {
	protected := router.NewRoute().Subrouter()
	if authMiddleware != nil {
		protected.Use(authMiddleware)
	}

	protected.HandleFunc("/card-products", c.listProducts).Methods(http.MethodGet)
	protected.HandleFunc("/card-requests", c.create).Methods(http.MethodPost)
	protected.HandleFunc("/card-requests/pending", c.listPending).Methods(http.MethodGet)
	protected.HandleFunc("/card-requests/{requestId}/resolution", c.resolve).Methods(http.MethodPatch)
	protected.HandleFunc("/accounts/{accountNumber}/card-requests", c.listByClient).Methods(http.MethodGet)
}

func (c *CardController) create(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	var req models.CreateCardRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.CardRequestResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.service.CreateRequest(r.Context(), req)
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message})
		status := statusForMessage(response.Message)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusCreated, response)
	logResponse(r, http.StatusCreated, response, start)
}

func (c *CardController) resolve(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	requestID := mux.Vars(r)["requestId"]

	var req models.ResolveRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.CardRequestResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.service.Resolve(r.Context(), requestID, req)
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message, "requestId": requestID})
		status := statusForMessage(response.Message)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *CardController) listProducts(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.ListProducts(r.Context())
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message})
		status := statusForMessage(response.Message)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *CardController) listPending(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.ListPendingRequests(r.Context())
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message})
		status := statusForMessage(response.Message)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *CardController) listByClient(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	accountNumber := mux.Vars(r)["accountNumber"]

	response, err := c.service.ListRequestsByClient(r.Context(), accountNumber)
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message})
		status := statusForMessage(response.Message)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}
