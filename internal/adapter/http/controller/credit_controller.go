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

type CreditService interface {
	CreateRequest(ctx context.Context, req models.CreateCreditRequestRequest) (commons.Response[models.CreditRequestResponse], error)
	Resolve(ctx context.Context, requestID string, req models.ResolveRequestRequest) (commons.Response[models.CreditRequestResponse], error)
	ListPending(ctx context.Context) (commons.Response[[]models.CreditRequestResponse], error)
	ListByClient(ctx context.Context, accountNumber string) (commons.Response[[]models.CreditRequestResponse], error)
}

type CreditController struct {
	service CreditService
}

func NewCreditController(service CreditService) *CreditController {
	return &CreditController{service: service}
}

func (c *CreditController) RegisterRoutes(router *mux.Router, authMiddleware mux.MiddlewareFunc) {
	protected := router.NewRoute().Subrouter()
	if authMiddleware != nil {
		protected.Use(authMiddleware)
	}

	protected.HandleFunc("/credit-requests", c.create).Methods(http.MethodPost)
	protected.HandleFunc("/credit-requests/pending", c.listPending).Methods(http.MethodGet)
	protected.HandleFunc("/credit-requests/{requestId}/resolution", c.resolve).Methods(http.MethodPatch)
	protected.HandleFunc("/accounts/{accountNumber}/credit-requests", c.listByClient).Methods(http.MethodGet)
}

func (c *CreditController) create(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	var req models.CreateCreditRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.CreditRequestResponse]("invalid request body", err.Error())
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

func (c *CreditController) resolve(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	requestID := mux.Vars(r)["requestId"]

	var req models.ResolveRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.CreditRequestResponse]("invalid request body", err.Error())
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

func (c *CreditController) listPending(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.ListPending(r.Context())
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

func (c *CreditController) listByClient(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	accountNumber := mux.Vars(r)["accountNumber"]

	response, err := c.service.ListByClient(r.Context(), accountNumber)
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
