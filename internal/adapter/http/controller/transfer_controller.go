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

type TransferService interface {
	Execute(ctx context.Context, req models.TransferRequest) (commons.Response[models.TransferResponse], error)
	Statement(ctx context.Context, accountNumber string) (commons.Response[models.StatementResponse], error)
}

type TransferController struct {
	service TransferService
}

func NewTransferController(service TransferService) *TransferController {
	return &TransferController{service: service}
}

func (c *TransferController) RegisterRoutes(router *mux.Router, authMiddleware mux.MiddlewareFunc) {
	protected := router.NewRoute().Subrouter()
	if authMiddleware != nil {
		protected.Use(authMiddleware)
	}

	protected.HandleFunc("/transfers", c.transfer).Methods(http.MethodPost)
	protected.HandleFunc("/accounts/{accountNumber}/statement", c.statement).Methods(http.MethodGet)
}

func (c *TransferController) transfer(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	var req models.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.TransferResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.service.Execute(r.Context(), req)
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

func (c *TransferController) statement(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	accountNumber := mux.Vars(r)["accountNumber"]

	response, err := c.service.Statement(r.Context(), accountNumber)
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
