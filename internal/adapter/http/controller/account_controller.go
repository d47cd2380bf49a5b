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

type AccountService interface {
	Register(ctx context.Context, req models.RegisterAccountRequest) (commons.Response[models.AccountResponse], error)
	GetByAccountNumber(ctx context.Context, accountNumber string) (commons.Response[models.AccountResponse], error)
}

type AccountController struct {
	service AccountService
}

func NewAccountController(service AccountService) *AccountController {
	return &AccountController{service: service}
}

func (c *AccountController) RegisterRoutes(router *mux.Router, authMiddleware mux.MiddlewareFunc) {
	protected := router.NewRoute().Subrouter()
	if authMiddleware != nil {
		protected.Use(authMiddleware)
	}

	protected.HandleFunc("/accounts", c.register).Methods(http.MethodPost)
	protected.HandleFunc("/accounts/{accountNumber}", c.getByAccountNumber).Methods(http.MethodGet)
}

func (c *AccountController) register(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	var req models.RegisterAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.AccountResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.service.Register(r.Context(), req)
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

func (c *AccountController) getByAccountNumber(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	accountNumber := mux.Vars(r)["accountNumber"]

	response, err := c.service.GetByAccountNumber(r.Context(), accountNumber)
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
