package router

import (
	"net/http"

	"github.com/gorilla/mux"
)

type AccountRouteRegistrar interface {
	RegisterRoutes(router *mux.Router, authMiddleware mux.MiddlewareFunc)
}

type TransferRouteRegistrar interface {
	RegisterRoutes(router *mux.Router, authMiddleware mux.MiddlewareFunc)
}

type CreditRouteRegistrar interface {
	RegisterRoutes(router *mux.Router, authMiddleware mux.MiddlewareFunc)
}

type CardRouteRegistrar interface {
	RegisterRoutes(router *mux.Router, authMiddleware mux.MiddlewareFunc)
}

func New(
	accountController AccountRouteRegistrar,
	transferController TransferRouteRegistrar,
	creditController CreditRouteRegistrar,
	cardController CardRouteRegistrar,
	authMiddleware mux.MiddlewareFunc,
) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	if accountController != nil {
		accountController.RegisterRoutes(router, authMiddleware)
	}
	if transferController != nil {
		transferController.RegisterRoutes(router, authMiddleware)
	}
	if creditController != nil {
		creditController.RegisterRoutes(router, authMiddleware)
	}
	if cardController != nil {
		cardController.RegisterRoutes(router, authMiddleware)
	}

	return router
}
