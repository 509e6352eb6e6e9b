package main

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/justinas/alice"
)

func (app *application) routes() http.Handler {
	standardMiddleware := alice.New(app.recoverPanic, app.logRequest, secureHeaders)

	r := mux.NewRouter()
	r.Handle("/", http.HandlerFunc(app.home)).Methods("GET")
	r.HandleFunc("/authenticate", http.HandlerFunc(app.authenticate)).Methods("POST")
	r.Handle("/status", app.validateToken(http.HandlerFunc(app.status))).Methods("GET")
	r.Handle("/route/download", app.validateToken(http.HandlerFunc(app.downloadRoute))).Methods("POST")
	r.Handle("/loans", app.validateToken(http.HandlerFunc(app.loans))).Methods("GET")
	r.Handle("/loan/fees/{lid}", app.validateToken(http.HandlerFunc(app.loanFees))).Methods("GET")
	r.Handle("/loan/collections/{lid}", app.validateToken(http.HandlerFunc(app.loanCollections))).Methods("GET")
	r.Handle("/collections", app.validateToken(http.HandlerFunc(app.collections))).Methods("GET")
	r.Handle("/collections/search", app.validateToken(http.HandlerFunc(app.collectionSearch))).Methods("GET")
	r.Handle("/collection", app.validateToken(http.HandlerFunc(app.newCollection))).Methods("POST")
	r.Handle("/collection/reprint", app.validateToken(http.HandlerFunc(app.reprintCollection))).Methods("POST")
	r.Handle("/sync", app.validateToken(http.HandlerFunc(app.syncCollections))).Methods("POST")
	r.Handle("/dayclose", app.validateToken(http.HandlerFunc(app.dayClose))).Methods("POST")

	return standardMiddleware.Then(handlers.CORS(handlers.AllowedHeaders([]string{"X-Requested-With", "Content-Type", "Authorization"}), handlers.AllowedMethods([]string{"GET", "POST", "PUT", "HEAD", "OPTIONS"}), handlers.AllowedOrigins([]string{"*"}))(r))
}
