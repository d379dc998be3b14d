package http

import (
	"net/http"

	"autoone-backend/internal/security"

	"github.com/gorilla/mux"
)

// NewRouter wires the HTTP surface. Catalog reads and stored files are
// public; booking operations require a valid bearer token.
func NewRouter(
	rentalHandler *RentalHandler,
	bookingHandler *BookingHandler,
	filesHandler *FilesHandler,
	tokens security.TokenManager,
) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/rentals", rentalHandler.Search).Methods(http.MethodGet)
	api.HandleFunc("/rentals/{id:[0-9]+}", rentalHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/rentals/{id:[0-9]+}/availability", rentalHandler.Availability).Methods(http.MethodGet)
	api.HandleFunc("/rentals/{id:[0-9]+}/quote", rentalHandler.Quote).Methods(http.MethodGet)

	authed := api.PathPrefix("/bookings").Subrouter()
	authed.Use(AuthMiddleware(tokens))
	authed.HandleFunc("", bookingHandler.Create).Methods(http.MethodPost)
	authed.HandleFunc("/mine", bookingHandler.Mine).Methods(http.MethodGet)
	authed.HandleFunc("/{id:[0-9]+}/status", bookingHandler.UpdateStatus).Methods(http.MethodPatch)

	r.HandleFunc("/files/{key:.*}", filesHandler.Serve).Methods(http.MethodGet)

	return r
}
