package relay

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

const (
	defaultExchangeLimit = 50
	maxExchangeLimit     = 500
)

// StatusSource reports the generator configuration for the status endpoint.
type StatusSource interface {
	Model() string
	Err() error
}

// Status is the body of GET /api/status.
type Status struct {
	ServerWorking bool   `json:"server_working"`
	Configured    bool   `json:"configured"`
	Model         string `json:"model"`
}

// NewRouter registers the relay endpoints under /api and wraps them with CORS.
func NewRouter(r *Relay, status StatusSource, allowedOrigins []string) http.Handler {
	router := mux.NewRouter()
	api := router.PathPrefix("/api").Subrouter()

	api.Handle("/generate-text", r.Text())
	for _, m := range Modalities {
		api.Handle("/generate-from-"+m.FieldName, r.File(m))
	}

	api.HandleFunc("/status", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, Status{
			ServerWorking: true,
			Configured:    status.Err() == nil,
			Model:         status.Model(),
		})
	}).Methods(http.MethodGet)

	api.HandleFunc("/exchanges", r.listExchanges).Methods(http.MethodGet)

	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"Content-Length", "Content-Type"},
	})

	return c.Handler(router)
}

func (r *Relay) listExchanges(w http.ResponseWriter, req *http.Request) {
	limit := defaultExchangeLimit
	if s := req.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "limit must be a positive integer"})
			return
		}
		limit = min(n, maxExchangeLimit)
	}

	exchanges, err := r.exchanges.Recent(req.Context(), limit)
	if err != nil {
		r.logger.Errorf("relay: list exchanges: %v", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Failed to list exchanges"})
		return
	}

	writeJSON(w, http.StatusOK, exchanges)
}
