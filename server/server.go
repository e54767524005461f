package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/jsphweid/keyquest/model"
	"github.com/jsphweid/keyquest/store"
)

type Server struct {
	store  *store.Store
	logger *log.Logger
	now    func() time.Time
}

func New(st *store.Store, logger *log.Logger) *Server {
	return &Server{store: st, logger: logger, now: time.Now}
}

func (s *Server) Router() *mux.Router {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/identify", s.HandleIdentify).Methods(http.MethodPost)
	router.HandleFunc("/parse", s.HandleParse).Methods(http.MethodPost)
	router.HandleFunc("/scales/{key}/{kind}", s.HandleScale).Methods(http.MethodGet)
	router.HandleFunc("/chords/voice", s.HandleVoice).Methods(http.MethodGet)
	router.HandleFunc("/exercises", s.HandleExercises).Methods(http.MethodGet)
	router.HandleFunc("/exercises/{id}", s.HandleExercise).Methods(http.MethodGet)
	router.HandleFunc("/progressions", s.HandleListProgressions).Methods(http.MethodGet)
	router.HandleFunc("/progressions", s.HandleCreateProgression).Methods(http.MethodPost)
	router.HandleFunc("/progressions/{id}", s.HandleGetProgression).Methods(http.MethodGet)
	router.HandleFunc("/progressions/{id}", s.HandleDeleteProgression).Methods(http.MethodDelete)
	router.Use(s.logRequests)
	return router
}

// Handler is the router behind a CORS policy open to any origin.
func (s *Server) Handler() http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(s.Router())
}

// ListenAndServe serves on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return log.WithContext(context.Background(), s.logger) },
	}
	errs := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errs <- srv.ListenAndServe()
	}()
	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdown)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := s.now()
		next.ServeHTTP(w, r.WithContext(log.WithContext(r.Context(), s.logger)))
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "took", s.now().Sub(start))
	})
}

func decodeBody(r *http.Request, v any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return errors.New("could not unmarshal request body: " + err.Error())
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, model.ErrorResponse{Error: err.Error()})
}

// storeStatus maps storage and validation failures to HTTP statuses.
func storeStatus(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, store.ErrCorrupt):
		return http.StatusInternalServerError
	case errors.Is(err, model.ErrInvalid), errors.Is(err, model.ErrCapacityExceeded):
		return http.StatusBadRequest
	}
	return http.StatusServiceUnavailable
}
