package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"todo-api/internal/domain"
	"todo-api/internal/service"
)

func (s *Server) RegisterRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", AuthHeader},
		ExposedHeaders:   []string{AuthHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", s.rootHandler)
	r.Get("/health", s.healthHandler)

	r.Post("/users", s.registerHandler)
	r.Post("/users/login", s.loginHandler)

	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)

		r.Get("/users/me", s.meHandler)
		r.Delete("/users/me/token", s.revokeTokenHandler)

		r.Route("/todos", func(r chi.Router) {
			r.Post("/", s.createTodoHandler)
			r.Get("/", s.listTodosHandler)
			r.Get("/{id}", s.getTodoHandler)
			r.Patch("/{id}", s.updateTodoHandler)
			r.Delete("/{id}", s.deleteTodoHandler)
		})
	})

	return r
}

func (s *Server) rootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Todo API is up"))
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	healthStats := s.db.Health()
	if status, ok := healthStats["status"]; ok && status == "down" {
		respondWithJSON(w, http.StatusServiceUnavailable, healthStats)
		return
	}
	respondWithJSON(w, http.StatusOK, healthStats)
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) registerHandler(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	user, err := s.accounts.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	token, err := s.accounts.IssueToken(r.Context(), user)
	if err != nil {
		s.log.Error("issuing token after registration", "error", err)
		respondWithError(w, http.StatusBadRequest, "Failed to issue token")
		return
	}

	w.Header().Set(AuthHeader, token)
	respondWithJSON(w, http.StatusOK, user)
}

func (s *Server) loginHandler(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	user, err := s.accounts.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		// Same response for unknown email and wrong password.
		respondWithError(w, http.StatusBadRequest, "Invalid credentials")
		return
	}

	token, err := s.accounts.IssueToken(r.Context(), user)
	if err != nil {
		s.log.Error("issuing token after login", "error", err)
		respondWithError(w, http.StatusBadRequest, "Failed to issue token")
		return
	}

	w.Header().Set(AuthHeader, token)
	respondWithJSON(w, http.StatusOK, user)
}

func (s *Server) meHandler(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, userFromContext(r.Context()))
}

func (s *Server) revokeTokenHandler(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	token := tokenFromContext(r.Context())

	if err := s.accounts.RevokeToken(r.Context(), user, token); err != nil {
		s.log.Error("revoking token", "error", err, "user_id", user.ID)
		respondWithError(w, http.StatusBadRequest, "Failed to revoke token")
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) createTodoHandler(w http.ResponseWriter, r *http.Request) {
	var req service.CreateTodoRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	todo, err := s.todos.Create(r.Context(), userFromContext(r.Context()), req)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, todo)
}

func (s *Server) listTodosHandler(w http.ResponseWriter, r *http.Request) {
	todos, err := s.todos.ListOwned(r.Context(), userFromContext(r.Context()))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Failed to retrieve todos")
		return
	}
	if todos == nil {
		todos = []domain.Todo{}
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"todos": todos})
}

func (s *Server) getTodoHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	todo, err := s.todos.GetOwned(r.Context(), userFromContext(r.Context()), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			respondWithError(w, http.StatusNotFound, "Todo not found")
		default:
			respondWithError(w, http.StatusBadRequest, "Invalid todo ID provided")
		}
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"todo": todo})
}

func (s *Server) updateTodoHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req service.UpdateTodoRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	todo, err := s.todos.UpdateOwned(r.Context(), userFromContext(r.Context()), id, req)
	if err != nil {
		// Malformed ids and missing records both come back as 404 here.
		respondWithError(w, http.StatusNotFound, "Todo not found")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"todo": todo})
}

func (s *Server) deleteTodoHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	todo, err := s.todos.DeleteOwned(r.Context(), userFromContext(r.Context()), id)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "resource not found")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"todo": todo})
}

// decodeJSON decodes the request body into dst, rejecting unknown fields.
// It writes the error response itself and reports whether decoding succeeded.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	err := decoder.Decode(dst)
	if err == nil {
		return true
	}

	var syntaxError *json.SyntaxError
	var unmarshalTypeError *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxError):
		msg := fmt.Sprintf("Request body contains badly-formed JSON (at position %d)", syntaxError.Offset)
		respondWithError(w, http.StatusBadRequest, msg)
	case errors.Is(err, io.ErrUnexpectedEOF):
		respondWithError(w, http.StatusBadRequest, "Request body contains badly-formed JSON")
	case errors.As(err, &unmarshalTypeError):
		msg := fmt.Sprintf("Request body contains an invalid value for the %q field (at position %d)", unmarshalTypeError.Field, unmarshalTypeError.Offset)
		respondWithError(w, http.StatusBadRequest, msg)
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Request body contains unknown field %s", fieldName))
	case errors.Is(err, io.EOF):
		respondWithError(w, http.StatusBadRequest, "Request body must not be empty")
	default:
		s.log.Error("decoding request body", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Error processing request")
	}
	return false
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Internal server error preparing response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}
