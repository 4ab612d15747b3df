package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/gotodo/internal/common"
	"github.com/dmitrijs2005/gotodo/internal/server/models"
	"github.com/dmitrijs2005/gotodo/internal/server/services"
	"github.com/go-chi/chi/v5"
)

type signupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type createTodoRequest struct {
	Title string `json:"title"`
}

type updateTodoRequest struct {
	Title *string `json:"title"`
	Done  *bool   `json:"done"`
}

type updateTodoResponse struct {
	Message string       `json:"message"`
	Todo    *models.Todo `json:"todo"`
}

func decodeBody(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {

	var req signupRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid input")
		return
	}

	s.logger.Info(r.Context(), "Registration request")

	_, err := s.users.Register(r.Context(), req.Username, req.Password, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorValidation):
			respondError(w, http.StatusBadRequest, "invalid input")
		case errors.Is(err, common.ErrorAlreadyExists):
			respondError(w, http.StatusBadRequest, "user already exists")
		default:
			s.logger.Error(r.Context(), err.Error())
			respondError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	s.logger.Info(r.Context(), "Registered", "username", req.Username)
	respondJSON(w, http.StatusCreated, messageResponse{Message: "you are signed up successfully"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {

	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid input")
		return
	}

	token, err := s.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorNotFound):
			respondError(w, http.StatusNotFound, "user does not exist")
		case errors.Is(err, common.ErrorUnauthorized):
			respondError(w, http.StatusUnauthorized, "invalid credentials")
		default:
			s.logger.Error(r.Context(), err.Error())
			respondError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	respondJSON(w, http.StatusOK, loginResponse{Message: "you are logged in successfully", Token: token})
}

func (s *Server) handleCreateTodo(w http.ResponseWriter, r *http.Request) {

	userID, ok := userIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	var req createTodoRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid input")
		return
	}

	_, err := s.todos.Create(r.Context(), userID, req.Title)
	if err != nil {
		if errors.Is(err, common.ErrorValidation) {
			respondError(w, http.StatusBadRequest, "title is required")
			return
		}
		s.logger.Error(r.Context(), err.Error())
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondJSON(w, http.StatusCreated, messageResponse{Message: "todo created"})
}

func (s *Server) handleListTodos(w http.ResponseWriter, r *http.Request) {

	userID, ok := userIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	items, err := s.todos.List(r.Context(), userID)
	if err != nil {
		s.logger.Error(r.Context(), err.Error())
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondJSON(w, http.StatusOK, items)
}

func (s *Server) handleGetTodo(w http.ResponseWriter, r *http.Request) {

	userID, ok := userIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	todo, err := s.todos.Get(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			respondError(w, http.StatusNotFound, "todo not found")
			return
		}
		s.logger.Error(r.Context(), err.Error())
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondJSON(w, http.StatusOK, todo)
}

func (s *Server) handleUpdateTodo(w http.ResponseWriter, r *http.Request) {

	userID, ok := userIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	var req updateTodoRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid input")
		return
	}

	todo, err := s.todos.Update(r.Context(), userID, chi.URLParam(r, "id"),
		services.TodoPatch{Title: req.Title, Done: req.Done})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			respondError(w, http.StatusNotFound, "todo not found")
			return
		}
		s.logger.Error(r.Context(), err.Error())
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondJSON(w, http.StatusOK, updateTodoResponse{Message: "todo updated successfully", Todo: todo})
}

func (s *Server) handleDeleteTodo(w http.ResponseWriter, r *http.Request) {

	userID, ok := userIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	if err := s.todos.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			respondError(w, http.StatusNotFound, "todo not found")
			return
		}
		s.logger.Error(r.Context(), err.Error())
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondJSON(w, http.StatusOK, messageResponse{Message: "todo deleted successfully"})
}
