package rest

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/propman/internal/common"
	"github.com/dmitrijs2005/propman/internal/server/models"
	"github.com/dmitrijs2005/propman/internal/server/services"
	"github.com/go-chi/chi/v5"
)

const (
	msgEmailTaken         = "Email already registered"
	msgInvalidCredentials = "Invalid credentials"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type propertyRequest struct {
	Title   string   `json:"title"`
	Type    string   `json:"type"`
	Address string   `json:"address"`
	City    string   `json:"city"`
	Lat     *float64 `json:"lat"`
	Lng     *float64 `json:"lng"`
	Notes   string   `json:"notes"`
}

func (p propertyRequest) input() services.PropertyInput {
	return services.PropertyInput{
		Title:   p.Title,
		Type:    p.Type,
		Address: p.Address,
		City:    p.City,
		Lat:     p.Lat,
		Lng:     p.Lng,
		Notes:   p.Notes,
	}
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Email: u.Email}
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decode(w, r, &req) {
		return
	}

	res, err := s.users.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			writeDetail(w, http.StatusBadRequest, msgEmailTaken)
			return
		}
		s.writeServiceError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "Registered", "user_id", res.User.ID)
	writeJSON(w, http.StatusOK, authResponse{Token: res.Token, User: toUserResponse(res.User)})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decode(w, r, &req) {
		return
	}

	res, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			writeDetail(w, http.StatusBadRequest, msgInvalidCredentials)
			return
		}
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Token: res.Token, User: toUserResponse(res.User)})
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toUserResponse(userFromContext(r.Context())))
}

func (s *Server) listProperties(w http.ResponseWriter, r *http.Request) {
	items, err := s.properties.List(r.Context(), userFromContext(r.Context()).ID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if items == nil {
		items = []models.Property{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) createProperty(w http.ResponseWriter, r *http.Request) {
	var req propertyRequest
	if !decode(w, r, &req) {
		return
	}

	p, err := s.properties.Create(r.Context(), userFromContext(r.Context()).ID, req.input())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) getProperty(w http.ResponseWriter, r *http.Request) {
	p, err := s.properties.Get(r.Context(), userFromContext(r.Context()).ID, chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) updateProperty(w http.ResponseWriter, r *http.Request) {
	var req propertyRequest
	if !decode(w, r, &req) {
		return
	}

	p, err := s.properties.Update(r.Context(), userFromContext(r.Context()).ID, chi.URLParam(r, "id"), req.input())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) deleteProperty(w http.ResponseWriter, r *http.Request) {
	if err := s.properties.Delete(r.Context(), userFromContext(r.Context()).ID, chi.URLParam(r, "id")); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
