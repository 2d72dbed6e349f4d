package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"startup-onboarding/internal/common/errors"
	"startup-onboarding/internal/onboarding/form"
	"startup-onboarding/internal/onboarding/wizard"
)

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSchema(c echo.Context) error {
	return c.JSON(http.StatusOK, s.registry)
}

func (s *Server) handleSession(c echo.Context) error {
	w := s.sessions.Session(c.Request().Context(), currentUser(c))
	return c.JSON(http.StatusOK, w.Snapshot())
}

func (s *Server) handleUpdateDraft(c echo.Context) error {
	var data form.StartupFormData
	if err := c.Bind(&data); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid draft payload"))
	}

	w := s.sessions.Session(c.Request().Context(), currentUser(c))
	return c.JSON(http.StatusOK, w.UpdateDraft(c.Request().Context(), &data))
}

func (s *Server) handleNext(c echo.Context) error {
	w := s.sessions.Session(c.Request().Context(), currentUser(c))
	return c.JSON(http.StatusOK, w.Next(c.Request().Context()))
}

func (s *Server) handleBack(c echo.Context) error {
	w := s.sessions.Session(c.Request().Context(), currentUser(c))
	return c.JSON(http.StatusOK, w.Back(c.Request().Context()))
}

type submitResponse struct {
	State   wizard.State `json:"state"`
	Profile interface{}  `json:"profile,omitempty"`
}

func (s *Server) handleSubmit(c echo.Context) error {
	user := currentUser(c)
	w := s.sessions.Session(c.Request().Context(), user)

	state, stored, err := w.Submit(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusConflict, errorBody(err.Error()))
	}

	if stored != nil {
		s.sessions.Discard(user.ID)
		return c.JSON(http.StatusCreated, submitResponse{State: state, Profile: stored})
	}
	return c.JSON(http.StatusOK, submitResponse{State: state})
}

func (s *Server) handleAddFounder(c echo.Context) error {
	w := s.sessions.Session(c.Request().Context(), currentUser(c))
	return c.JSON(http.StatusOK, w.AddFounder(c.Request().Context()))
}

func (s *Server) handleUpdateFounder(c echo.Context) error {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		return c.JSON(http.StatusBadRequest, errorBody("invalid founder index"))
	}

	var founder form.Founder
	if err := c.Bind(&founder); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid founder payload"))
	}

	w := s.sessions.Session(c.Request().Context(), currentUser(c))
	return c.JSON(http.StatusOK, w.UpdateFounder(c.Request().Context(), index, founder))
}

func (s *Server) handleRemoveFounder(c echo.Context) error {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		return c.JSON(http.StatusBadRequest, errorBody("invalid founder index"))
	}

	w := s.sessions.Session(c.Request().Context(), currentUser(c))
	return c.JSON(http.StatusOK, w.RemoveFounder(c.Request().Context(), index))
}

func (s *Server) handleMyStartup(c echo.Context) error {
	user := currentUser(c)

	p, err := s.profiles.GetByUser(c.Request().Context(), user.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorBody(errors.UserMessage(err)))
	}
	if p == nil {
		return c.JSON(http.StatusNotFound, errorBody("Startup profile not found"))
	}
	return c.JSON(http.StatusOK, p)
}

func (s *Server) handleListStartups(c echo.Context) error {
	ctx := c.Request().Context()

	if query := c.QueryParam("q"); query != "" && s.search != nil {
		size, _ := strconv.Atoi(c.QueryParam("size"))
		summaries, err := s.search.Search(ctx, query, size)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, errorBody(errors.UserMessage(err)))
		}
		return c.JSON(http.StatusOK, summaries)
	}

	summaries, err := s.profiles.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorBody(errors.UserMessage(err)))
	}
	return c.JSON(http.StatusOK, summaries)
}

func (s *Server) handleGetStartup(c echo.Context) error {
	p, err := s.profiles.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorBody(errors.UserMessage(err)))
	}
	if p == nil {
		return c.JSON(http.StatusNotFound, errorBody("Startup profile not found"))
	}
	return c.JSON(http.StatusOK, p)
}
