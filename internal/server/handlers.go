package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"shortsfactory/internal/generator"
	"shortsfactory/internal/render"
	"shortsfactory/internal/script"
	"shortsfactory/internal/settings"
)

type generateRequest struct {
	Topic    string `json:"topic"`
	Language string `json:"language"`
	Owner    string `json:"owner"`
}

func (s *Server) handleGenerate(c echo.Context) error {
	var req generateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.Topic == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "topic is required"})
	}
	lang, err := script.ParseLanguage(req.Language)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	s.setLastTopic(req.Topic)
	id := s.runner.Start(generator.Request{
		Topic:    req.Topic,
		Language: lang,
		Owner:    req.Owner,
	})

	return c.JSON(http.StatusAccepted, map[string]string{"id": id})
}

func (s *Server) handleGenerateStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, s.runner.Status())
}

func (s *Server) handleGenerateCancel(c echo.Context) error {
	cancelled := s.runner.Cancel()
	return c.JSON(http.StatusOK, map[string]bool{"cancelled": cancelled})
}

func (s *Server) handleConnection(c echo.Context) error {
	status, err := s.gen.CheckConnection(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, status)
}

type settingsResponse struct {
	Provider settings.Provider          `json:"provider"`
	Keys     map[settings.Provider]bool `json:"keys"`
}

func (s *Server) handleGetSettings(c echo.Context) error {
	// Raw keys never leave the process; clients only see configured flags.
	return c.JSON(http.StatusOK, settingsResponse{
		Provider: s.settings.Provider(),
		Keys: map[settings.Provider]bool{
			settings.ProviderGemini: s.settings.APIKey(settings.ProviderGemini) != "",
			settings.ProviderOpenAI: s.settings.APIKey(settings.ProviderOpenAI) != "",
		},
	})
}

func (s *Server) handlePutProvider(c echo.Context) error {
	var req struct {
		Provider string `json:"provider"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	p, err := settings.ParseProvider(req.Provider)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	if err := s.settings.SetProvider(p); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handlePutKey(c echo.Context) error {
	p, err := settings.ParseProvider(c.Param("provider"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	var req struct {
		Key string `json:"key"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := s.settings.SetAPIKey(p, req.Key); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleDeleteKey(c echo.Context) error {
	p, err := settings.ParseProvider(c.Param("provider"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	if err := s.settings.RemoveAPIKey(p); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleListAssets(c echo.Context) error {
	owner := c.QueryParam("owner")
	if owner == "" {
		owner = generator.DefaultOwner
	}
	objects, err := s.store.List(c.Request().Context(), owner)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, objects)
}

func (s *Server) handleDeleteAsset(c echo.Context) error {
	name := c.QueryParam("name")
	if name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "name is required"})
	}
	if err := s.store.Delete(c.Request().Context(), name); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleRenderCommand(c echo.Context) error {
	snap := s.runner.Status()
	if snap.Script == nil {
		return c.JSON(http.StatusConflict, map[string]string{"error": "no finished script to render"})
	}
	cmd, err := render.Command(snap.Script, s.getLastTopic())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]string{"command": cmd})
}

func (s *Server) handleRender(c echo.Context) error {
	if s.renderer == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "render server not configured"})
	}
	snap := s.runner.Status()
	if snap.Script == nil {
		return c.JSON(http.StatusConflict, map[string]string{"error": "no finished script to render"})
	}

	title := s.getLastTopic()
	c.Response().Header().Set(echo.HeaderContentType, "video/mp4")
	c.Response().Header().Set(echo.HeaderContentDisposition,
		`attachment; filename="`+render.SafeTitle(title)+`.mp4"`)
	c.Response().WriteHeader(http.StatusOK)

	return s.renderer.Render(c.Request().Context(), snap.Script, title, c.Response())
}

func (s *Server) setLastTopic(topic string) {
	s.topicMu.Lock()
	defer s.topicMu.Unlock()
	s.lastTopic = topic
}

func (s *Server) getLastTopic() string {
	s.topicMu.Lock()
	defer s.topicMu.Unlock()
	return s.lastTopic
}
