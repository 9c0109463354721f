package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Raufjatoi/Smart-Document-Analyzer/internal/analysis"
	"github.com/Raufjatoi/Smart-Document-Analyzer/internal/pipeline"
	"github.com/Raufjatoi/Smart-Document-Analyzer/internal/storage"
)

// Handler handles API requests.
type Handler struct {
	store          storage.DocumentStore
	pipeline       *pipeline.Manager
	prompt         *analysis.PromptConfig
	model          string
	maxUploadBytes int64
	allowedTypes   []string
}

// NewHandler creates a new API handler. allowedFileTypes is the configured
// comma-separated extension list (Security.AllowedFileTypes).
func NewHandler(store storage.DocumentStore, pm *pipeline.Manager, prompt *analysis.PromptConfig, model string, maxUploadBytes int64, allowedFileTypes string) *Handler {
	if prompt == nil {
		prompt = analysis.DefaultPromptConfig()
	}
	return &Handler{
		store:          store,
		pipeline:       pm,
		prompt:         prompt,
		model:          model,
		maxUploadBytes: maxUploadBytes,
		allowedTypes:   parseAllowedTypes(allowedFileTypes),
	}
}

// parseAllowedTypes normalizes the configured extension list. An empty or
// blank list allows every supported format.
func parseAllowedTypes(list string) []string {
	var types []string
	for _, t := range strings.Split(list, ",") {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if !strings.HasPrefix(t, ".") {
			t = "." + t
		}
		types = append(types, t)
	}
	if len(types) == 0 {
		return []string{".txt", ".pdf", ".docx", ".zip"}
	}
	return types
}

// HandleHealth returns server health status.
func (h *Handler) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// HandleAnalysisConfig returns the active analysis configuration: the label
// set the classifier is asked to use and the model identifier.
func (h *Handler) HandleAnalysisConfig(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"labels":     h.prompt.Labels,
		"model":      h.model,
		"sentiments": []string{"positive", "neutral", "negative"},
	})
}
