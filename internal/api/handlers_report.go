// handlers_report.go - PDF report download handler
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Raufjatoi/Smart-Document-Analyzer/internal/report"
)

// HandleDocumentReport renders a document's analysis report as a downloadable
// PDF named from the document and the current date.
func (h *Handler) HandleDocumentReport(c echo.Context) error {
	doc, err := h.store.Get(c.Param("id"))
	if err != nil {
		return mapDomainError(err)
	}

	data, err := report.Render(doc)
	if err != nil {
		return NewInternalError("failed to render report", err)
	}

	filename := report.Filename(doc, time.Now())
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="%s"`, filename))

	return c.Blob(http.StatusOK, "application/pdf", data)
}
