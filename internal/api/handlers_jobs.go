// handlers_jobs.go - Pipeline job status handlers
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Raufjatoi/Smart-Document-Analyzer/internal/pipeline"
)

// HandleGetJob returns the current state of a pipeline job.
func (h *Handler) HandleGetJob(c echo.Context) error {
	job, ok := h.pipeline.GetJob(c.Param("jobId"))
	if !ok {
		return NewNotFoundError("job", c.Param("jobId"))
	}
	return c.JSON(http.StatusOK, job)
}

// HandleJobStream streams job progress via Server-Sent Events until the job
// completes or errors.
func (h *Handler) HandleJobStream(c echo.Context) error {
	jobID := c.Param("jobId")

	// Set SSE headers
	c.Response().Header().Set("Content-Type", "text/event-stream")
	c.Response().Header().Set("Cache-Control", "no-cache")
	c.Response().Header().Set("Connection", "keep-alive")
	c.Response().Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering
	c.Response().WriteHeader(http.StatusOK)

	job, ok := h.pipeline.GetJob(jobID)
	if !ok {
		data, _ := json.Marshal(map[string]string{"error": "job not found"})
		fmt.Fprintf(c.Response(), "data: %s\n\n", data)
		c.Response().Flush()
		return nil
	}

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	lastStatus := pipeline.Status("")
	lastProgress := -1.0
	for {
		select {
		case <-c.Request().Context().Done():
			return nil
		case <-ticker.C:
			job, ok = h.pipeline.GetJob(jobID)
			if !ok {
				data, _ := json.Marshal(map[string]string{"error": "job not found"})
				fmt.Fprintf(c.Response(), "data: %s\n\n", data)
				c.Response().Flush()
				return nil
			}

			// Only send an event when something changed
			if job.Status != lastStatus || job.Progress != lastProgress {
				lastStatus = job.Status
				lastProgress = job.Progress

				data, err := json.Marshal(job)
				if err != nil {
					continue
				}

				fmt.Fprintf(c.Response(), "data: %s\n\n", data)
				c.Response().Flush()
			}

			if job.Status == pipeline.StatusComplete || job.Status == pipeline.StatusError {
				return nil
			}
		}
	}
}
