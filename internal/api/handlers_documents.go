// handlers_documents.go - Upload and document collection handlers
package api

import (
	"encoding/base64"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/Raufjatoi/Smart-Document-Analyzer/internal/extract"
	"github.com/Raufjatoi/Smart-Document-Analyzer/internal/models"
)

type uploadDocumentRequest struct {
	Name     string `json:"name"`
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"` // Base64-encoded file content
}

func (r *uploadDocumentRequest) validate() error {
	if r.Name == "" {
		return NewValidationError("name")
	}
	if r.Data == "" {
		return NewValidationError("data")
	}
	return nil
}

// HandleUploadDocument accepts a file as base64 JSON and starts the
// extract/analyze pipeline. Returns 202 with a job id; the client follows
// progress via the jobs endpoints.
func (h *Handler) HandleUploadDocument(c echo.Context) error {
	var req uploadDocumentRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}

	if err := req.validate(); err != nil {
		return err
	}

	decoded, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		return NewBadRequestError("invalid base64 data", err)
	}

	return h.startUpload(c, extract.SourceFile{
		Name:     req.Name,
		MIMEType: req.MIMEType,
		Data:     decoded,
	})
}

// HandleUploadBinary accepts a raw file upload (multipart/form-data).
func (h *Handler) HandleUploadBinary(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return NewBadRequestError("no file provided", err)
	}

	src, err := file.Open()
	if err != nil {
		return NewInternalError("failed to open uploaded file", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return NewInternalError("failed to read uploaded file", err)
	}

	return h.startUpload(c, extract.SourceFile{
		Name:     file.Filename,
		MIMEType: file.Header.Get("Content-Type"),
		Data:     data,
	})
}

func (h *Handler) startUpload(c echo.Context, src extract.SourceFile) error {
	if int64(len(src.Data)) > h.maxUploadBytes {
		return NewPayloadTooLargeError(h.maxUploadBytes)
	}

	// Reject unrecognized or disallowed formats before burning the in-flight
	// slot. The dispatcher rechecks, so archive entries are unaffected.
	kind := extract.DetectKind(src.MIMEType, src.Name)
	if kind == extract.KindUnknown || !h.kindAllowed(kind) {
		return NewUnsupportedFormatError(src.Name, h.allowedTypes)
	}

	job, err := h.pipeline.StartUpload(src)
	if err != nil {
		return mapDomainError(err)
	}

	return c.JSON(http.StatusAccepted, job)
}

var kindExtensions = map[extract.Kind]string{
	extract.KindText:    ".txt",
	extract.KindPDF:     ".pdf",
	extract.KindWord:    ".docx",
	extract.KindArchive: ".zip",
}

// kindAllowed checks the detected format against Security.AllowedFileTypes.
func (h *Handler) kindAllowed(kind extract.Kind) bool {
	ext := kindExtensions[kind]
	for _, allowed := range h.allowedTypes {
		if allowed == ext {
			return true
		}
	}
	return false
}

// HandleListDocuments returns the full analyzed document collection, newest
// first.
func (h *Handler) HandleListDocuments(c echo.Context) error {
	docs, err := h.store.List()
	if err != nil {
		return NewInternalError("failed to list documents", err)
	}
	if docs == nil {
		docs = []*models.AnalyzedDocument{}
	}
	return c.JSON(http.StatusOK, docs)
}

// HandleListDocumentsMsgpack returns the collection in MessagePack format,
// which is considerably smaller than JSON for text-heavy documents.
func (h *Handler) HandleListDocumentsMsgpack(c echo.Context) error {
	docs, err := h.store.List()
	if err != nil {
		return NewInternalError("failed to list documents", err)
	}

	data, err := msgpack.Marshal(docs)
	if err != nil {
		return NewInternalError("failed to encode msgpack", err)
	}

	return c.Blob(http.StatusOK, "application/msgpack", data)
}

// HandleGetDocument returns one analyzed document by id.
func (h *Handler) HandleGetDocument(c echo.Context) error {
	doc, err := h.store.Get(c.Param("id"))
	if err != nil {
		return mapDomainError(err)
	}
	return c.JSON(http.StatusOK, doc)
}

// HandleDeleteDocument removes a document from the collection.
func (h *Handler) HandleDeleteDocument(c echo.Context) error {
	if err := h.store.Delete(c.Param("id")); err != nil {
		return mapDomainError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// HandleReprocessDocument reruns analysis over a document's stored text.
// The id and extracted text are preserved; classification, tags, summary,
// sentiment and date are replaced when the job completes.
func (h *Handler) HandleReprocessDocument(c echo.Context) error {
	job, err := h.pipeline.StartReprocess(c.Param("id"))
	if err != nil {
		return mapDomainError(err)
	}
	return c.JSON(http.StatusAccepted, job)
}
