package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/BMSihlas/dataops-greenflow-sage/internal/audit"
	apperrors "github.com/BMSihlas/dataops-greenflow-sage/internal/errors"
	"github.com/BMSihlas/dataops-greenflow-sage/internal/middleware"
	"github.com/BMSihlas/dataops-greenflow-sage/internal/service"
)

const uploadFormField = "file"

// AdminHandler serves the API-key protected ingest endpoints.
type AdminHandler struct {
	loader   *service.LoaderService
	insights *service.InsightService
	uploads  *service.UploadService
}

func NewAdminHandler(
	loader *service.LoaderService,
	insights *service.InsightService,
	uploads *service.UploadService,
) *AdminHandler {
	return &AdminHandler{
		loader:   loader,
		insights: insights,
		uploads:  uploads,
	}
}

func (h *AdminHandler) LoadData(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FileName string `json:"file_name"`
	}
	// body is optional, absence means the default data file
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, apperrors.ValidationError("Invalid request body"))
		return
	}

	rows, err := h.loader.Run(r.Context(), req.FileName)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.insights.Refresh(r.Context()); err != nil {
		writeError(w, err)
		return
	}

	if req.FileName != "" {
		if err := h.uploads.Delete(req.FileName); err != nil {
			log.Warn().Err(err).Str("file", req.FileName).Msg("failed to remove loaded upload")
		}
	}

	audit.LogFromRequest(r, audit.Event{
		Type:     audit.EventDataLoad,
		Username: middleware.GetUsername(r.Context()),
		Details:  map[string]any{"file_name": req.FileName, "rows": rows},
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"message":     "Data loaded and insights updated successfully",
		"rows_loaded": rows,
	})
}

func (h *AdminHandler) UploadParquet(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile(uploadFormField)
	if err != nil {
		writeError(w, apperrors.ValidationError("Multipart field 'file' is required"))
		return
	}
	defer file.Close()

	rows, err := h.uploads.Store(header.Filename, file)
	if err != nil {
		writeError(w, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:     audit.EventUpload,
		Username: middleware.GetUsername(r.Context()),
		Details:  map[string]any{"file_name": header.Filename, "rows": rows},
	})

	writeJSON(w, http.StatusCreated, map[string]any{
		"message":   "File uploaded successfully",
		"file_name": header.Filename,
		"rows":      rows,
	})
}
