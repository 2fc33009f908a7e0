package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/moh-ammad/exceltovisual/middleware"
	"github.com/moh-ammad/exceltovisual/reports"
	"github.com/moh-ammad/exceltovisual/services"

	"github.com/gorilla/mux"
)

type ReportHandler struct {
	reports  *services.ReportService
	uploader *Uploader
}

func NewReportHandler(reports *services.ReportService, uploader *Uploader) *ReportHandler {
	return &ReportHandler{reports: reports, uploader: uploader}
}

type importResponse struct {
	Message string                `json:"message"`
	Success bool                  `json:"success"`
	Errors  []string              `json:"errors"`
	Summary *reports.ImportResult `json:"summary"`
}

func (h *ReportHandler) Export(w http.ResponseWriter, r *http.Request) {
	kind, err := reports.ParseReportKind(mux.Vars(r)["kind"])
	if err != nil {
		middleware.WriteError(w, http.StatusNotFound, "Unknown report", nil)
		return
	}
	report, err := h.reports.Export(r.Context(), kind, currentUser(r))
	if err != nil {
		fail(w, err, "Report not found", "Failed to export "+string(kind))
		return
	}

	var buf bytes.Buffer
	if err := report.Write(&buf); err != nil {
		fail(w, err, "Report not found", "Failed to export "+string(kind))
		return
	}
	w.Header().Set("Content-Type", reports.ContentTypeXLSX)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// ImportAll takes the combined Users and Tasks workbook.
func (h *ReportHandler) ImportAll(w http.ResponseWriter, r *http.Request) {
	h.importUpload(w, r, false)
}

// ImportTasks takes a Tasks-only workbook scoped to the caller.
func (h *ReportHandler) ImportTasks(w http.ResponseWriter, r *http.Request) {
	h.importUpload(w, r, true)
}

func (h *ReportHandler) importUpload(w http.ResponseWriter, r *http.Request, selfScoped bool) {
	path, err := h.uploader.SaveWorkbook(w, r, "excelfile")
	switch {
	case errors.Is(err, errNoUpload):
		fail(w, reports.ErrNoFile, "", "")
		return
	case errors.Is(err, errUnsupportedType):
		middleware.WriteError(w, http.StatusBadRequest, "Only .xlsx and .xls files are allowed", nil)
		return
	case err != nil:
		middleware.WriteError(w, http.StatusBadRequest, "Failed to upload file", err)
		return
	}

	res, err := h.reports.ImportFile(r.Context(), path, currentUser(r), selfScoped)
	if err != nil {
		fail(w, err, "Report not found", "Failed to import Excel data")
		return
	}
	errs := res.Errors
	if errs == nil {
		errs = []string{}
	}
	writeJSON(w, http.StatusOK, importResponse{
		Message: res.Message(),
		Success: res.OK(),
		Errors:  errs,
		Summary: res,
	})
}
