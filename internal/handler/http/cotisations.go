package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/seguikro/cotisations/models"
)

func (h *Handler) listCotisations(w http.ResponseWriter, r *http.Request) {
	page, err := h.services.CotisationService.List(r.Context(), r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writePage(w, r, page)
}

func (h *Handler) getCotisation(w http.ResponseWriter, r *http.Request) {
	doc, err := h.services.CotisationService.Get(r.Context(), identityFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, doc, http.StatusOK)
}

func (h *Handler) createCotisation(w http.ResponseWriter, r *http.Request) {
	var req models.CotisationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	cotisation, err := h.services.CotisationService.Create(r.Context(), identityFrom(r), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, cotisation, http.StatusCreated)
}

func (h *Handler) updateCotisation(w http.ResponseWriter, r *http.Request) {
	var req models.CotisationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	cotisation, err := h.services.CotisationService.Update(r.Context(), identityFrom(r), chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, cotisation, http.StatusOK)
}

func (h *Handler) deleteCotisation(w http.ResponseWriter, r *http.Request) {
	if err := h.services.CotisationService.Delete(r.Context(), identityFrom(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, struct{}{}, http.StatusOK)
}

func (h *Handler) setCotisationStatus(w http.ResponseWriter, r *http.Request) {
	var req models.CotisationStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	cotisation, err := h.services.CotisationService.SetStatus(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, cotisation, http.StatusOK)
}

func (h *Handler) listMemberCotisations(w http.ResponseWriter, r *http.Request) {
	docs, err := h.services.CotisationService.ListByMember(r.Context(), identityFrom(r), chi.URLParam(r, "memberID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, r, docs)
}

func (h *Handler) listPeriodCotisations(w http.ResponseWriter, r *http.Request) {
	docs, err := h.services.CotisationService.ListByPeriod(r.Context(), chi.URLParam(r, "month"), chi.URLParam(r, "year"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, r, docs)
}

func (h *Handler) cotisationReport(w http.ResponseWriter, r *http.Request) {
	var req models.CotisationReportRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	report, err := h.services.CotisationService.Report(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, report, http.StatusOK)
}
