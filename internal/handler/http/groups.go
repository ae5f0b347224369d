package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/seguikro/cotisations/models"
)

func (h *Handler) listGroups(w http.ResponseWriter, r *http.Request) {
	page, err := h.services.GroupService.List(r.Context(), r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writePage(w, r, page)
}

func (h *Handler) getGroup(w http.ResponseWriter, r *http.Request) {
	doc, err := h.services.GroupService.Get(r.Context(), identityFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, doc, http.StatusOK)
}

func (h *Handler) createGroup(w http.ResponseWriter, r *http.Request) {
	var req models.GroupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	group, err := h.services.GroupService.Create(r.Context(), identityFrom(r), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, group, http.StatusCreated)
}

func (h *Handler) updateGroup(w http.ResponseWriter, r *http.Request) {
	var req models.GroupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	group, err := h.services.GroupService.Update(r.Context(), identityFrom(r), chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, group, http.StatusOK)
}

func (h *Handler) deleteGroup(w http.ResponseWriter, r *http.Request) {
	if err := h.services.GroupService.Delete(r.Context(), identityFrom(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, struct{}{}, http.StatusOK)
}

func (h *Handler) addGroupMember(w http.ResponseWriter, r *http.Request) {
	group, err := h.services.GroupService.AddMember(r.Context(), identityFrom(r), chi.URLParam(r, "id"), chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, group, http.StatusOK)
}

func (h *Handler) removeGroupMember(w http.ResponseWriter, r *http.Request) {
	group, err := h.services.GroupService.RemoveMember(r.Context(), identityFrom(r), chi.URLParam(r, "id"), chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, group, http.StatusOK)
}

func (h *Handler) listMemberGroups(w http.ResponseWriter, r *http.Request) {
	docs, err := h.services.GroupService.ListByMember(r.Context(), identityFrom(r), chi.URLParam(r, "memberID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, r, docs)
}
