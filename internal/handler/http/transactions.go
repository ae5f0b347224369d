package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/seguikro/cotisations/internal/attachment"
	"github.com/seguikro/cotisations/internal/service"
	"github.com/seguikro/cotisations/models"
)

const (
	attachmentField = "file"

	// multipartOverhead is allowed on top of the attachment size for
	// boundaries and part headers.
	multipartOverhead = 64 << 10
)

func (h *Handler) listTransactions(w http.ResponseWriter, r *http.Request) {
	page, err := h.services.TransactionService.List(r.Context(), r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writePage(w, r, page)
}

func (h *Handler) getTransaction(w http.ResponseWriter, r *http.Request) {
	doc, err := h.services.TransactionService.Get(r.Context(), identityFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, doc, http.StatusOK)
}

func (h *Handler) createTransaction(w http.ResponseWriter, r *http.Request) {
	var req models.TransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	transaction, err := h.services.TransactionService.Create(r.Context(), identityFrom(r), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, transaction, http.StatusCreated)
}

func (h *Handler) updateTransaction(w http.ResponseWriter, r *http.Request) {
	var req models.TransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	transaction, err := h.services.TransactionService.Update(r.Context(), identityFrom(r), chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, transaction, http.StatusOK)
}

func (h *Handler) deleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := h.services.TransactionService.Delete(r.Context(), identityFrom(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, struct{}{}, http.StatusOK)
}

func (h *Handler) listMemberTransactions(w http.ResponseWriter, r *http.Request) {
	docs, err := h.services.TransactionService.ListByMember(r.Context(), identityFrom(r), chi.URLParam(r, "memberID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, r, docs)
}

func (h *Handler) listGroupTransactions(w http.ResponseWriter, r *http.Request) {
	docs, err := h.services.TransactionService.ListByGroup(r.Context(), identityFrom(r), chi.URLParam(r, "groupID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, r, docs)
}

func (h *Handler) transactionReport(w http.ResponseWriter, r *http.Request) {
	var req models.TransactionReportRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	report, err := h.services.TransactionService.Report(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, report, http.StatusOK)
}

// uploadAttachment accepts a receipt in the multipart field "file".
func (h *Handler) uploadAttachment(w http.ResponseWriter, r *http.Request) {
	if h.maxUploadSize > 0 {
		limit := h.maxUploadSize + multipartOverhead
		if r.ContentLength > limit {
			writeError(w, r, attachment.ErrFileTooLarge)
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, limit)
	}

	file, header, err := r.FormFile(attachmentField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			writeError(w, r, attachment.ErrFileTooLarge)
		default:
			writeError(w, r, ErrMissingFile)
		}
		return
	}
	defer file.Close()

	transaction, err := h.services.TransactionService.UploadAttachment(r.Context(), identityFrom(r), chi.URLParam(r, "id"), service.AttachmentFile{
		Name:    header.Filename,
		Size:    header.Size,
		Content: file,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, transaction, http.StatusOK)
}
