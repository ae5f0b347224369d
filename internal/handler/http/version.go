package http

import (
	"net/http"
)

const welcomeMessage = "Welcome to the Seguikro API - monthly dues application"

func (h *Handler) welcome(w http.ResponseWriter, r *http.Request) {
	writeData(w, r, map[string]string{"message": welcomeMessage, "version": apiPrefix}, http.StatusOK)
}

func (h *Handler) getServerVersion(w http.ResponseWriter, r *http.Request) {
	writeData(w, r, h.services.AppInfoService.GetAppInfo(r.Context()), http.StatusOK)
}
