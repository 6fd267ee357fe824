package handlers

import (
	"context"
	"net/http"
	"time"

	"pipeline/src/utils"
)

func (h *Handler) RunPipeline(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
	defer cancel()

	report, err := h.Controller.RunPipeline(ctx)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, report, http.StatusOK)
}

func (h *Handler) GetValuations(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	var date time.Time
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := utils.ParseDate(raw)
		if err != nil {
			h.HandleErrors(w, utils.BadRequest(err.Error()))
			return
		}
		date = parsed
	}

	valuations, err := h.Controller.GetValuations(ctx, date)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, valuations, http.StatusOK)
}
