package crm

import (
	"context"
	"net/http"

	"github.com/etc-team/bestellung/pkg/common"
	"github.com/etc-team/bestellung/pkg/logger"
	"github.com/etc-team/bestellung/pkg/odoo"
)

type iService interface {
	Opportunities(ctx context.Context) ([]Opportunity, error)
	Leads(ctx context.Context) ([]Lead, error)
}

type Handler struct {
	service iService
}

func NewHandler(s iService) *Handler {
	return &Handler{
		service: s,
	}
}

func (h *Handler) Opportunities(w http.ResponseWriter, r *http.Request) {
	opps, err := h.service.Opportunities(r.Context())
	if err != nil {
		logger.Log(r.Context()).Errorf("crm: opportunities request failed, %v", err)
		common.WriteError(w, r, odoo.UserMessage(err), http.StatusInternalServerError)
		return
	}
	common.WriteRespJSON(w, r, http.StatusOK, opps)
}

func (h *Handler) Leads(w http.ResponseWriter, r *http.Request) {
	leads, err := h.service.Leads(r.Context())
	if err != nil {
		logger.Log(r.Context()).Errorf("crm: leads request failed, %v", err)
		common.WriteError(w, r, odoo.UserMessage(err), http.StatusInternalServerError)
		return
	}
	common.WriteRespJSON(w, r, http.StatusOK, leads)
}
