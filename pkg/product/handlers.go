package product

import (
	"context"
	"net/http"

	"github.com/etc-team/bestellung/pkg/common"
	"github.com/etc-team/bestellung/pkg/logger"
	"github.com/etc-team/bestellung/pkg/odoo"
)

type iService interface {
	Sellable(ctx context.Context) ([]Product, error)
}

type Handler struct {
	service iService
}

func NewHandler(s iService) *Handler {
	return &Handler{
		service: s,
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.Sellable(r.Context())
	if err != nil {
		logger.Log(r.Context()).Errorf("product: products request failed, %v", err)
		common.WriteError(w, r, odoo.UserMessage(err), http.StatusInternalServerError)
		return
	}
	common.WriteRespJSON(w, r, http.StatusOK, products)
}
