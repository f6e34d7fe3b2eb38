package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/fotherbys-backend/internal/http/response"
	"github.com/yungbote/fotherbys-backend/internal/modules/valuation"
	"github.com/yungbote/fotherbys-backend/internal/services"
)

type CatalogueHandler struct {
	catalogue services.CatalogueService
}

func NewCatalogueHandler(catalogue services.CatalogueService) *CatalogueHandler {
	return &CatalogueHandler{catalogue: catalogue}
}

// GET /api/catalogue/search?q&location&auction_type&category&auction_date
func (h *CatalogueHandler) Search(c *gin.Context) {
	out, err := h.catalogue.Search(c.Request.Context(), services.CatalogueSearch{
		Query:       c.Query("q"),
		Location:    c.Query("location"),
		AuctionType: c.Query("auction_type"),
		Category:    c.Query("category"),
		AuctionDate: c.Query("auction_date"),
	})
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/categories
func (h *CatalogueHandler) Categories(c *gin.Context) {
	out, err := h.catalogue.Categories(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// POST /api/calculate-commission
func (h *CatalogueHandler) CalculateCommission(c *gin.Context) {
	var req struct {
		HammerPrice           float64  `json:"hammer_price"`
		BuyersPremiumRate     *float64 `json:"buyers_premium_rate"`
		SellersCommissionRate *float64 `json:"sellers_commission_rate"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	rates := valuation.DefaultRates()
	if req.BuyersPremiumRate != nil {
		rates.BuyersPremium = *req.BuyersPremiumRate
	}
	if req.SellersCommissionRate != nil {
		rates.SellersCommission = *req.SellersCommissionRate
	}
	s, err := valuation.CalculateCommission(req.HammerPrice, rates)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, s)
}
