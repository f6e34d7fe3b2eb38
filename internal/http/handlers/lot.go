package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/fotherbys-backend/internal/http/response"
	"github.com/yungbote/fotherbys-backend/internal/services"
)

type LotHandler struct {
	lots services.LotService
}

func NewLotHandler(lots services.LotService) *LotHandler {
	return &LotHandler{lots: lots}
}

// GET /api/lots/suggest-triage?estimate_low=
func (h *LotHandler) SuggestTriage(c *gin.Context) {
	raw, ok := c.GetQuery("estimate_low")
	if !ok {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("estimate_low is required"))
		return
	}
	response.RespondOK(c, h.lots.SuggestTriage(raw))
}

// GET /api/lots?auction_id&status&artist&category&archived_only
func (h *LotHandler) List(c *gin.Context) {
	auctionID, err := queryUUID(c, "auction_id")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	archivedOnly, err := queryBool(c, "archived_only")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	out, err := h.lots.List(c.Request.Context(), services.LotListFilter{
		AuctionID:    auctionID,
		Status:       c.Query("status"),
		Artist:       strings.TrimSpace(c.Query("artist")),
		Category:     strings.TrimSpace(c.Query("category")),
		ArchivedOnly: archivedOnly,
	})
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// POST /api/lots
func (h *LotHandler) Create(c *gin.Context) {
	var req services.LotInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	lot, err := h.lots.Create(c.Request.Context(), req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, lot)
}

// GET /api/lots/:id
func (h *LotHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id", "invalid_lot_id")
	if !ok {
		return
	}
	lot, err := h.lots.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, lot)
}

// PUT /api/lots/:id
func (h *LotHandler) Update(c *gin.Context) {
	id, ok := pathUUID(c, "id", "invalid_lot_id")
	if !ok {
		return
	}
	var patch services.LotPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	lot, err := h.lots.Update(c.Request.Context(), id, patch)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, lot)
}

// DELETE /api/lots/:id
func (h *LotHandler) Delete(c *gin.Context) {
	id, ok := pathUUID(c, "id", "invalid_lot_id")
	if !ok {
		return
	}
	if err := h.lots.Delete(c.Request.Context(), id); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "Lot deleted"})
}

// PUT /api/lots/:id/assign-auction?auction_id=
func (h *LotHandler) AssignAuction(c *gin.Context) {
	id, ok := pathUUID(c, "id", "invalid_lot_id")
	if !ok {
		return
	}
	auctionID, err := queryUUID(c, "auction_id")
	if err == nil && auctionID == nil {
		err = errors.New("auction_id is required")
	}
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	lot, err := h.lots.AssignAuction(c.Request.Context(), id, *auctionID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "Lot assigned successfully", "lot": lot})
}

// PUT /api/lots/:id/withdraw
func (h *LotHandler) Withdraw(c *gin.Context) {
	id, ok := pathUUID(c, "id", "invalid_lot_id")
	if !ok {
		return
	}
	res, err := h.lots.Withdraw(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, res)
}

// POST /api/lots/:id/complete-sale?hammer_price=&buyer_id=
// A JSON body with the same fields is accepted instead of the query string.
func (h *LotHandler) CompleteSale(c *gin.Context) {
	id, ok := pathUUID(c, "id", "invalid_lot_id")
	if !ok {
		return
	}
	var in services.SaleInput
	hammer, err := queryFloat(c, "hammer_price")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if hammer != nil {
		in.HammerPrice = *hammer
		if in.BuyerID, err = queryUUID(c, "buyer_id"); err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
			return
		}
	} else {
		if c.Request.ContentLength == 0 {
			response.RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("hammer_price is required"))
			return
		}
		if err := c.ShouldBindJSON(&in); err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
			return
		}
	}
	res, err := h.lots.CompleteSale(c.Request.Context(), id, in)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, res)
}

// PUT /api/lots/:id/archive
func (h *LotHandler) Archive(c *gin.Context) { h.setArchived(c, true) }

// PUT /api/lots/:id/unarchive
func (h *LotHandler) Unarchive(c *gin.Context) { h.setArchived(c, false) }

func (h *LotHandler) setArchived(c *gin.Context, archived bool) {
	id, ok := pathUUID(c, "id", "invalid_lot_id")
	if !ok {
		return
	}
	lot, err := h.lots.SetArchived(c.Request.Context(), id, archived)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	msg := "Lot unarchived"
	if archived {
		msg = "Lot archived"
	}
	response.RespondOK(c, gin.H{"message": msg, "lot": lot})
}

// GET /api/clients/:id/lots
func (h *LotHandler) ListForClient(c *gin.Context) {
	id, ok := pathUUID(c, "id", "invalid_client_id")
	if !ok {
		return
	}
	out, err := h.lots.ListForClient(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, out)
}
