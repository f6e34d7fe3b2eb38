package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/fotherbys-backend/internal/domain"
	"github.com/yungbote/fotherbys-backend/internal/http/response"
	"github.com/yungbote/fotherbys-backend/internal/services"
)

type AuctionHandler struct {
	auctions  services.AuctionService
	catalogue services.CatalogueService
}

func NewAuctionHandler(auctions services.AuctionService, catalogue services.CatalogueService) *AuctionHandler {
	return &AuctionHandler{auctions: auctions, catalogue: catalogue}
}

// GET /api/auctions?status=Upcoming|Completed&archived_only=true
func (h *AuctionHandler) List(c *gin.Context) {
	var filter services.AuctionListFilter
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		st, ok := types.ParseAuctionStatus(raw)
		if !ok {
			response.RespondError(c, http.StatusBadRequest, "invalid_status", fmt.Errorf("unknown auction status %q", raw))
			return
		}
		filter.Status = st
	}
	archivedOnly, err := queryBool(c, "archived_only")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	filter.ArchivedOnly = archivedOnly

	out, err := h.auctions.List(c.Request.Context(), filter)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// POST /api/auctions
func (h *AuctionHandler) Create(c *gin.Context) {
	var req services.AuctionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	a, err := h.auctions.Create(c.Request.Context(), req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, a)
}

// GET /api/auctions/:id
func (h *AuctionHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id", "invalid_auction_id")
	if !ok {
		return
	}
	a, err := h.auctions.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, a)
}

// PUT /api/auctions/:id
func (h *AuctionHandler) Update(c *gin.Context) {
	id, ok := pathUUID(c, "id", "invalid_auction_id")
	if !ok {
		return
	}
	var patch services.AuctionPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	a, err := h.auctions.Update(c.Request.Context(), id, patch)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, a)
}

// DELETE /api/auctions/:id
func (h *AuctionHandler) Delete(c *gin.Context) {
	id, ok := pathUUID(c, "id", "invalid_auction_id")
	if !ok {
		return
	}
	if err := h.auctions.Delete(c.Request.Context(), id); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "Auction deleted"})
}

// PUT /api/auctions/:id/archive
func (h *AuctionHandler) Archive(c *gin.Context) { h.setArchived(c, true) }

// PUT /api/auctions/:id/unarchive
func (h *AuctionHandler) Unarchive(c *gin.Context) { h.setArchived(c, false) }

func (h *AuctionHandler) setArchived(c *gin.Context, archived bool) {
	id, ok := pathUUID(c, "id", "invalid_auction_id")
	if !ok {
		return
	}
	a, err := h.auctions.SetArchived(c.Request.Context(), id, archived)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	msg := "Auction unarchived"
	if archived {
		msg = "Auction archived"
	}
	response.RespondOK(c, gin.H{"message": msg, "auction": a})
}

// POST /api/auctions/:id/generate-pdf
func (h *AuctionHandler) GeneratePDF(c *gin.Context) {
	id, ok := pathUUID(c, "id", "invalid_auction_id")
	if !ok {
		return
	}
	pdf, err := h.catalogue.GeneratePDF(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, pdf.Filename))
	c.Data(http.StatusOK, "application/pdf", pdf.Data)
}
