package handler

import (
	"net/http"

	"caterops/internal/middleware"
	"caterops/internal/repository"
	"caterops/internal/service"
	"caterops/pkg/pagination"
	"caterops/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type QuoteHandler struct {
	quoteService service.QuoteService
}

func NewQuoteHandler(quoteService service.QuoteService) *QuoteHandler {
	return &QuoteHandler{quoteService: quoteService}
}

func (h *QuoteHandler) RegisterRoutes(router *gin.RouterGroup) {
	quotes := router.Group("/api/quotes")
	{
		quotes.POST("/preview", middleware.RequirePermission("quotes.read"), h.PreviewQuote)
		quotes.GET("", middleware.RequirePermission("quotes.read"), h.ListQuotes)
		quotes.GET("/:id", middleware.RequirePermission("quotes.read"), h.GetQuote)
		quotes.GET("/:id/verify", middleware.RequirePermission("quotes.read"), h.VerifyQuote)
		quotes.POST("", middleware.RequirePermission("quotes.write"), h.CreateQuote)
		quotes.PUT("/:id", middleware.RequirePermission("quotes.write"), h.UpdateQuote)
		quotes.DELETE("/:id", middleware.RequirePermission("quotes.write"), h.DeleteQuote)
		quotes.PUT("/:id/approve", middleware.RequirePermission("quotes.approve"), h.ApproveQuote)
		quotes.PUT("/:id/reject", middleware.RequirePermission("quotes.approve"), h.RejectQuote)
	}
}

// PreviewQuote runs the pricing engine on a draft without persisting anything
// @Summary      Preview quote computation
// @Description  Computes subtotals, margin, retention and total for a draft. Nothing is saved — this is the live calculator path.
// @Tags         quotes
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.QuoteDraftRequest  true  "Draft payload"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/quotes/preview [post]
func (h *QuoteHandler) PreviewQuote(c *gin.Context) {
	var req service.QuoteDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	computation, err := h.quoteService.PreviewQuote(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, computation))
}

// ListQuotes returns paginated quotes with optional status/number/client filters
// @Summary      List quotes
// @Tags         quotes
// @Security     BearerAuth
// @Produce      json
// @Param        page       query  int     false  "Page number (default: 1)"
// @Param        limit      query  int     false  "Items per page (default: 20)"
// @Param        status     query  string  false  "Filter by status (DRAFT, PENDING, APPROVED, REJECTED)"
// @Param        quote_no   query  string  false  "Search by quote number"
// @Param        client_id  query  string  false  "Filter by client"
// @Success      200  {object}  response.Response
// @Router       /api/quotes [get]
func (h *QuoteHandler) ListQuotes(c *gin.Context) {
	params := pagination.Parse(c)

	filter := repository.QuoteListFilter{
		Status:  c.Query("status"),
		QuoteNo: c.Query("quote_no"),
		Page:    params.Page,
		Limit:   params.Limit,
	}
	if raw := c.Query("client_id"); raw != "" {
		cid, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid client_id"))
			return
		}
		filter.ClientID = &cid
	}

	quotes, total, err := h.quoteService.GetQuotes(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, quotes, params.Page, params.Limit, total))
}

// GetQuote returns one quote with selections and the persisted breakdown
// @Summary      Get quote
// @Tags         quotes
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Quote ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/quotes/{id} [get]
func (h *QuoteHandler) GetQuote(c *gin.Context) {
	quote, err := h.quoteService.GetQuote(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, quote))
}

// VerifyQuote replays the assembly over stored line items and compares totals
// @Summary      Verify stored quote total
// @Description  Re-runs the assembly over the persisted line items and terms and reports whether the stored total still matches.
// @Tags         quotes
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Quote ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/quotes/{id}/verify [get]
func (h *QuoteHandler) VerifyQuote(c *gin.Context) {
	result, err := h.quoteService.VerifyQuote(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// CreateQuote computes and persists a quote draft in one transaction
// @Summary      Create quote
// @Tags         quotes
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.QuoteDraftRequest  true  "Draft payload"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/quotes [post]
func (h *QuoteHandler) CreateQuote(c *gin.Context) {
	var req service.QuoteDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	quote, err := h.quoteService.CreateQuote(c.Request.Context(), req, currentUserID(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, quote))
}

// UpdateQuote recomputes and rewrites a quote's selections and breakdown
// @Summary      Update quote
// @Tags         quotes
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                     true  "Quote ID"
// @Param        payload  body  service.QuoteDraftRequest  true  "Draft payload"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/quotes/{id} [put]
func (h *QuoteHandler) UpdateQuote(c *gin.Context) {
	id := c.Param("id")

	var req service.QuoteDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	quote, err := h.quoteService.UpdateQuote(c.Request.Context(), id, req, currentUserID(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, quote))
}

// DeleteQuote deletes a non-approved quote (soft delete)
// @Summary      Delete quote
// @Tags         quotes
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Quote ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/quotes/{id} [delete]
func (h *QuoteHandler) DeleteQuote(c *gin.Context) {
	if err := h.quoteService.DeleteQuote(c.Request.Context(), c.Param("id"), currentUserID(c)); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Quote deleted successfully"}))
}

// ApproveQuote marks a quote as approved by the current user
// @Summary      Approve quote
// @Tags         quotes
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Quote ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/quotes/{id}/approve [put]
func (h *QuoteHandler) ApproveQuote(c *gin.Context) {
	quote, err := h.quoteService.ApproveQuote(c.Request.Context(), c.Param("id"), currentUserID(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, quote))
}

// RejectQuote marks a quote as rejected with a reason
// @Summary      Reject quote
// @Tags         quotes
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                      true  "Quote ID"
// @Param        payload  body  service.RejectQuoteRequest  true  "Rejection reason"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/quotes/{id}/reject [put]
func (h *QuoteHandler) RejectQuote(c *gin.Context) {
	var req service.RejectQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	quote, err := h.quoteService.RejectQuote(c.Request.Context(), c.Param("id"), req.Reason, currentUserID(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, quote))
}
