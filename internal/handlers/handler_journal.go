package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/middleware"
)

// journalHandler handles HTTP requests related to journal entries.
type journalHandler struct {
	postingService portssvc.PostingSvc
}

// newJournalHandler creates a new journalHandler.
func newJournalHandler(postingService portssvc.PostingSvc) *journalHandler {
	return &journalHandler{
		postingService: postingService,
	}
}

// postEntry godoc
// @Summary Post a balanced journal entry
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   entry body dto.PostEntryRequest true "Journal entry"
// @Success 201 {object} dto.PostingResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /journal-entries [post]
func (h *journalHandler) postEntry(c *gin.Context) {
	var req dto.PostEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	draft, err := req.ToDraft()
	if err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.postingService.Post(c.Request.Context(), draft, req.ActorID)
	if err != nil {
		respondError(c, err, "Failed to post journal entry")
		return
	}

	c.JSON(http.StatusCreated, dto.ToPostingResponse(result))
}

// listEntries godoc
// @Summary List journal entries, newest first
// @Tags journal-entries
// @Produce  json
// @Param   tenantId query string false "Tenant"
// @Param   limit query int false "Page size (max 100)"
// @Param   nextToken query string false "Cursor from the previous page"
// @Success 200 {object} dto.ListJournalEntriesResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /journal-entries [get]
func (h *journalHandler) listEntries(c *gin.Context) {
	var q dto.ListEntriesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.postingService.ListEntries(c.Request.Context(), dto.TenantScope(q.TenantID), toListParams(q))
	if err != nil {
		respondError(c, err, "Failed to list journal entries")
		return
	}

	c.JSON(http.StatusOK, dto.ToListJournalEntriesResponse(result))
}

// getEntry godoc
// @Summary Get a journal entry with its lines
// @Tags journal-entries
// @Produce  json
// @Param   entryID path string true "Entry ID"
// @Param   tenantId query string false "Tenant"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /journal-entries/{entryID} [get]
func (h *journalHandler) getEntry(c *gin.Context) {
	var q dto.TenantQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}
	entryID := c.Param("entryID")

	entry, err := h.postingService.GetEntry(c.Request.Context(), dto.TenantScope(q.TenantID), entryID)
	if err != nil {
		respondError(c, err, "Failed to retrieve journal entry")
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// reverseEntry godoc
// @Summary Reverse a posted journal entry
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   entryID path string true "Entry ID"
// @Param   body body dto.ReverseEntryRequest false "Reason and actor"
// @Success 201 {object} dto.PostingResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /journal-entries/{entryID}/reverse [post]
func (h *journalHandler) reverseEntry(c *gin.Context) {
	var req dto.ReverseEntryRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
	}
	entryID := c.Param("entryID")

	result, err := h.postingService.Reverse(c.Request.Context(), dto.TenantScope(req.TenantID), entryID, req.Reason, req.ActorID)
	if err != nil {
		respondError(c, err, "Failed to reverse journal entry")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Journal entry reversed via API",
		slog.String("entry_id", entryID),
		slog.String("reversal_entry_id", result.EntryID))
	c.JSON(http.StatusCreated, dto.ToPostingResponse(result))
}

// reconcileEntry godoc
// @Summary Finish a reversal whose status update was lost
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   entryID path string true "Entry ID"
// @Param   body body dto.ReconcileEntryRequest false "Actor"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /journal-entries/{entryID}/reconcile [post]
func (h *journalHandler) reconcileEntry(c *gin.Context) {
	var req dto.ReconcileEntryRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
	}

	entry, err := h.postingService.ReconcileReversal(c.Request.Context(), dto.TenantScope(req.TenantID), c.Param("entryID"), req.ActorID)
	if err != nil {
		respondError(c, err, "Failed to reconcile journal entry")
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// RegisterJournalRoutes registers journal entry routes on group.
func RegisterJournalRoutes(group *gin.RouterGroup, postingService portssvc.PostingSvc) {
	registerValidators()
	h := newJournalHandler(postingService)

	entries := group.Group("/journal-entries")
	{
		entries.POST("", h.postEntry)
		entries.GET("", h.listEntries)
		entries.GET("/:entryID", h.getEntry)
		entries.POST("/:entryID/reverse", h.reverseEntry)
		entries.POST("/:entryID/reconcile", h.reconcileEntry)
	}
}

func toListParams(q dto.ListEntriesQuery) domain.ListEntriesParams {
	return domain.ListEntriesParams{Limit: q.Limit, NextToken: q.NextToken}
}
