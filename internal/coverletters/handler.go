package coverletters

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"coverletter-backend/internal/shared/server/middleware"
	"coverletter-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches cover letter routes to the router group. Generative
// routes are wrapped with limit when it is non-nil.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, limit gin.HandlerFunc) {
	generative := func(handler gin.HandlerFunc) []gin.HandlerFunc {
		if limit == nil {
			return []gin.HandlerFunc{handler}
		}
		return []gin.HandlerFunc{limit, handler}
	}
	rg.POST("/cover-letters", generative(h.create)...)
	rg.GET("/cover-letters", h.list)
	rg.GET("/cover-letters/:id", h.get)
	rg.DELETE("/cover-letters/:id", h.delete)
	rg.POST("/cover-letters/:id/variants/:variantId/rewrite", generative(h.revise(h.Svc.Rewrite))...)
	rg.POST("/cover-letters/:id/variants/:variantId/shorten", generative(h.revise(h.Svc.Shorten))...)
	rg.POST("/cover-letters/:id/variants/:variantId/expand", generative(h.revise(h.Svc.Expand))...)
	rg.PUT("/cover-letters/:id/variants/:variantId", h.saveVariant)
	rg.POST("/cover-letters/:id/select", h.selectVariant)
	rg.POST("/cover-letters/:id/finalize", h.finalize)
}

func (h *Handler) create(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	doc, err := h.Svc.Create(c.Request.Context(), userID, JobParams{
		JobTitle:       req.JobTitle,
		CompanyName:    req.CompanyName,
		JobDescription: req.JobDescription,
		Tone:           req.Tone,
		Industry:       req.Industry,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	respond.Created(c, toResponse(doc))
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	limit := 20
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	if limit > 100 {
		limit = 100
	}

	docs, err := h.Svc.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}
	items := make([]SummaryResponse, 0, len(docs))
	for _, d := range docs {
		items = append(items, toSummary(d))
	}
	respond.OK(c, gin.H{"items": items, "limit": limit, "offset": offset})
}

func (h *Handler) get(c *gin.Context) {
	doc, err := h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, toResponse(doc))
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	respond.NoContent(c)
}

type reviseFunc func(ctx context.Context, ownerID, documentID, variantID string) (Document, error)

func (h *Handler) revise(fn reviseFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := fn(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), c.Param("variantId"))
		if err != nil {
			writeError(c, err)
			return
		}
		respond.OK(c, toResponse(doc))
	}
}

func (h *Handler) saveVariant(c *gin.Context) {
	var req SaveVariantRequest
	err := c.ShouldBindJSON(&req)
	req.Content = presentContent(req.Content)
	if err != nil || (req.Content == nil && !req.Finalize) {
		respond.Error(c, http.StatusBadRequest, "validation_error", "content or finalize is required", nil)
		return
	}
	doc, err := h.Svc.SaveVariant(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), c.Param("variantId"), req.Content, req.Finalize)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, toResponse(doc))
}

func (h *Handler) selectVariant(c *gin.Context) {
	var req SelectRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.VariantID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "variantId is required", nil)
		return
	}
	doc, err := h.Svc.SelectVariant(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), req.VariantID)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, toResponse(doc))
}

func (h *Handler) finalize(c *gin.Context) {
	var req FinalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.VariantID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "variantId is required", nil)
		return
	}
	doc, err := h.Svc.Finalize(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), req.VariantID, req.Content)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, toResponse(doc))
}

func writeError(c *gin.Context, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid cover letter request", verr.Fields)
	case errors.Is(err, ErrProfileRequired):
		respond.Error(c, http.StatusBadRequest, "profile_required", "complete your profile before generating", nil)
	case errors.Is(err, ErrDocumentNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "cover letter not found", nil)
	case errors.Is(err, ErrVariantNotFound):
		respond.Error(c, http.StatusNotFound, "variant_not_found", "variant not found", nil)
	case errors.Is(err, ErrDocumentFinalized):
		respond.Error(c, http.StatusConflict, "document_finalized", "cover letter is finalized; finalize again to change it", nil)
	case errors.Is(err, ErrAllVariantsFailed):
		respond.Error(c, http.StatusBadGateway, "generation_failed", "no cover letter variant could be generated", nil)
	case errors.Is(err, ErrGenerationFailed):
		respond.Error(c, http.StatusBadGateway, "generation_failed", "cover letter revision failed", nil)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respond.Error(c, http.StatusServiceUnavailable, "request_cancelled", "request cancelled", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to process cover letter", nil)
	}
}
