package v1

import (
	"net/http"

	"github.com/docflow/docflow/internal/api/dto"
	ierr "github.com/docflow/docflow/internal/errors"
	"github.com/docflow/docflow/internal/logger"
	"github.com/docflow/docflow/internal/service"
	"github.com/docflow/docflow/internal/types"
	"github.com/gin-gonic/gin"
)

type DocumentHandler struct {
	service service.DocumentService
	log     *logger.Logger
}

func NewDocumentHandler(service service.DocumentService, log *logger.Logger) *DocumentHandler {
	return &DocumentHandler{
		service: service,
		log:     log,
	}
}

// @Summary Create a document
// @Description Create a document in draft status at the head of the approval chain
// @Tags Documents
// @Accept json
// @Produce json
// @Param document body dto.CreateDocumentRequest true "Document"
// @Success 201 {object} dto.DocumentResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Router /documents [post]
func (h *DocumentHandler) CreateDocument(c *gin.Context) {
	var req dto.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CreateDocument(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Get a document
// @Description Get a document by id
// @Tags Documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} dto.DocumentResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /documents/{id} [get]
func (h *DocumentHandler) GetDocument(c *gin.Context) {
	id := c.Param("id")

	resp, err := h.service.GetDocument(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary List documents
// @Description List documents with optional filtering
// @Tags Documents
// @Produce json
// @Param filter query types.DocumentFilter false "Filter"
// @Success 200 {object} dto.ListDocumentsResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /documents [get]
func (h *DocumentHandler) ListDocuments(c *gin.Context) {
	var filter types.DocumentFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid filter parameters").
			Mark(ierr.ErrValidation))
		return
	}
	if filter.QueryFilter == nil {
		filter.QueryFilter = types.NewDefaultQueryFilter()
	}

	resp, err := h.service.ListDocuments(c.Request.Context(), &filter)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Advance a document
// @Description Move a document one step forward along the approval chain
// @Tags Documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} dto.DocumentResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Failure 423 {object} ierr.ErrorResponse
// @Router /documents/{id}/advance [post]
func (h *DocumentHandler) AdvanceDocument(c *gin.Context) {
	id := c.Param("id")

	resp, err := h.service.AdvanceDocument(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Set a document status
// @Description Correct a document status to a later status in the chain
// @Tags Documents
// @Accept json
// @Produce json
// @Param id path string true "Document ID"
// @Param status body dto.UpdateDocumentStatusRequest true "Status"
// @Success 200 {object} dto.DocumentResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Router /documents/{id}/status [put]
func (h *DocumentHandler) SetDocumentStatus(c *gin.Context) {
	id := c.Param("id")

	var req dto.UpdateDocumentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}
	if err := req.Validate(); err != nil {
		c.Error(err)
		return
	}

	resp, err := h.service.SetDocumentStatus(c.Request.Context(), id, req.Normalized())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Delete a draft document
// @Description Delete a document that has not yet entered the approval chain
// @Tags Documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 204
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /documents/{id} [delete]
func (h *DocumentHandler) DeleteDraft(c *gin.Context) {
	id := c.Param("id")

	if err := h.service.DeleteDraft(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Attach a scan
// @Description Upload the scan of the signed paper document
// @Tags Documents
// @Accept json
// @Produce json
// @Param id path string true "Document ID"
// @Param scan body dto.AttachScanRequest true "Scan"
// @Success 200 {object} dto.DocumentResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /documents/{id}/scan [post]
func (h *DocumentHandler) AttachScan(c *gin.Context) {
	id := c.Param("id")

	var req dto.AttachScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.AttachScan(c.Request.Context(), id, req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Get blocked dates
// @Description List the days already covered by pending leave documents of a person
// @Tags Staff
// @Produce json
// @Param id path string true "Staff ID"
// @Success 200 {array} dto.BlockedDateResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /staff/{id}/blocked-dates [get]
func (h *DocumentHandler) GetBlockedDates(c *gin.Context) {
	staffID := c.Param("id")

	resp, err := h.service.GetBlockedDates(c.Request.Context(), staffID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
