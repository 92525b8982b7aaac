package v1

import (
	"net/http"

	"github.com/docflow/docflow/internal/api/dto"
	ierr "github.com/docflow/docflow/internal/errors"
	"github.com/docflow/docflow/internal/logger"
	"github.com/docflow/docflow/internal/service"
	"github.com/gin-gonic/gin"
)

type ArchiveHandler struct {
	service service.ArchiveService
	log     *logger.Logger
}

func NewArchiveHandler(service service.ArchiveService, log *logger.Logger) *ArchiveHandler {
	return &ArchiveHandler{
		service: service,
		log:     log,
	}
}

// @Summary Insert a document from the archive
// @Description Register an already-signed paper document, bypassing the approval chain
// @Tags Archive
// @Accept json
// @Produce json
// @Param document body dto.DirectInsertRequest true "Document"
// @Success 201 {object} dto.DocumentResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Failure 422 {object} ierr.ErrorResponse
// @Router /documents/archive [post]
func (h *ArchiveHandler) DirectInsert(c *gin.Context) {
	var req dto.DirectInsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.DirectInsert(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}
