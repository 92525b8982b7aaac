package v1

import (
	"net/http"

	"github.com/docflow/docflow/internal/api/dto"
	ierr "github.com/docflow/docflow/internal/errors"
	"github.com/docflow/docflow/internal/logger"
	"github.com/docflow/docflow/internal/service"
	"github.com/gin-gonic/gin"
)

type StaleHandler struct {
	service service.StaleService
	log     *logger.Logger
}

func NewStaleHandler(service service.StaleService, log *logger.Logger) *StaleHandler {
	return &StaleHandler{
		service: service,
		log:     log,
	}
}

// @Summary List stale documents
// @Description List documents whose status has not changed for longer than the stale threshold
// @Tags Stale
// @Produce json
// @Success 200 {object} dto.ListDocumentsResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /documents/stale [get]
func (h *StaleHandler) ListStale(c *gin.Context) {
	resp, err := h.service.ListStale(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Resolve a stale document
// @Description Apply the operator decision, either an explanation or removal
// @Tags Stale
// @Accept json
// @Produce json
// @Param id path string true "Document ID"
// @Param resolution body dto.ResolveStaleRequest true "Resolution"
// @Success 200 {object} dto.ResolveStaleResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 423 {object} ierr.ErrorResponse
// @Router /documents/{id}/resolve [post]
func (h *StaleHandler) ResolveStale(c *gin.Context) {
	id := c.Param("id")

	var req dto.ResolveStaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.ResolveStale(c.Request.Context(), id, req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Run a stale sweep
// @Description Trigger one pass of the stale monitor on demand
// @Tags Stale
// @Produce json
// @Success 200 {object} dto.StaleSweepResult
// @Failure 500 {object} ierr.ErrorResponse
// @Router /documents/stale/sweep [post]
func (h *StaleHandler) Sweep(c *gin.Context) {
	resp, err := h.service.Sweep(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
