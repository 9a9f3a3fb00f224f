package audit

import (
	"time"

	"github.com/gin-gonic/gin"

	auditService "github.com/caresync/hospital-api/internal/service/audit"
	"github.com/caresync/hospital-api/pkg/errors"
	"github.com/caresync/hospital-api/pkg/httputil"
)

type Handler struct {
	service *auditService.Service
}

func NewHandler(service *auditService.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/audit-logs", h.List)
}

// List returns audit entries, optionally narrowed by ?collection= and
// ?since= (RFC 3339).
func (h *Handler) List(c *gin.Context) {
	since := time.Time{}
	if raw := c.Query("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			httputil.RespondWithError(c, errors.Validation("since", "must be RFC 3339").WithOp("audit-list"))
			return
		}
		since = parsed
	}
	entries, err := h.service.List(c.Request.Context(), c.Query("collection"), since)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, entries)
}
