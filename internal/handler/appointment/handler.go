package appointment

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/caresync/hospital-api/internal/handler"
	"github.com/caresync/hospital-api/internal/model"
	appointmentService "github.com/caresync/hospital-api/internal/service/appointment"
	"github.com/caresync/hospital-api/pkg/httputil"
)

type Handler struct {
	service appointmentService.AppointmentService
}

func NewHandler(service appointmentService.AppointmentService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.POST("", h.Create)
		appointments.GET("", h.List)
		appointments.GET("/:id", h.Get)
		appointments.PATCH("/:id", h.Update)
		appointments.DELETE("/:id", h.Delete)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httputil.Response{Success: false, Error: err.Error()})
		return
	}
	doc, err := h.service.Create(c.Request.Context(), &req, handler.Requester(c))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, doc)
}

func (h *Handler) Get(c *gin.Context) {
	mode, err := handler.Mode(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	doc, err := h.service.Get(c.Request.Context(), c.Param("id"), handler.Requester(c), mode)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, doc)
}

func (h *Handler) List(c *gin.Context) {
	mode, err := handler.Mode(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	docs, err := h.service.List(c.Request.Context(), handler.Requester(c), mode)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, docs)
}

func (h *Handler) Update(c *gin.Context) {
	fields, err := handler.BindUpdate(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, httputil.Response{Success: false, Error: err.Error()})
		return
	}
	doc, err := h.service.Update(c.Request.Context(), c.Param("id"), fields, handler.Requester(c))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, doc)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), handler.Requester(c)); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"deleted": c.Param("id")})
}
