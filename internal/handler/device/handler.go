package device

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/caresync/hospital-api/internal/handler"
	"github.com/caresync/hospital-api/internal/model"
	deviceService "github.com/caresync/hospital-api/internal/service/device"
	"github.com/caresync/hospital-api/pkg/httputil"
)

type Handler struct {
	service deviceService.DeviceService
}

func NewHandler(service deviceService.DeviceService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	devices := r.Group("/devices")
	{
		devices.POST("", h.Register)
		devices.GET("", h.List)
		devices.GET("/:id", h.Get)
		devices.PATCH("/:id", h.Update)
		devices.DELETE("/:id", h.Delete)
		devices.POST("/:id/assign", h.Assign)
		devices.POST("/:id/unassign", h.Unassign)
	}
}

type assignRequest struct {
	Patient string `json:"patient" binding:"required"`
}

func (h *Handler) Register(c *gin.Context) {
	var req model.RegisterDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httputil.Response{Success: false, Error: err.Error()})
		return
	}
	doc, err := h.service.Register(c.Request.Context(), &req, handler.Requester(c))
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

func (h *Handler) Assign(c *gin.Context) {
	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httputil.Response{Success: false, Error: err.Error()})
		return
	}
	if err := h.service.Assign(c.Request.Context(), c.Param("id"), req.Patient, handler.Requester(c)); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"device": c.Param("id"), "patient": req.Patient})
}

func (h *Handler) Unassign(c *gin.Context) {
	if err := h.service.Unassign(c.Request.Context(), c.Param("id"), handler.Requester(c)); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"device": c.Param("id")})
}
