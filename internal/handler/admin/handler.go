package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/caresync/hospital-api/internal/handler"
	"github.com/caresync/hospital-api/internal/model"
	adminService "github.com/caresync/hospital-api/internal/service/admin"
	"github.com/caresync/hospital-api/pkg/httputil"
)

type Handler struct {
	service adminService.AdminService
}

func NewHandler(service adminService.AdminService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	admins := r.Group("/admins")
	{
		admins.POST("", h.Register)
		admins.GET("", h.List)
		admins.GET("/:id", h.Get)
		admins.PATCH("/:id", h.Update)
		admins.DELETE("/:id", h.Delete)
	}
}

func (h *Handler) Register(c *gin.Context) {
	var req model.RegisterAdminRequest
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
