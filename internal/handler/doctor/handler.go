package doctor

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/caresync/hospital-api/internal/handler"
	"github.com/caresync/hospital-api/internal/model"
	doctorService "github.com/caresync/hospital-api/internal/service/doctor"
	"github.com/caresync/hospital-api/pkg/httputil"
)

type Handler struct {
	service doctorService.DoctorService
}

func NewHandler(service doctorService.DoctorService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	doctors := r.Group("/doctors")
	{
		doctors.POST("", h.Register)
		doctors.GET("", h.List)
		doctors.GET("/:id", h.Get)
		doctors.PATCH("/:id", h.Update)
		doctors.DELETE("/:id", h.Delete)
	}
}

func (h *Handler) Register(c *gin.Context) {
	var req model.RegisterDoctorRequest
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
