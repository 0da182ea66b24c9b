package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/despensa/backend/internal/service"
	"github.com/pageza/despensa/backend/internal/types"
)

type MediaHandler struct {
	mediaService service.IMediaService
	requireAuth  gin.HandlerFunc
	responder
}

func NewMediaHandler(mediaService service.IMediaService, common Common) *MediaHandler {
	return &MediaHandler{
		mediaService: mediaService,
		requireAuth:  orPassThrough(common.RequireAuth),
		responder:    common.responder(),
	}
}

func (h *MediaHandler) RegisterRoutes(router *gin.RouterGroup) {
	media := router.Group("/media")
	media.Use(h.requireAuth)
	media.POST("/upload-url", h.CreateUploadURL)
}

// CreateUploadURL returns a presigned PUT URL; the client uploads straight to the bucket
func (h *MediaHandler) CreateUploadURL(c *gin.Context) {
	var req types.UploadURLRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.mediaService.CreateUploadURL(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
