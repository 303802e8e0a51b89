package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"video-subtitles/constant"
	"video-subtitles/dto"
	"video-subtitles/entities"
	"video-subtitles/service"
)

const streamCacheControl = "public, max-age=31536000"

type Http struct {
	svc service.Service
}

func NewHttp(svc service.Service) *Http {
	return &Http{svc: svc}
}

func (h *Http) Register(r *gin.Engine) {
	api := r.Group("/api")
	api.POST("/upload", h.Upload)
	api.GET("/videos", h.List)
	api.GET("/video/:id", h.Get)
	api.DELETE("/video/:id", h.Delete)
	api.GET("/stream/:id", h.Stream)
	api.GET("/subtitles/:id", h.Subtitles)
}

func (h *Http) Upload(c *gin.Context) {
	file, err := c.FormFile("video")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no video file"})
		return
	}

	title := c.PostForm("title")
	if title == "" {
		title = file.Filename
	}

	media, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no video file"})
		return
	}
	defer media.Close()

	item, err := h.svc.Submit(c.Request.Context(), media, file.Size, file.Header.Get("Content-Type"), title)
	if err != nil {
		if errors.Is(err, entities.ErrEmptyMedia) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no video file"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.UploadResponse{
		Id:     item.ID,
		Status: constant.ItemStatusProcessing.String(),
	})
}

func (h *Http) Get(c *gin.Context) {
	id, ok := itemId(c)
	if !ok {
		return
	}

	item, err := h.svc.GetItem(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "video not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *Http) List(c *gin.Context) {
	items, err := h.svc.ListItems(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"videos": items})
}

func (h *Http) Delete(c *gin.Context) {
	id, ok := itemId(c)
	if !ok {
		return
	}

	if err := h.svc.DeleteItem(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Http) Stream(c *gin.Context) {
	id, ok := itemId(c)
	if !ok {
		return
	}

	blob, info, err := h.svc.StreamBlob(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "video not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer blob.Close()

	contentType := info.ContentType
	if contentType == "" {
		contentType = "video/mp4"
	}
	c.DataFromReader(http.StatusOK, info.Size, contentType, blob, map[string]string{
		"Cache-Control": streamCacheControl,
	})
}

func (h *Http) Subtitles(c *gin.Context) {
	id, ok := itemId(c)
	if !ok {
		return
	}

	item, err := h.svc.GetItem(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "video not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if item.Status != constant.ItemStatusReady {
		c.JSON(http.StatusNotFound, gin.H{"error": "subtitles not ready"})
		return
	}

	c.Data(http.StatusOK, "text/vtt; charset=utf-8", []byte(item.Subtitles))
}

func itemId(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid video ID"})
		return uuid.Nil, false
	}
	return id, true
}
