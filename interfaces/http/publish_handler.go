package http

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"social-relay/domain/dto"
	"social-relay/infrastructure/logger"
	"social-relay/usecase"
)

// maxVideoBytes caps the multipart form held in memory for an upload.
const maxVideoBytes = 256 << 20

type IPublishHandler interface {
	LinkedInPost(c *gin.Context)
	FacebookPost(c *gin.Context)
	YouTubeUpload(c *gin.Context)
}

type publishHandler struct {
	publishUsecase usecase.IPublishUsecase
}

func NewPublishHandler(publishUsecase usecase.IPublishUsecase) IPublishHandler {
	return &publishHandler{publishUsecase: publishUsecase}
}

func (h *publishHandler) LinkedInPost(c *gin.Context) {
	var req dto.TextPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while unmarshal")
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_failed", "details": err.Error()})
		return
	}
	res, err := h.publishUsecase.PublishText(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": res})
}

func (h *publishHandler) FacebookPost(c *gin.Context) {
	var req dto.PagePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while unmarshal")
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_failed", "details": err.Error()})
		return
	}
	res, err := h.publishUsecase.PublishPagePost(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": res})
}

// YouTubeUpload reads a multipart form with accessToken, title,
// description, scheduledAt (RFC 3339) and a "video" file part. The
// file is buffered whole before the upstream call.
func (h *publishHandler) YouTubeUpload(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(maxVideoBytes); err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while parsing multipart form")
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_failed", "details": err.Error()})
		return
	}
	accessToken := c.PostForm("accessToken")
	video := &dto.VideoUpload{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
	}
	if raw := c.PostForm("scheduledAt"); raw != "" {
		at, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation_failed", "details": "scheduledAt must be RFC 3339"})
			return
		}
		video.ScheduledAt = &at
	}

	file, header, err := c.Request.FormFile("video")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_failed", "details": "missing video file"})
		return
	}
	defer file.Close()
	video.Bytes, err = io.ReadAll(file)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while reading video part")
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_failed", "details": err.Error()})
		return
	}
	video.FileName = header.Filename
	video.ContentType = header.Header.Get("Content-Type")

	res, err := h.publishUsecase.UploadVideo(c.Request.Context(), accessToken, video)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": res})
}
