package media

import (
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Handler exposes the media service over HTTP. Every endpoint answers with a
// uniform {success: bool, ...} envelope; failures carry a human-readable
// error string.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the media endpoints on the given group.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/upload", h.Upload)
	r.POST("/upload-multiple", h.UploadMultiple)
	r.POST("/upload-with-thumbnails", h.UploadWithThumbnails)
	r.POST("/upload-multiple-with-thumbnails", h.UploadMultipleWithThumbnails)
	r.GET("/allowed-types", h.AllowedTypes)
	r.DELETE("/delete", h.Delete)
	r.GET("/get/*path", h.FileURL)
	r.GET("/download/*path", h.Download)
}

// Upload handles POST /media/upload
func (h *Handler) Upload(c *gin.Context) {
	cand, folder, ok := h.singleFileRequest(c)
	if !ok {
		return
	}

	url, err := h.svc.UploadSingle(c.Request.Context(), cand, folder)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "url": url})
}

// UploadMultiple handles POST /media/upload-multiple
func (h *Handler) UploadMultiple(c *gin.Context) {
	cands, folder, ok := h.multiFileRequest(c)
	if !ok {
		return
	}

	urls, err := h.svc.UploadMultiple(c.Request.Context(), cands, folder)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "urls": urls, "count": len(urls)})
}

// UploadWithThumbnails handles POST /media/upload-with-thumbnails
func (h *Handler) UploadWithThumbnails(c *gin.Context) {
	cand, folder, ok := h.singleFileRequest(c)
	if !ok {
		return
	}

	result, err := h.svc.UploadSingleWithThumbnails(c.Request.Context(), cand, folder)
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := gin.H{"success": true, "url": result.URL, "type": result.Kind}
	if result.Thumbnails != nil {
		resp["thumbnails"] = result.Thumbnails
	}
	if result.Metadata != nil {
		resp["metadata"] = result.Metadata
	}
	if result.ThumbnailWarning != "" {
		resp["thumbnailWarning"] = result.ThumbnailWarning
	}
	c.JSON(http.StatusOK, resp)
}

// UploadMultipleWithThumbnails handles POST /media/upload-multiple-with-thumbnails
func (h *Handler) UploadMultipleWithThumbnails(c *gin.Context) {
	cands, folder, ok := h.multiFileRequest(c)
	if !ok {
		return
	}

	items, summary, err := h.svc.UploadMultipleWithThumbnails(c.Request.Context(), cands, folder)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"files":   items,
		"count":   len(items),
		"summary": summary,
	})
}

// AllowedTypes handles GET /media/allowed-types
func (h *Handler) AllowedTypes(c *gin.Context) {
	images, videos := AllowedTypes()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"allowedTypes": gin.H{
			"images": images,
			"videos": videos,
		},
	})
}

// Delete handles DELETE /media/delete
func (h *Handler) Delete(c *gin.Context) {
	var req struct {
		Path string `json:"path" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "path is required"})
		return
	}

	ok := h.svc.Delete(c.Request.Context(), req.Path)
	c.JSON(http.StatusOK, gin.H{"success": ok})
}

// FileURL handles GET /media/get/*path
func (h *Handler) FileURL(c *gin.Context) {
	path := strings.TrimPrefix(c.Param("path"), "/")
	c.JSON(http.StatusOK, gin.H{"url": h.svc.FileURL(path)})
}

// Download handles GET /media/download/*path, streaming the object back.
func (h *Handler) Download(c *gin.Context) {
	path := strings.TrimPrefix(c.Param("path"), "/")

	reader, contentType, err := h.svc.Download(c.Request.Context(), path)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "file not found"})
		return
	}
	defer reader.Close()

	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	io.Copy(c.Writer, reader)
}

// singleFileRequest extracts the "file" form file and "folder" field.
func (h *Handler) singleFileRequest(c *gin.Context) (Candidate, string, bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "file is required"})
		return Candidate{}, "", false
	}

	folder := c.PostForm("folder")
	if folder == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "folder is required"})
		return Candidate{}, "", false
	}

	cand, err := candidateFromHeader(fileHeader)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "failed to read file"})
		return Candidate{}, "", false
	}
	return cand, folder, true
}

// multiFileRequest extracts the "files" form files (falling back to "file")
// and the "folder" field.
func (h *Handler) multiFileRequest(c *gin.Context) ([]Candidate, string, bool) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "failed to parse form"})
		return nil, "", false
	}

	fileHeaders := form.File["files"]
	if len(fileHeaders) == 0 {
		fileHeaders = form.File["file"]
	}
	if len(fileHeaders) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "files are required"})
		return nil, "", false
	}

	folder := c.PostForm("folder")
	if folder == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "folder is required"})
		return nil, "", false
	}

	cands := make([]Candidate, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		cand, err := candidateFromHeader(fh)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "failed to read file"})
			return nil, "", false
		}
		cands = append(cands, cand)
	}
	return cands, folder, true
}

func candidateFromHeader(fh *multipart.FileHeader) (Candidate, error) {
	f, err := fh.Open()
	if err != nil {
		return Candidate{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return Candidate{}, err
	}

	return Candidate{
		Name:      fh.Filename,
		MediaType: fh.Header.Get("Content-Type"),
		Data:      data,
	}, nil
}

func (h *Handler) respondError(c *gin.Context, err error) {
	var invalid *InvalidMediaTypeError
	if errors.As(err, &invalid) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": invalid.Error()})
		return
	}

	slog.ErrorContext(c.Request.Context(), "upload failed", "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "file upload failed"})
}
