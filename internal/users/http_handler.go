package users

import (
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/OpenHomes/homestead/internal/media"
	"github.com/OpenHomes/homestead/utils"
)

// uploadFolder is the storage folder for user profile images.
const uploadFolder = "users"

type Handler struct {
	svc   *Service
	media *media.Service
}

func NewHandler(svc *Service, mediaSvc *media.Service) *Handler {
	return &Handler{svc: svc, media: mediaSvc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/register", h.Register)
	r.GET("", h.List)
	r.GET("/:id", h.Get)
	r.PATCH("/:id/profile-image", h.UpdateProfileImage)
}

// Register handles POST /users/register. The profile image file is optional;
// when present it is uploaded before the record insert.
func (h *Handler) Register(c *gin.Context) {
	name := c.PostForm("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Name is required"})
		return
	}

	var imageURL *string
	if fileHeader, err := c.FormFile("file"); err == nil {
		cand, err := candidateFromHeader(c, fileHeader)
		if err != nil {
			return
		}
		url, err := h.media.UploadSingle(c.Request.Context(), cand, uploadFolder)
		if err != nil {
			h.respondUploadError(c, err)
			return
		}
		imageURL = &url
	}

	person, err := h.svc.Register(c.Request.Context(), name, imageURL)
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "failed to register user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to register user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"user":            person,
			"hasProfileImage": imageURL != nil,
		},
	})
}

// List handles GET /users
func (h *Handler) List(c *gin.Context) {
	offset, limit := utils.GetPaginationParams(queryInt(c, "offset"), queryInt(c, "limit"))

	people, total, err := h.svc.List(c.Request.Context(), offset, limit)
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "failed to list users", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"users": people,
			"count": total,
		},
	})
}

// Get handles GET /users/:id
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid user ID"})
		return
	}

	person, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "User not found"})
			return
		}
		slog.ErrorContext(c.Request.Context(), "failed to get user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"user": person}})
}

// UpdateProfileImage handles PATCH /users/:id/profile-image
func (h *Handler) UpdateProfileImage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid user ID"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "File is required"})
		return
	}

	cand, err := candidateFromHeader(c, fileHeader)
	if err != nil {
		return
	}

	url, err := h.media.UploadSingle(c.Request.Context(), cand, uploadFolder)
	if err != nil {
		h.respondUploadError(c, err)
		return
	}

	person, err := h.svc.UpdateProfileImage(c.Request.Context(), id, url)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "User not found"})
			return
		}
		slog.ErrorContext(c.Request.Context(), "failed to update profile image", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update profile image"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"user":        person,
			"newImageUrl": url,
		},
	})
}

func (h *Handler) respondUploadError(c *gin.Context, err error) {
	var invalid *media.InvalidMediaTypeError
	if errors.As(err, &invalid) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": invalid.Error()})
		return
	}
	slog.ErrorContext(c.Request.Context(), "profile image upload failed", "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "File upload failed"})
}

// candidateFromHeader reads the multipart file into an upload candidate,
// answering the request itself on read failure.
func candidateFromHeader(c *gin.Context, fh *multipart.FileHeader) (media.Candidate, error) {
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Failed to read file"})
		return media.Candidate{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Failed to read file"})
		return media.Candidate{}, err
	}

	return media.Candidate{
		Name:      fh.Filename,
		MediaType: fh.Header.Get("Content-Type"),
		Data:      data,
	}, nil
}

func queryInt(c *gin.Context, name string) *int {
	if raw := c.Query(name); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			return &v
		}
	}
	return nil
}
