package homes

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

// uploadFolder is the storage folder for home photos.
const uploadFolder = "homes"

type Handler struct {
	svc   *Service
	media *media.Service
}

func NewHandler(svc *Service, mediaSvc *media.Service) *Handler {
	return &Handler{svc: svc, media: mediaSvc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/create", h.Create)
	r.GET("", h.List)
	r.GET("/:id", h.Get)
	r.POST("/:id/images", h.AddImages)
}

// Create handles POST /homes/create. Photos are optional; the batch is
// uploaded before the record insert.
func (h *Handler) Create(c *gin.Context) {
	ownerID, err := uuid.Parse(c.PostForm("ownerId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "ownerId and address are required"})
		return
	}
	address := c.PostForm("address")
	if address == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "ownerId and address are required"})
		return
	}

	cands, ok := h.fileCandidates(c)
	if !ok {
		return
	}

	var imageURLs []string
	if len(cands) > 0 {
		imageURLs, err = h.media.UploadMultiple(c.Request.Context(), cands, uploadFolder)
		if err != nil {
			h.respondUploadError(c, err)
			return
		}
	}

	home, err := h.svc.Create(c.Request.Context(), ownerID, address, imageURLs)
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "failed to create home", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create home"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"home":       home,
			"imageCount": len(imageURLs),
			"imageUrls":  imageURLs,
		},
	})
}

// List handles GET /homes
func (h *Handler) List(c *gin.Context) {
	offset, limit := utils.GetPaginationParams(queryInt(c, "offset"), queryInt(c, "limit"))

	list, total, err := h.svc.List(c.Request.Context(), offset, limit)
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "failed to list homes", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch homes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"homes": list,
			"count": total,
		},
	})
}

// Get handles GET /homes/:id
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid home ID"})
		return
	}

	home, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Home not found"})
			return
		}
		slog.ErrorContext(c.Request.Context(), "failed to get home", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch home"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"home": home}})
}

// AddImages handles POST /homes/:id/images, appending new photos to an
// existing listing.
func (h *Handler) AddImages(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid home ID"})
		return
	}

	cands, ok := h.fileCandidates(c)
	if !ok {
		return
	}
	if len(cands) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Files are required"})
		return
	}

	imageURLs, err := h.media.UploadMultiple(c.Request.Context(), cands, uploadFolder)
	if err != nil {
		h.respondUploadError(c, err)
		return
	}

	home, err := h.svc.AddImages(c.Request.Context(), id, imageURLs)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Home not found"})
			return
		}
		slog.ErrorContext(c.Request.Context(), "failed to add home images", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to add images"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"home":      home,
			"newImages": imageURLs,
		},
	})
}

// fileCandidates reads the "files" form files, accepting "file" as an
// alternate field name. An absent field is not an error.
func (h *Handler) fileCandidates(c *gin.Context) ([]media.Candidate, bool) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Failed to parse form"})
		return nil, false
	}

	fileHeaders := form.File["files"]
	if len(fileHeaders) == 0 {
		fileHeaders = form.File["file"]
	}

	cands := make([]media.Candidate, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		cand, err := readCandidate(fh)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Failed to read file"})
			return nil, false
		}
		cands = append(cands, cand)
	}
	return cands, true
}

func readCandidate(fh *multipart.FileHeader) (media.Candidate, error) {
	f, err := fh.Open()
	if err != nil {
		return media.Candidate{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return media.Candidate{}, err
	}

	return media.Candidate{
		Name:      fh.Filename,
		MediaType: fh.Header.Get("Content-Type"),
		Data:      data,
	}, nil
}

func (h *Handler) respondUploadError(c *gin.Context, err error) {
	var invalid *media.InvalidMediaTypeError
	if errors.As(err, &invalid) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": invalid.Error()})
		return
	}
	slog.ErrorContext(c.Request.Context(), "home image upload failed", "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "File upload failed"})
}

func queryInt(c *gin.Context, name string) *int {
	if raw := c.Query(name); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			return &v
		}
	}
	return nil
}
