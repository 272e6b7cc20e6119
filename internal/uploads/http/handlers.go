package http

import (
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/makerstash/diy-backend/internal/uploads/storage"
)

// uploadField must match the form key the create view appends the file under.
const uploadField = "projectImage"

var (
	allowedExts = map[string]bool{
		".jpeg": true,
		".jpg":  true,
		".png":  true,
		".gif":  true,
	}
	allowedTypes = map[string]bool{
		"image/jpeg": true,
		"image/jpg":  true,
		"image/png":  true,
		"image/gif":  true,
	}
)

type Handler struct {
	store storage.ImageStore
}

func Register(rg *gin.RouterGroup, store storage.ImageStore, mw ...gin.HandlerFunc) {
	h := &Handler{store: store}
	rg.POST("", append(mw, h.upload)...)
}

func (h *Handler) upload(c *gin.Context) {
	file, err := c.FormFile(uploadField)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded."})
		return
	}

	// Both the extension and the declared media type must pass the allow-list.
	ext := strings.ToLower(filepath.Ext(file.Filename))
	contentType := file.Header.Get("Content-Type")
	if !allowedExts[ext] || !allowedTypes[contentType] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Images only (jpeg, jpg, png, gif)."})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}
	defer src.Close()

	filePath, err := h.store.Save(c.Request.Context(), uploadField, file.Filename, contentType, src)
	if err != nil {
		log.Printf("upload failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "File uploaded successfully",
		"filePath": filePath,
	})
}
