package handlers

import (
	"errors"
	"io"
	"net/http"
	"path"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/joblocal/internal/storage"
)

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK", "message": "JobLocal API is running"})
}

// FileHandler serves uploaded resumes back by the path Save returned.
type FileHandler struct {
	Storage storage.Storage
}

func NewFileHandler(s storage.Storage) *FileHandler {
	return &FileHandler{Storage: s}
}

func (h *FileHandler) Serve(c *gin.Context) {
	key := path.Join(storage.Prefix, c.Param("path"))
	rc, err := h.Storage.Open(c.Request.Context(), key)
	if errors.Is(err, storage.ErrNotFound) {
		message(c, http.StatusNotFound, "File not found")
		return
	}
	if err != nil {
		fail(c, err)
		return
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		fail(c, err)
		return
	}
	c.Data(http.StatusOK, mimetype.Detect(data).String(), data)
}
