// File HTTP handlers.
//
// Upload accepts a multipart form (file, sender, room), stores the bytes in
// memory, and returns the file-reference message that was appended to the
// room. Download streams the bytes back by id with an attachment
// disposition. File content is NOT encrypted; only text payloads carry
// cipher blobs.
package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bledchat/server/internal/domain"
	"github.com/bledchat/server/internal/store"
)

// UploadResponse is the JSON envelope for a stored upload.
type UploadResponse struct {
	Success bool           `json:"success"`
	Message domain.Message `json:"message"`
}

// UploadFile godoc
// @ID          uploadFile
// @Summary     Upload a file into a room
// @Description Stores the file in memory and appends a file-reference message
// @Description to the room's history.
// @Tags        Files
// @Accept      multipart/form-data
// @Produce     json
// @Param       file    formData  file    true  "File content"
// @Param       sender  formData  string  true  "Uploader username"
// @Param       room    formData  string  true  "Target room"
// @Success     200  {object}  handlers.UploadResponse
// @Failure     400  {object}  handlers.ErrorResponse
// @Router      /files [post]
func (h *Handlers) UploadFile(c *gin.Context) {
	ctx := c.Request.Context()

	sender := strings.TrimSpace(c.PostForm("sender"))
	room := strings.TrimSpace(c.PostForm("room"))
	if sender == "" || room == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Missing required fields")
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "file required")
		return
	}

	f, err := fh.Open()
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeUploadFailed, "unreadable upload")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeUploadFailed, "unreadable upload")
		return
	}

	m, err := h.fileSvc.StoreUpload(ctx, fh.Filename, fh.Header.Get("Content-Type"), data, sender, room)
	if err != nil {
		if errors.Is(err, store.ErrFileTooLarge) {
			fail(c, http.StatusRequestEntityTooLarge, ErrCodeUploadFailed, "file exceeds size limit")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeUploadFailed, "file upload failed")
		return
	}

	ok(c, http.StatusOK, UploadResponse{Success: true, Message: m})
}

// DownloadFile godoc
// @ID          downloadFile
// @Summary     Download an uploaded file
// @Tags        Files
// @Produce     octet-stream
// @Param       id  path  string  true  "File id"
// @Success     200  {file}    file
// @Failure     404  {object}  handlers.ErrorResponse  "File not found"
// @Router      /files/{id} [get]
func (h *Handlers) DownloadFile(c *gin.Context) {
	ctx := c.Request.Context()

	f, err := h.fileSvc.Fetch(ctx, c.Param("id"))
	if err != nil {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "File not found")
		return
	}

	ct := f.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", f.Name))
	c.Data(http.StatusOK, ct, f.Data)
}
