package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/psi-scheduler/internal/httperr"
	"github.com/BruksfildServices01/psi-scheduler/internal/middleware"
	"github.com/BruksfildServices01/psi-scheduler/internal/storage"
)

const (
	MaxAvatarSize     = 5 << 20
	MaxAttachmentSize = 10 << 20
	MaxBulkFiles      = 10

	// multipart framing on top of the file itself
	multipartSlack = 1 << 20
)

var avatarTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

var attachmentTypes = map[string]bool{
	"image/jpeg":                true,
	"image/png":                 true,
	"image/webp":                true,
	"image/gif":                 true,
	"application/pdf":           true,
	"text/plain; charset=utf-8": true,
	"application/zip":           true,
	"application/octet-stream":  true,
}

// AvatarRepository swaps the avatar URL of a user.
type AvatarRepository interface {
	SetAvatar(ctx context.Context, userID uint, url string) (previous string, err error)
}

type UploadHandler struct {
	store   storage.Store
	avatars AvatarRepository
	log     zerolog.Logger
}

func NewUploadHandler(store storage.Store, avatars AvatarRepository, log zerolog.Logger) *UploadHandler {
	return &UploadHandler{
		store:   store,
		avatars: avatars,
		log:     log.With().Str("component", "upload").Logger(),
	}
}

type uploadedFile struct {
	URL         string `json:"url"`
	Filename    string `json:"filename"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}

// userFolder keeps every object under the uploader's id so Delete can check
// ownership from the key alone.
func userFolder(folder string, userID uint) string {
	return path.Join(folder, strconv.FormatUint(uint64(userID), 10))
}

func tooLarge(c *gin.Context, limit int64) {
	httperr.BadRequest(c, "file_too_large", fmt.Sprintf("File exceeds the %dMB limit.", limit>>20))
}

// readLimited reads at most limit bytes from fh; ok is false when the file is
// larger.
func readLimited(fh *multipart.FileHeader, limit int64) ([]byte, bool, error) {
	if fh.Size > limit {
		return nil, false, nil
	}

	f, err := fh.Open()
	if err != nil {
		return nil, false, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, false, err
	}
	if int64(len(data)) > limit {
		return nil, false, nil
	}
	return data, true, nil
}

func formFile(c *gin.Context, field string, limit int64) (*multipart.FileHeader, bool) {
	if c.Request.ContentLength > limit+multipartSlack {
		tooLarge(c, limit)
		return nil, false
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+multipartSlack)

	fh, err := c.FormFile(field)
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			tooLarge(c, limit)
			return nil, false
		}
		httperr.BadRequest(c, "file_required", "A file is required in field "+field+".")
		return nil, false
	}
	return fh, true
}

// ======================================================
// AVATAR
// ======================================================

func (h *UploadHandler) Avatar(c *gin.Context) {
	user := middleware.CurrentUser(c)

	fh, ok := formFile(c, "file", MaxAvatarSize)
	if !ok {
		return
	}

	data, ok, err := readLimited(fh, MaxAvatarSize)
	if err != nil {
		httperr.BadRequest(c, "invalid_file", "Could not read the file.")
		return
	}
	if !ok {
		tooLarge(c, MaxAvatarSize)
		return
	}

	if !avatarTypes[http.DetectContentType(data)] {
		httperr.BadRequest(c, "invalid_file_type", "Avatar must be a JPEG, PNG or WebP image.")
		return
	}

	webp, err := storage.NormalizeAvatar(data)
	if err != nil {
		httperr.BadRequest(c, "invalid_file_type", "Avatar must be a JPEG, PNG or WebP image.")
		return
	}

	ctx := c.Request.Context()
	key := storage.NewKey(userFolder("avatars", user.ID), "avatar.webp")

	url, err := h.store.Put(ctx, key, bytes.NewReader(webp), int64(len(webp)), "image/webp")
	if err != nil {
		h.log.Error().Err(err).Uint("user_id", user.ID).Msg("avatar upload failed")
		httperr.Respond(c, httperr.Unavailable("storage_unavailable", "Could not store the file."))
		return
	}

	previous, err := h.avatars.SetAvatar(ctx, user.ID, url)
	if err != nil {
		_ = h.store.Delete(ctx, key)
		httperr.Respond(c, err)
		return
	}

	if previous != "" && previous != url {
		if oldKey, ok := h.store.KeyFromURL(previous); ok {
			if err := h.store.Delete(ctx, oldKey); err != nil {
				h.log.Warn().Err(err).Str("key", oldKey).Msg("old avatar not deleted")
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"url":     url,
		"message": "Avatar updated.",
	})
}

// ======================================================
// ATTACHMENTS
// ======================================================

func (h *UploadHandler) put(c *gin.Context, folder string, fh *multipart.FileHeader, data []byte) (*uploadedFile, error) {
	user := middleware.CurrentUser(c)

	contentType := http.DetectContentType(data)
	if !attachmentTypes[contentType] {
		return nil, httperr.Validation("invalid_file_type", "File type not allowed.")
	}

	key := storage.NewKey(userFolder(folder, user.ID), fh.Filename)
	url, err := h.store.Put(c.Request.Context(), key, bytes.NewReader(data), int64(len(data)), contentType)
	if err != nil {
		h.log.Error().Err(err).Str("key", key).Msg("upload failed")
		return nil, httperr.Unavailable("storage_unavailable", "Could not store the file.")
	}

	return &uploadedFile{
		URL:         url,
		Filename:    path.Base(fh.Filename),
		Size:        int64(len(data)),
		ContentType: contentType,
	}, nil
}

func (h *UploadHandler) Attachment(c *gin.Context) {
	fh, ok := formFile(c, "file", MaxAttachmentSize)
	if !ok {
		return
	}

	data, ok, err := readLimited(fh, MaxAttachmentSize)
	if err != nil {
		httperr.BadRequest(c, "invalid_file", "Could not read the file.")
		return
	}
	if !ok {
		tooLarge(c, MaxAttachmentSize)
		return
	}

	out, err := h.put(c, "attachments", fh, data)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, out)
}

// Bulk stores up to MaxBulkFiles attachments; files over the size limit or of
// a rejected type are skipped and reported.
func (h *UploadHandler) Bulk(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBulkFiles*MaxAttachmentSize+multipartSlack)

	form, err := c.MultipartForm()
	if err != nil {
		httperr.BadRequest(c, "file_required", "Files are required in field files.")
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		httperr.BadRequest(c, "file_required", "Files are required in field files.")
		return
	}
	if len(files) > MaxBulkFiles {
		httperr.BadRequest(c, "too_many_files", fmt.Sprintf("At most %d files per upload.", MaxBulkFiles))
		return
	}

	uploaded := make([]uploadedFile, 0, len(files))
	skipped := make([]gin.H, 0)

	for _, fh := range files {
		data, ok, err := readLimited(fh, MaxAttachmentSize)
		if err != nil || !ok {
			skipped = append(skipped, gin.H{"filename": fh.Filename, "reason": "file_too_large"})
			continue
		}

		out, err := h.put(c, "attachments", fh, data)
		if err != nil {
			reason := "upload_failed"
			var be httperr.BusinessError
			if errors.As(err, &be) {
				reason = be.Code
			}
			skipped = append(skipped, gin.H{"filename": fh.Filename, "reason": reason})
			continue
		}
		uploaded = append(uploaded, *out)
	}

	c.JSON(http.StatusOK, gin.H{
		"uploaded": uploaded,
		"skipped":  skipped,
	})
}

// ======================================================
// DELETE
// ======================================================

// Delete removes a file the caller uploaded, addressed by its URL.
func (h *UploadHandler) Delete(c *gin.Context) {
	user := middleware.CurrentUser(c)

	key, ok := h.store.KeyFromURL(c.Query("url"))
	if !ok {
		httperr.BadRequest(c, "invalid_url", "Unknown file url.")
		return
	}

	parts := strings.Split(key, "/")
	if len(parts) < 3 || parts[1] != strconv.FormatUint(uint64(user.ID), 10) {
		httperr.ForbiddenResponse(c, "forbidden", "You can only delete your own files.")
		return
	}

	if err := h.store.Delete(c.Request.Context(), key); err != nil {
		h.log.Error().Err(err).Str("key", key).Msg("delete failed")
		httperr.Respond(c, httperr.Unavailable("storage_unavailable", "Could not delete the file."))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "File deleted."})
}
