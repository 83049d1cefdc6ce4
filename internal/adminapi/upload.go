package adminapi

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/random"
	"go.uber.org/zap"
)

// MaxUploadSize caps image uploads at 5 MiB
const MaxUploadSize = 5 << 20

var allowedImageExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".svg":  true,
}

// uploadImage stores a multipart image under a random filename and returns
// its public URL path
func uploadImage(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Missing file field", nil)
	}
	if file.Size > MaxUploadSize {
		return fail(c, http.StatusBadRequest, "FILE_TOO_LARGE", "Image exceeds the 5MB limit", nil)
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExt[ext] {
		return fail(c, http.StatusBadRequest, "INVALID_FILE_TYPE", "Unsupported image type", nil)
	}

	src, err := file.Open()
	if err != nil {
		return fail(c, http.StatusInternalServerError, "UPLOAD_ERROR", "Failed to read upload", nil)
	}
	defer src.Close()

	name := random.String(16) + ext
	target := filepath.Join(GetConfig(c).GetUploadDir(), name)
	dst, err := os.Create(target)
	if err != nil {
		zap.L().Error("upload target create failed", zap.String("path", target), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "UPLOAD_ERROR", "Failed to store upload", nil)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fail(c, http.StatusInternalServerError, "UPLOAD_ERROR", "Failed to store upload", nil)
	}

	auditLog(c, "upload_image", name)
	return ok(c, map[string]interface{}{"url": "/uploads/" + name})
}
