package services

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"showroom/config"
	"showroom/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
)

const (
	MaxImageSize = 5 << 20
	UploadRoute  = "/uploads"
)

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type ImageStore interface {
	SaveImage(ctx context.Context, folder string, file *multipart.FileHeader) (string, error)
}

// StorageService writes uploads under UPLOAD_DIR; the server exposes that directory at UploadRoute.
type StorageService struct {
	root    string
	baseURL string
	log     logger.Logger
}

func NewStorageService(config config.Config) *StorageService {
	return &StorageService{
		root:    config.UploadDir,
		baseURL: strings.TrimRight(config.PublicBaseURL, "/"),
		log:     logger.New("StorageService"),
	}
}

// SaveImage validates the upload by declared and sniffed type and returns its public URL.
func (s *StorageService) SaveImage(
	ctx context.Context,
	folder string,
	file *multipart.FileHeader,
) (string, error) {
	log := s.log.TraceFromContext(ctx).Function("SaveImage")

	if file == nil {
		return "", types.Validation("image file is required")
	}
	if file.Size > MaxImageSize {
		return "", types.Validation("image exceeds %d bytes", MaxImageSize)
	}
	if !strings.HasPrefix(file.Header.Get("Content-Type"), "image/") {
		return "", types.Validation("only image uploads are allowed")
	}

	src, err := file.Open()
	if err != nil {
		return "", log.Err("failed to open upload", err, "filename", file.Filename)
	}
	defer src.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(src, head)
	if err != nil && err != io.ErrUnexpectedEOF {
		return "", types.Validation("unreadable image")
	}
	head = head[:n]

	sniffed := http.DetectContentType(head)
	ext, ok := imageExtensions[sniffed]
	if !ok {
		return "", types.Validation("unsupported image type %s", sniffed)
	}

	dir := filepath.Join(s.root, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", log.Err("failed to create upload directory", types.Backend(err), "dir", dir)
	}

	name := uuid.New().String() + ext
	reader := io.MultiReader(bytes.NewReader(head), io.LimitReader(src, MaxImageSize))
	if err := writeFile(filepath.Join(dir, name), reader); err != nil {
		return "", log.Err("failed to write upload", types.Backend(err), "name", name)
	}

	return s.baseURL + path.Join(UploadRoute, folder, name), nil
}

// writeFile leaves nothing behind at target when the copy fails.
func writeFile(target string, src io.Reader) error {
	dst, err := os.Create(target)
	if err != nil {
		return err
	}

	_, err = io.Copy(dst, src)
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(target)
		return err
	}
	return nil
}
