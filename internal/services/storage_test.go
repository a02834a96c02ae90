package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"showroom/config"
	"showroom/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func multipartFile(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="image"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(MaxImageSize*2))

	return req.MultipartForm.File["image"][0]
}

func TestStorageService_SaveImage(t *testing.T) {
	root := t.TempDir()
	service := NewStorageService(config.Config{UploadDir: root, PublicBaseURL: "http://localhost:8288/"})

	url, err := service.SaveImage(context.Background(), "scanners", multipartFile(t, "qr.png", "image/png", pngHeader))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(url, "http://localhost:8288/uploads/scanners/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	stored, err := os.ReadFile(filepath.Join(root, "scanners", filepath.Base(url)))
	require.NoError(t, err)
	assert.Equal(t, pngHeader, stored)
}

func TestStorageService_RejectsNonImages(t *testing.T) {
	service := NewStorageService(config.Config{UploadDir: t.TempDir()})
	ctx := context.Background()

	_, err := service.SaveImage(ctx, "receipts", multipartFile(t, "a.txt", "text/plain", []byte("hello")))
	assert.ErrorIs(t, err, types.ErrValidation)

	_, err = service.SaveImage(ctx, "receipts", multipartFile(t, "fake.png", "image/png", []byte("plain text body")))
	assert.ErrorIs(t, err, types.ErrValidation)

	_, err = service.SaveImage(ctx, "receipts", nil)
	assert.ErrorIs(t, err, types.ErrValidation)
}

func TestStorageService_RejectsOversized(t *testing.T) {
	service := NewStorageService(config.Config{UploadDir: t.TempDir()})

	file := multipartFile(t, "big.png", "image/png", pngHeader)
	file.Size = MaxImageSize + 1

	_, err := service.SaveImage(context.Background(), "cars", file)
	assert.ErrorIs(t, err, types.ErrValidation)
}

func TestWriteFile_RemovesPartialUpload(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "partial.png")

	src := io.MultiReader(bytes.NewReader(pngHeader), iotest.ErrReader(errors.New("connection reset")))
	err := writeFile(target, src)
	require.Error(t, err)

	_, statErr := os.Stat(target)
	assert.True(t, os.IsNotExist(statErr))

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
