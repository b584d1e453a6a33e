package validators

import (
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/trampala/trampala-backend/internal/media"
	"github.com/trampala/trampala-backend/pkg/config"
	pkgerrors "github.com/trampala/trampala-backend/pkg/errors"
	"github.com/trampala/trampala-backend/pkg/pagination"
)

var allowedImageMIMEs = map[string]string{
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// ImageUpload extracts and checks the optional "image" part of a multipart
// request. It returns nil when no file was sent. The caller owns closing via
// the returned upload's Content being fully consumed within the request.
func ImageUpload(r *http.Request, cfg config.MediaConfig) (*media.Upload, error) {
	if err := r.ParseMultipartForm(cfg.MaxUploadBytes()); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart body")
	}
	if r.MultipartForm == nil || len(r.MultipartForm.File["image"]) == 0 {
		return nil, nil
	}

	header := r.MultipartForm.File["image"][0]
	if header.Size > cfg.MaxUploadBytes() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image exceeds the maximum upload size").
			WithDetails(map[string]string{"image": "must be at most " + strconv.Itoa(cfg.MaxUploadMB) + " MB"})
	}

	mimeType := strings.ToLower(strings.TrimSpace(header.Header.Get("Content-Type")))
	if _, ok := allowedImageMIMEs[mimeType]; !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image type must be jpeg, jpg, png or webp")
	}
	if !extensionAllowed(header.Filename, cfg.AllowedExtensions()) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image extension must be jpeg, jpg, png or webp")
	}

	file, err := header.Open()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unreadable image upload")
	}

	return &media.Upload{
		FileName:  header.Filename,
		MimeType:  mimeType,
		SizeBytes: header.Size,
		Content:   file,
	}, nil
}

func extensionAllowed(fileName string, allowed []string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(fileName)), ".")
	for _, candidate := range allowed {
		if ext == candidate {
			return true
		}
	}
	return false
}

// PageParams reads page and per_page from the query string.
func PageParams(r *http.Request) (pagination.Params, error) {
	page, err := ParseQueryInt(r, "page", 1, 1, 1<<30)
	if err != nil {
		return pagination.Params{}, err
	}
	perPage, err := ParseQueryInt(r, "per_page", pagination.DefaultPerPage, 1, pagination.MaxPerPage)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{Page: page, PerPage: perPage}, nil
}
