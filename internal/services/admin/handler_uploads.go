package admin

import (
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/atlasdata/alfurij-admin/internal/services/admin/forms"
	"github.com/atlasdata/alfurij-admin/internal/services/admin/integration/marketapi"
)

// parseUploadForm parses a multipart body capped at maxUploadBytes.
func parseUploadForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return fmt.Errorf("parse upload form: %w", err)
	}
	return nil
}

// openedFiles keeps uploaded files open until the upstream call has
// streamed them, then closes them together.
type openedFiles struct {
	files []multipart.File
}

func (o *openedFiles) Close() {
	for _, f := range o.files {
		if err := f.Close(); err != nil {
			log.Printf("admin: close upload: %v", err)
		}
	}
	o.files = nil
}

// open opens every file posted under field.
func (o *openedFiles) open(r *http.Request, field string) ([]marketapi.Upload, []forms.FileInfo, error) {
	if r.MultipartForm == nil {
		return nil, nil, nil
	}
	headers := r.MultipartForm.File[field]
	uploads := make([]marketapi.Upload, 0, len(headers))
	infos := make([]forms.FileInfo, 0, len(headers))
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			return nil, nil, fmt.Errorf("open upload %q: %w", header.Filename, err)
		}
		o.files = append(o.files, file)
		contentType := strings.TrimSpace(header.Header.Get("Content-Type"))
		uploads = append(uploads, marketapi.Upload{
			Field:       field,
			Filename:    header.Filename,
			ContentType: contentType,
			Content:     file,
		})
		infos = append(infos, forms.FileInfo{Name: header.Filename, ContentType: contentType, Size: header.Size})
	}
	return uploads, infos, nil
}

// openOne opens the first file posted under field, if any.
func (o *openedFiles) openOne(r *http.Request, field string) (*marketapi.Upload, *forms.FileInfo, error) {
	uploads, infos, err := o.open(r, field)
	if err != nil || len(uploads) == 0 {
		return nil, nil, err
	}
	return &uploads[0], &infos[0], nil
}
