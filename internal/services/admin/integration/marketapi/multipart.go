package marketapi

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"sort"
	"strings"
)

// Upload is one file attached to a multipart request.
type Upload struct {
	Field       string
	Filename    string
	ContentType string
	Content     io.Reader
}

// form is a multipart body under construction. Text fields are written in
// sorted key order so request bodies are stable.
type form struct {
	fields  map[string][]string
	uploads []Upload
}

func newForm() *form {
	return &form{fields: map[string][]string{}}
}

// set records a text field, skipping blank values.
func (f *form) set(key, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	f.fields[key] = append(f.fields[key], value)
}

func (f *form) add(uploads ...Upload) {
	for _, u := range uploads {
		if u.Content != nil {
			f.uploads = append(f.uploads, u)
		}
	}
}

// attach streams the form through a pipe into req and sets its content type.
func (f *form) attach(req *call) {
	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)
	req.body = pr
	req.contentType = writer.FormDataContentType()
	go func() {
		pw.CloseWithError(f.write(writer))
	}()
}

func (f *form) write(writer *multipart.Writer) error {
	keys := make([]string, 0, len(f.fields))
	for key := range f.fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		for _, value := range f.fields[key] {
			if err := writer.WriteField(key, value); err != nil {
				return fmt.Errorf("write field %s: %w", key, err)
			}
		}
	}
	for _, upload := range f.uploads {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			quoteEscaper.Replace(upload.Field), quoteEscaper.Replace(uploadName(upload))))
		contentType := strings.TrimSpace(upload.ContentType)
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		header.Set("Content-Type", contentType)
		part, err := writer.CreatePart(header)
		if err != nil {
			return fmt.Errorf("create part %s: %w", upload.Field, err)
		}
		if _, err := io.Copy(part, upload.Content); err != nil {
			return fmt.Errorf("copy part %s: %w", upload.Field, err)
		}
	}
	return writer.Close()
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func uploadName(u Upload) string {
	if name := strings.TrimSpace(u.Filename); name != "" {
		return name
	}
	return "upload"
}
