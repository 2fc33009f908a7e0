package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

var (
	errNoUpload        = errors.New("no file uploaded")
	errUnsupportedType = errors.New("unsupported file type")
)

var (
	imageTypes = []string{"image/jpeg", "image/png", "image/avif", "image/webp"}
	// xlsx is a zip container; excelize rejects zips that are not workbooks.
	workbookTypes = []string{
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		"application/vnd.ms-excel",
		"application/x-ole-storage",
		"application/zip",
	}
)

// Uploader stores multipart files under Dir with a uuid-prefixed name.
type Uploader struct {
	Dir           string
	MaxBytes      int64
	PublicBaseURL string
}

// parse reads the multipart body once; later calls are no-ops.
func (u *Uploader) parse(w http.ResponseWriter, r *http.Request) error {
	if r.MultipartForm != nil {
		return nil
	}
	r.Body = http.MaxBytesReader(w, r.Body, u.MaxBytes)
	if err := r.ParseMultipartForm(u.MaxBytes); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return errNoUpload
		}
		return fmt.Errorf("failed to parse upload: %w", err)
	}
	return nil
}

// save writes the form file to disk and returns its stored name. A missing
// part yields errNoUpload.
func (u *Uploader) save(w http.ResponseWriter, r *http.Request, field string, allowed []string) (string, error) {
	if err := u.parse(w, r); err != nil {
		return "", err
	}
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return "", errNoUpload
	}
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	defer file.Close()

	if err := checkType(file, allowed); err != nil {
		return "", err
	}

	if err := os.MkdirAll(u.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload dir: %w", err)
	}
	name := uuid.NewString() + "-" + sanitizeName(header.Filename)
	if err := storeFile(filepath.Join(u.Dir, name), file); err != nil {
		return "", err
	}
	return name, nil
}

// storeFile writes src to path. A partial file is removed on failure.
func storeFile(path string, src io.Reader) error {
	dst, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to store upload: %w", err)
	}
	_, err = io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("failed to store upload: %w", err)
	}
	return nil
}

// SaveWorkbook stores an uploaded spreadsheet and returns its path.
func (u *Uploader) SaveWorkbook(w http.ResponseWriter, r *http.Request, field string) (string, error) {
	name, err := u.save(w, r, field, workbookTypes)
	if err != nil {
		return "", err
	}
	return filepath.Join(u.Dir, name), nil
}

// SaveImage stores an uploaded image and returns its public URL.
func (u *Uploader) SaveImage(w http.ResponseWriter, r *http.Request, field string) (string, error) {
	name, err := u.save(w, r, field, imageTypes)
	if err != nil {
		return "", err
	}
	return u.publicURL(r, name), nil
}

func (u *Uploader) publicURL(r *http.Request, name string) string {
	base := strings.TrimRight(u.PublicBaseURL, "/")
	if base == "" {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		base = scheme + "://" + r.Host
	}
	return base + "/uploads/" + name
}

func checkType(file multipart.File, allowed []string) error {
	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		return fmt.Errorf("failed to sniff upload: %w", err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("failed to rewind upload: %w", err)
	}
	for _, a := range allowed {
		if mtype.Is(a) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", errUnsupportedType, mtype.String())
}

func sanitizeName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		if r == ' ' || r == '/' || r == ':' {
			return '_'
		}
		return r
	}, name)
	if name == "." || name == "" {
		return "upload"
	}
	return name
}
