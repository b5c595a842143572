package upload

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"captionstudio/internal/config"
)

// Service persists uploaded photos to a flat local directory and records
// them in the database. What happens to a file after its request has been
// served is governed by the configured retention policy.
type Service struct {
	repo      Repository
	dir       string
	retention config.RetentionPolicy
}

func NewService(repo Repository, dir string, retention config.RetentionPolicy) *Service {
	if dir == "" {
		dir = "./photos"
	}
	if retention == "" {
		retention = config.RetentionRetain
	}
	return &Service{repo: repo, dir: dir, retention: retention}
}

// Save writes the file to disk as `<unix-ms>-<original-filename>` and records
// it. Simultaneous uploads sharing the same original name and millisecond can
// still collide on disk; there is no atomic-exists check.
func (s *Service) Save(ctx context.Context, handle string, fileHeader *multipart.FileHeader) (*Upload, error) {
	if fileHeader.Size == 0 {
		return nil, ErrEmptyFile
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	// Detect MIME type from the first 512 bytes, then rewind.
	buf := make([]byte, 512)
	n, _ := file.Read(buf)
	mimeType := strings.Split(http.DetectContentType(buf[:n]), ";")[0]
	if seeker, ok := file.(io.Seeker); ok {
		_, _ = seeker.Seek(0, io.SeekStart)
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}

	now := time.Now()
	original := filepath.Base(fileHeader.Filename)
	storedName := fmt.Sprintf("%d-%s", now.UnixMilli(), original)
	absPath := filepath.Join(s.dir, storedName)

	dst, err := os.Create(absPath)
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		_ = os.Remove(absPath)
		return nil, fmt.Errorf("write file: %w", err)
	}

	u := &Upload{
		ID:           uuid.New().String(),
		Handle:       handle,
		OriginalName: original,
		StoredName:   storedName,
		Path:         absPath,
		MimeType:     mimeType,
		Size:         fileHeader.Size,
		CreatedAt:    now,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		_ = os.Remove(absPath) // rollback file on DB error
		return nil, fmt.Errorf("save upload record: %w", err)
	}

	return u, nil
}

// ReadBack loads the stored file into memory for encoding.
func (s *Service) ReadBack(u *Upload) ([]byte, error) {
	data, err := os.ReadFile(u.Path)
	if os.IsNotExist(err) {
		return nil, ErrFileMissing
	}
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	return data, nil
}

// Discard applies the delete-after-use policy. Under retain or ttl it is a
// no-op; the ttl policy is enforced separately by the cleanup command.
func (s *Service) Discard(ctx context.Context, u *Upload) error {
	if s.retention != config.RetentionDelete {
		return nil
	}
	_ = os.Remove(u.Path) // file may already be gone
	return s.repo.Delete(ctx, u.ID)
}

// PurgeOlderThan removes files and records created before the cutoff.
// It returns the number of uploads removed.
func (s *Service) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	uploads, err := s.repo.ListOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	purged := 0
	for _, u := range uploads {
		_ = os.Remove(u.Path)
		if err := s.repo.Delete(ctx, u.ID); err != nil {
			return purged, err
		}
		purged++
	}
	return purged, nil
}
