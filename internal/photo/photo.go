// Package photo provides disk-backed storage for penetration photos with
// upload validation.
package photo

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/zulandar/penlog/internal/apperr"
	"github.com/zulandar/penlog/internal/models"
	"gorm.io/gorm"
)

// DefaultMaxSize is the upload cap applied when the store is configured
// with no explicit limit.
const DefaultMaxSize = 16 << 20 // 16 MiB

// allowedTypes maps accepted content types to stored file extensions.
var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
}

// Store writes photo files under Dir and their metadata rows through GORM.
type Store struct {
	Dir     string
	MaxSize int64
}

// NewStore creates a photo store rooted at dir, creating it if needed.
func NewStore(dir string, maxSize int64) (*Store, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("photo: create dir %s: %w", dir, err)
	}
	return &Store{Dir: dir, MaxSize: maxSize}, nil
}

// SaveOpts holds parameters for storing an uploaded photo.
type SaveOpts struct {
	PenetrationID string
	OriginalName  string
	ContentType   string
	Size          int64
	Caption       string
	PhotoType     string // general, opening, closing
}

// Save validates and stores an upload, incrementing the owning pen's photo
// count. Validation happens before any bytes are written.
func (s *Store) Save(db *gorm.DB, r io.Reader, opts SaveOpts) (*models.Photo, error) {
	ext, ok := allowedTypes[opts.ContentType]
	if !ok {
		return nil, fmt.Errorf("photo: content type %q: %w", opts.ContentType, apperr.ErrUnsupportedMedia)
	}
	if opts.Size > s.MaxSize {
		return nil, fmt.Errorf("photo: %d bytes exceeds %d: %w", opts.Size, s.MaxSize, apperr.ErrPayloadTooLarge)
	}
	if opts.PhotoType == "" {
		opts.PhotoType = models.PhotoGeneral
	}
	switch opts.PhotoType {
	case models.PhotoGeneral, models.PhotoOpening, models.PhotoClosing:
	default:
		return nil, apperr.Validationf("unknown photo type %q", opts.PhotoType)
	}

	var p models.Penetration
	if err := db.Where("id = ?", opts.PenetrationID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("photo: pen %s: %w", opts.PenetrationID, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("photo: get pen %s: %w", opts.PenetrationID, err)
	}

	storedName := uuid.NewString() + ext
	path := filepath.Join(s.Dir, storedName)

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("photo: create %s: %w", path, err)
	}
	written, err := io.Copy(f, io.LimitReader(r, s.MaxSize+1))
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("photo: write %s: %w", path, err)
	}
	if written > s.MaxSize {
		os.Remove(path)
		return nil, fmt.Errorf("photo: stream exceeds %d: %w", s.MaxSize, apperr.ErrPayloadTooLarge)
	}

	photo := models.Photo{
		PenetrationID: opts.PenetrationID,
		StoredName:    storedName,
		OriginalName:  opts.OriginalName,
		ContentType:   opts.ContentType,
		SizeBytes:     written,
		Caption:       opts.Caption,
		PhotoType:     opts.PhotoType,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&photo).Error; err != nil {
			return fmt.Errorf("photo: create row: %w", err)
		}
		if err := tx.Model(&models.Penetration{}).
			Where("id = ?", opts.PenetrationID).
			Update("photo_count", gorm.Expr("photo_count + 1")).Error; err != nil {
			return fmt.Errorf("photo: bump count on %s: %w", opts.PenetrationID, err)
		}
		return nil
	})
	if err != nil {
		os.Remove(path)
		return nil, err
	}
	return &photo, nil
}

// Get retrieves a photo's metadata row.
func Get(db *gorm.DB, id uint) (*models.Photo, error) {
	var photo models.Photo
	if err := db.First(&photo, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("photo: %d: %w", id, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("photo: get %d: %w", id, err)
	}
	return &photo, nil
}

// ListByPen returns a pen's photos in upload order.
func ListByPen(db *gorm.DB, penID string) ([]models.Photo, error) {
	var photos []models.Photo
	if err := db.Where("penetration_id = ?", penID).Order("id ASC").Find(&photos).Error; err != nil {
		return nil, fmt.Errorf("photo: list for %s: %w", penID, err)
	}
	return photos, nil
}

// Open returns a reader over the stored image bytes plus the metadata row.
// The caller closes the reader.
func (s *Store) Open(db *gorm.DB, id uint) (io.ReadCloser, *models.Photo, error) {
	photo, err := Get(db, id)
	if err != nil {
		return nil, nil, err
	}
	f, err := os.Open(filepath.Join(s.Dir, photo.StoredName))
	if err != nil {
		return nil, nil, fmt.Errorf("photo: open %s: %w", photo.StoredName, err)
	}
	return f, photo, nil
}

// Delete removes a photo file and row, decrementing the owning pen's photo
// count (floor zero).
func (s *Store) Delete(db *gorm.DB, id uint) error {
	photo, err := Get(db, id)
	if err != nil {
		return err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Photo{}, id).Error; err != nil {
			return fmt.Errorf("photo: delete row %d: %w", id, err)
		}
		if err := tx.Model(&models.Penetration{}).
			Where("id = ? AND photo_count > 0", photo.PenetrationID).
			Update("photo_count", gorm.Expr("photo_count - 1")).Error; err != nil {
			return fmt.Errorf("photo: drop count on %s: %w", photo.PenetrationID, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	// A missing file is not an error: the row was authoritative.
	if err := os.Remove(filepath.Join(s.Dir, photo.StoredName)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("photo: remove %s: %w", photo.StoredName, err)
	}
	return nil
}
