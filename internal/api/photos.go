package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/penlog/internal/models"
	"github.com/zulandar/penlog/internal/photo"
	"gorm.io/gorm"
)

// savePhotoUpload reads the multipart "photo" part and stores it against
// the given pen.
func savePhotoUpload(c *gin.Context, db *gorm.DB, photos *photo.Store, penID string) (*models.Photo, error) {
	fh, err := c.FormFile("photo")
	if err != nil {
		return nil, err
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return photos.Save(db, f, photo.SaveOpts{
		PenetrationID: penID,
		OriginalName:  fh.Filename,
		ContentType:   fh.Header.Get("Content-Type"),
		Size:          fh.Size,
		Caption:       c.PostForm("caption"),
		PhotoType:     c.PostForm("photo_type"),
	})
}

func handlePhotoUpload(db *gorm.DB, photos *photo.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		penID := c.PostForm("penetration_id")
		if penID == "" {
			badRequest(c, "penetration_id is required")
			return
		}
		ph, err := savePhotoUpload(c, db, photos, penID)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, ph)
	}
}

func handlePhotoDownload(db *gorm.DB, photos *photo.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := uintParam(c, "id")
		if !ok {
			return
		}
		r, ph, err := photos.Open(db, id)
		if err != nil {
			fail(c, err)
			return
		}
		defer r.Close()
		c.DataFromReader(http.StatusOK, ph.SizeBytes, ph.ContentType, r, map[string]string{
			"Content-Disposition": `inline; filename="` + ph.OriginalName + `"`,
		})
	}
}

func handlePhotoInfo(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := uintParam(c, "id")
		if !ok {
			return
		}
		ph, err := photo.Get(db, id)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, ph)
	}
}

func handlePhotosByPen(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := photo.ListByPen(db, c.Param("penId"))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

func handlePhotoDelete(db *gorm.DB, photos *photo.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := uintParam(c, "id")
		if !ok {
			return
		}
		if err := photos.Delete(db, id); err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
