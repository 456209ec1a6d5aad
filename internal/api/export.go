package api

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/penlog/internal/export"
	"github.com/zulandar/penlog/internal/project"
	"gorm.io/gorm"
)

func handleExportProject(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := uintParam(c, "id")
		if !ok {
			return
		}
		p, err := project.Get(db, id)
		if err != nil {
			fail(c, err)
			return
		}

		var buf bytes.Buffer
		if err := export.WriteProjectCSV(db, &buf, id); err != nil {
			fail(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="`+export.Filename(p, time.Now())+`"`)
		c.Data(http.StatusOK, "text/csv", buf.Bytes())
	}
}
