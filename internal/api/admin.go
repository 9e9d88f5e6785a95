package api

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"promoadmin/internal/presentation"
)

type reloadReq struct {
	MetaDir       string `json:"meta_dir"`
	OverridesFile string `json:"overrides_file"`
}

// POST /api/admin/reload: перечитывает объявления и overrides.
// При ошибке текущий реестр остаётся.
func AdminReloadHandler(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req reloadReq
		if err := c.ShouldBindJSON(&req); err != nil && err != io.EOF {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
			return
		}

		metaDir := strings.TrimSpace(req.MetaDir)
		if metaDir == "" {
			metaDir = s.MetaDir
		}
		overrides := strings.TrimSpace(req.OverridesFile)
		if overrides == "" {
			overrides = s.OverridesFile
		}

		reg, err := presentation.Load(metaDir, overrides)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "metadata load error",
				"details": err.Error(),
				"metaDir": metaDir,
			})
			return
		}

		s.swapRegistry(reg)
		issues := reg.Lint()
		s.Log.WithFields(logrus.Fields{
			"metaDir":     metaDir,
			"collections": reg.Len(),
			"issues":      len(issues),
		}).Info("collection metadata reloaded")

		c.JSON(http.StatusOK, gin.H{
			"ok":          true,
			"metaDir":     metaDir,
			"collections": reg.Len(),
			"issues":      len(issues),
		})
	}
}
