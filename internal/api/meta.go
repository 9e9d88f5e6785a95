package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"promoadmin/internal/presentation"
)

// ===== META HANDLERS =====

// GET /api/meta/collections[?criteria=x]
func MetaListHandler(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		reg := s.Registry()
		var out []presentation.CollectionDescriptor
		if crit := c.Query("criteria"); crit != "" {
			out = reg.ByCriteria(crit)
		} else {
			out = reg.All()
		}
		if out == nil {
			out = []presentation.CollectionDescriptor{}
		}
		c.JSON(http.StatusOK, out)
	}
}

// GET /api/meta/collections/:entity: видимые коллекции в порядке отображения.
func MetaEntityHandler(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		ent := c.Param("entity")
		out := s.Registry().ForEntity(ent)
		if len(out) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Entity not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"entity": out[0].Entity, "collections": out})
	}
}

// GET /api/meta/collections/:entity/:field
func MetaCollectionHandler(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		d, ok := s.Registry().Lookup(c.Param("entity"), c.Param("field"))
		if !ok || d.Metadata.Excluded {
			c.JSON(http.StatusNotFound, gin.H{"error": "Collection not found"})
			return
		}
		c.JSON(http.StatusOK, d)
	}
}

// GET /api/meta/lint
func MetaLintHandler(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		issues := s.Registry().Lint()
		if issues == nil {
			issues = []presentation.SchemaIssue{}
		}
		c.JSON(http.StatusOK, gin.H{"issues": issues})
	}
}
