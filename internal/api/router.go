// api/router.go
package api

import (
	"github.com/gin-gonic/gin"
)

func NewRouter(s *Server) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), AccessLog(s.Log))

	meta := r.Group("/api/meta")
	{
		meta.GET("/collections", MetaListHandler(s))
		meta.GET("/collections/:entity", MetaEntityHandler(s))
		meta.GET("/collections/:entity/:field", MetaCollectionHandler(s))
		meta.GET("/lint", MetaLintHandler(s))
	}
	r.POST("/api/admin/reload", AdminReloadHandler(s))

	links := r.Group("/api/promotion/offer-customers")
	{
		links.POST("", CreateLinkHandler(s))
		links.GET("", ListLinksHandler(s))
		links.DELETE("", RevokeLinksHandler(s))
		links.GET("/:id", GetLinkHandler(s))
		links.PUT("/:id", UpdateLinkHandler(s))
		links.DELETE("/:id", DeleteLinkHandler(s))
	}

	coll := r.Group("/api/collections/:entity/:field/:parent")
	{
		coll.GET("", CollectionFetchHandler(s))
		coll.POST("", CollectionAddHandler(s))
		coll.GET("/:id", CollectionInspectHandler(s))
		coll.PUT("/:id", CollectionUpdateHandler(s))
		coll.DELETE("/:id", CollectionRemoveHandler(s))
	}
	return r
}

func RunServer(addr string, s *Server) error {
	return NewRouter(s).Run(addr)
}
