package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/retailcat/catalogadmin/pkg/catalog"
)

// RegisterRoutes mounts both entity collections under /api.
func (s *Server) RegisterRoutes(r gin.IRouter) {
	api := r.Group("/api")
	registerCollection(api, catalog.Products, s.Products, s.Config.Version, s.Metrics)
	registerCollection(api, catalog.Brands, s.Brands, s.Config.Version, s.Metrics)
}

func registerCollection[T catalog.Entity](
	api *gin.RouterGroup,
	desc catalog.Descriptor[T],
	col *Collection[T],
	version string,
	metrics *Metrics,
) {
	h := &collectionHandler[T]{desc: desc, col: col, version: version, metrics: metrics}
	h.count()
	g := api.Group("/" + desc.Resource)
	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/version", h.getVersion)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

type collectionHandler[T catalog.Entity] struct {
	desc    catalog.Descriptor[T]
	col     *Collection[T]
	version string
	metrics *Metrics
}

func (h *collectionHandler[T]) count() {
	h.metrics.SetItems(h.desc.Name, h.col.Len())
}

func respondError(c *gin.Context, status int, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func (h *collectionHandler[T]) list(c *gin.Context) {
	page, err := intQuery(c, "page", 1)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	limit, err := intQuery(c, "limit", catalog.DefaultPageSize)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	sort := h.desc.DefaultSort
	if raw := c.Query("sortorder"); raw != "" {
		col, err := h.desc.ParseSortColumn(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, err)
			return
		}
		sort.Column = col
	}
	if raw := c.Query("sortAsc"); raw != "" {
		asc, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, errors.New("sortAsc must be true or false"))
			return
		}
		sort.Ascending = asc
	}
	c.JSON(http.StatusOK, h.col.Page(page, limit, sort))
}

func intQuery(c *gin.Context, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, errors.New(key + " must be a positive integer")
	}
	return n, nil
}

func (h *collectionHandler[T]) bind(c *gin.Context) (T, bool) {
	var item T
	if err := c.ShouldBindJSON(&item); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return item, false
	}
	if err := h.desc.Validate(item); err != nil {
		respondError(c, http.StatusUnprocessableEntity, err)
		return item, false
	}
	return item, true
}

func (h *collectionHandler[T]) create(c *gin.Context) {
	item, ok := h.bind(c)
	if !ok {
		return
	}
	created := h.col.Create(item)
	h.count()
	c.JSON(http.StatusCreated, created)
}

func (h *collectionHandler[T]) update(c *gin.Context) {
	item, ok := h.bind(c)
	if !ok {
		return
	}
	id := c.Param("id")
	if !h.col.Update(id, item) {
		respondError(c, http.StatusNotFound, errors.New(h.desc.Name+" "+id+" not found"))
		return
	}
	c.Status(http.StatusOK)
}

func (h *collectionHandler[T]) delete(c *gin.Context) {
	id := c.Param("id")
	if !h.col.Delete(id) {
		respondError(c, http.StatusNotFound, errors.New(h.desc.Name+" "+id+" not found"))
		return
	}
	h.count()
	c.Status(http.StatusNoContent)
}

func (h *collectionHandler[T]) getVersion(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"version": h.version, "entity": h.desc.Name})
}
