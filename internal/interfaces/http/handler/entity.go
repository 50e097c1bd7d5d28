package handler

import (
	"context"

	"github.com/ecommerce/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
)

// EntityService is the set of operations an entity resource exposes over HTTP.
// enrichment.Service satisfies it for every entity.
type EntityService[K shared.EntityKey, D any] interface {
	FindAll(ctx context.Context) ([]*D, error)
	FindByID(ctx context.Context, key K) (*D, error)
	Save(ctx context.Context, view *D) (*D, error)
	Update(ctx context.Context, view *D) (*D, error)
	UpdateByID(ctx context.Context, key K, view *D) (*D, error)
	DeleteByID(ctx context.Context, key K) error
}

// EntityHandler serves the CRUD routes of one entity resource
type EntityHandler[K shared.EntityKey, D any] struct {
	BaseHandler
	service EntityService[K, D]
	keys    KeyParser[K]
}

// NewEntityHandler creates a handler that reads keys from the path with keys
func NewEntityHandler[K shared.EntityKey, D any](service EntityService[K, D], keys KeyParser[K]) *EntityHandler[K, D] {
	return &EntityHandler[K, D]{service: service, keys: keys}
}

// RegisterRoutes mounts the resource routes on rg:
//
//	GET    ""        list
//	GET    "/{key}"  one
//	POST   ""        create
//	PUT    ""        update by body
//	PUT    "/{key}"  update by path key
//	DELETE "/{key}"  delete
func (h *EntityHandler[K, D]) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.FindAll)
	rg.GET(h.keys.Pattern, h.FindByID)
	rg.POST("", h.Save)
	rg.PUT("", h.Update)
	rg.PUT(h.keys.Pattern, h.UpdateByID)
	rg.DELETE(h.keys.Pattern, h.DeleteByID)
}

// FindAll lists every record, enriched
func (h *EntityHandler[K, D]) FindAll(c *gin.Context) {
	items, err := h.service.FindAll(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Collection(c, items)
}

// FindByID returns one enriched record
func (h *EntityHandler[K, D]) FindByID(c *gin.Context) {
	key, ok := h.key(c)
	if !ok {
		return
	}
	item, err := h.service.FindByID(c.Request.Context(), key)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Save creates a record from the body
func (h *EntityHandler[K, D]) Save(c *gin.Context) {
	var view D
	if !h.BindJSON(c, &view) {
		return
	}
	saved, err := h.service.Save(c.Request.Context(), &view)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, saved)
}

// Update upserts the record identified by the body
func (h *EntityHandler[K, D]) Update(c *gin.Context) {
	var view D
	if !h.BindJSON(c, &view) {
		return
	}
	updated, err := h.service.Update(c.Request.Context(), &view)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, updated)
}

// UpdateByID merges the body into the record at the path key
func (h *EntityHandler[K, D]) UpdateByID(c *gin.Context) {
	key, ok := h.key(c)
	if !ok {
		return
	}
	var view D
	if !h.BindJSON(c, &view) {
		return
	}
	updated, err := h.service.UpdateByID(c.Request.Context(), key, &view)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, updated)
}

// DeleteByID removes the record at the path key and answers true
func (h *EntityHandler[K, D]) DeleteByID(c *gin.Context) {
	key, ok := h.key(c)
	if !ok {
		return
	}
	if err := h.service.DeleteByID(c.Request.Context(), key); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, true)
}

func (h *EntityHandler[K, D]) key(c *gin.Context) (K, bool) {
	key, err := h.keys.Parse(c)
	if err != nil {
		h.HandleError(c, err)
		return key, false
	}
	return key, true
}
