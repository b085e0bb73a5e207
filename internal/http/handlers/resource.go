package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/codewitheasy-admin/internal/data/backend"
	"github.com/yungbote/codewitheasy-admin/internal/data/query"
	"github.com/yungbote/codewitheasy-admin/internal/data/resource"
	"github.com/yungbote/codewitheasy-admin/internal/http/response"
	"github.com/yungbote/codewitheasy-admin/internal/platform/apierr"
	"github.com/yungbote/codewitheasy-admin/internal/platform/logger"
)

// ResourceHandler serves list/get/create/update/delete for one entity.
type ResourceHandler struct {
	log     *logger.Logger
	backend backend.Backend
	cat     *resource.Catalog
	res     *resource.Resource
}

func NewResourceHandler(log *logger.Logger, b backend.Backend, cat *resource.Catalog, name string) *ResourceHandler {
	res := cat.MustLookup(name)
	return &ResourceHandler{
		log:     log.With("handler", "ResourceHandler", "resource", res.Name),
		backend: b,
		cat:     cat,
		res:     res,
	}
}

func (h *ResourceHandler) Resource() *resource.Resource { return h.res }

// Register mounts the handler on g, which is expected to be the entity's prefix.
func (h *ResourceHandler) Register(g *gin.RouterGroup) {
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("", h.Create)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

func (h *ResourceHandler) List(c *gin.Context) {
	d, err := query.Build(c.Request.URL.Query(), h.res.QuerySpec())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	items, total, err := h.backend.List(c.Request.Context(), h.res, d)
	if err != nil {
		h.fail(c, "List", err)
		return
	}
	response.RespondOK(c, gin.H{"data": items, "total": total})
}

func (h *ResourceHandler) Get(c *gin.Context) {
	item, err := h.backend.GetByID(c.Request.Context(), h.res, c.Param("id"), h.res.Includes)
	if err != nil {
		h.fail(c, "Get", err)
		return
	}
	response.RespondOK(c, gin.H{"data": item})
}

func (h *ResourceHandler) Create(c *gin.Context) {
	payload, ok := h.decode(c, resource.OpCreate)
	if !ok {
		return
	}
	if err := h.checkParents(c.Request.Context(), payload); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	if len(h.res.Key) > 0 {
		h.upsert(c, payload)
		return
	}
	item, err := h.backend.Create(c.Request.Context(), h.res, payload)
	if err != nil {
		h.fail(c, "Create", err)
		return
	}
	response.RespondCreated(c, gin.H{"data": item})
}

// upsert serves Create for keyed resources: a second POST for the same key
// updates the existing row and answers 200 instead of 201.
func (h *ResourceHandler) upsert(c *gin.Context, payload map[string]any) {
	key := make(map[string]any, len(h.res.Key))
	rest := make(map[string]any, len(payload))
	for col, v := range payload {
		rest[col] = v
	}
	for _, col := range h.res.Key {
		key[col] = rest[col]
		delete(rest, col)
	}
	item, created, err := h.backend.UpsertByKey(c.Request.Context(), h.res, key, rest)
	if err != nil {
		h.fail(c, "Create", err)
		return
	}
	if created {
		response.RespondCreated(c, gin.H{"data": item})
		return
	}
	response.RespondOK(c, gin.H{"data": item})
}

func (h *ResourceHandler) Update(c *gin.Context) {
	payload, ok := h.decode(c, resource.OpUpdate)
	if !ok {
		return
	}
	if err := h.checkParents(c.Request.Context(), payload); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	item, err := h.backend.Update(c.Request.Context(), h.res, c.Param("id"), payload)
	if err != nil {
		h.fail(c, "Update", err)
		return
	}
	response.RespondOK(c, gin.H{"data": item})
}

func (h *ResourceHandler) Delete(c *gin.Context) {
	if err := h.backend.Delete(c.Request.Context(), h.res, c.Param("id")); err != nil {
		h.fail(c, "Delete", err)
		return
	}
	response.RespondOK(c, gin.H{"success": true})
}

func (h *ResourceHandler) decode(c *gin.Context, op resource.Op) (map[string]any, bool) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondAPIError(c, apierr.Validation("request body must be a JSON object: %v", err))
		return nil, false
	}
	if body == nil {
		body = map[string]any{}
	}
	payload, err := h.res.Decode(body, op)
	if err != nil {
		response.RespondAPIError(c, err)
		return nil, false
	}
	return payload, true
}

// checkParents rejects payloads pointing at a missing parent for relations
// declared MustExist.
func (h *ResourceHandler) checkParents(ctx context.Context, payload map[string]any) error {
	for _, rel := range h.res.Relations {
		if !rel.MustExist || rel.Kind != resource.BelongsTo {
			continue
		}
		id, ok := payload[rel.ForeignKey].(string)
		if !ok {
			continue
		}
		parent := h.cat.MustLookup(rel.Target)
		if _, err := h.backend.GetByID(ctx, parent, id, nil); err != nil {
			if errors.Is(err, backend.ErrNotFound) {
				return apierr.Validation("%s %q does not exist", parent.Label, id)
			}
			return err
		}
	}
	return nil
}

func (h *ResourceHandler) fail(c *gin.Context, op string, err error) {
	if errors.Is(err, backend.ErrNotFound) {
		response.RespondAPIError(c, apierr.NotFound(h.res.Label))
		return
	}
	ae := response.Classify(err)
	if ae.Status >= http.StatusInternalServerError {
		h.log.Error(fmt.Sprintf("%s failed", op), "error", err)
	} else {
		h.log.Debug(fmt.Sprintf("%s rejected", op), "error", err)
	}
	response.RespondError(c, ae.Status, ae.Code, ae.Err)
}
