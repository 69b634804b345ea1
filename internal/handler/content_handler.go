package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/lumocms/lumo-backend/internal/common"
	"github.com/lumocms/lumo-backend/internal/domain"
	"github.com/lumocms/lumo-backend/internal/middleware"
	"github.com/lumocms/lumo-backend/internal/query"
	"github.com/lumocms/lumo-backend/internal/service"
)

// ContentHandler handles HTTP requests for content records
type ContentHandler struct {
	service  service.ContentService
	resolver *query.Resolver
}

// NewContentHandler creates a new ContentHandler
func NewContentHandler(service service.ContentService, resolver *query.Resolver) *ContentHandler {
	return &ContentHandler{service: service, resolver: resolver}
}

// rawParams collects the supported query parameters from the request
func rawParams(c *gin.Context) query.RawParams {
	params := query.RawParams{}
	for _, key := range []string{
		query.ParamLimit, query.ParamOffset, query.ParamOrders,
		query.ParamFields, query.ParamIDs, query.ParamFilters, query.ParamDraftKey,
	} {
		if v := c.Query(key); v != "" {
			params[key] = v
		}
	}
	return params
}

// List godoc
// @Summary      List content records
// @Description  Lists published records of an endpoint with pagination, ordering, field selection and filters
// @Tags         contents
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        endpoint  path      string  true   "endpoint slug"
// @Param        limit     query     int     false  "page size"  default(10)
// @Param        offset    query     int     false  "page start"  default(0)
// @Param        orders    query     string  false  "comma list of fields, - prefix for descending"
// @Param        fields    query     string  false  "comma list of fields to return"
// @Param        ids       query     string  false  "comma list of record ids"
// @Param        filters   query     string  false  "filter expression, e.g. title[contains]go[and]status[equals]done"
// @Success      200  {object}  common.APIResponse
// @Failure      400  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Router       /contents/{endpoint} [get]
func (h *ContentHandler) List(c *gin.Context) {
	h.list(c, false)
}

// ManagementList godoc
// @Summary      List content records including drafts
// @Description  Same pipeline as the public list but drafts are visible and pending edits are preferred
// @Tags         management
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        endpoint  path      string  true   "endpoint slug"
// @Success      200  {object}  common.APIResponse
// @Failure      400  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Router       /management/contents/{endpoint} [get]
func (h *ContentHandler) ManagementList(c *gin.Context) {
	h.list(c, true)
}

func (h *ContentHandler) list(c *gin.Context, draftView bool) {
	opts, err := h.resolver.Resolve(rawParams(c))
	if err != nil {
		common.TranslateError(c, err)
		return
	}

	items, total, err := h.service.List(middleware.TenantID(c), c.Param("endpoint"), opts, draftView)
	if err != nil {
		common.TranslateError(c, err)
		return
	}

	common.ListResponse(c, items, &common.ListMeta{
		TotalCount: total,
		Limit:      opts.Limit,
		Offset:     opts.Offset,
	})
}

// Get godoc
// @Summary      Get one content record
// @Description  Returns a published record; a valid draftKey switches to the draft view
// @Tags         contents
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        endpoint  path      string  true   "endpoint slug"
// @Param        id        path      string  true   "record id"
// @Param        fields    query     string  false  "comma list of fields to return"
// @Param        draftKey  query     string  false  "draft preview key"
// @Success      200  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Router       /contents/{endpoint}/{id} [get]
func (h *ContentHandler) Get(c *gin.Context) {
	opts, err := h.resolver.Resolve(rawParams(c))
	if err != nil {
		common.TranslateError(c, err)
		return
	}

	data, err := h.service.Get(middleware.TenantID(c), c.Param("endpoint"), c.Param("id"), opts)
	if err != nil {
		common.TranslateError(c, err)
		return
	}

	common.SuccessResponse(c, data)
}

// GetObject godoc
// @Summary      Get the record of an object-shaped endpoint
// @Description  Object endpoints hold a single record addressed without an id
// @Tags         contents
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        endpoint  path      string  true   "endpoint slug"
// @Success      200  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Router       /contents/{endpoint}/object [get]
func (h *ContentHandler) GetObject(c *gin.Context) {
	opts, err := h.resolver.Resolve(rawParams(c))
	if err != nil {
		common.TranslateError(c, err)
		return
	}

	data, err := h.service.Get(middleware.TenantID(c), c.Param("endpoint"), "", opts)
	if err != nil {
		common.TranslateError(c, err)
		return
	}

	common.SuccessResponse(c, data)
}

// Create godoc
// @Summary      Create a content record
// @Description  Creates a record in the requested status (published when omitted) and appends version 1
// @Tags         contents
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        endpoint  path      string                        true  "endpoint slug"
// @Param        request   body      domain.CreateContentRequest   true  "field payload and optional status"
// @Success      201  {object}  common.APIResponse
// @Failure      400  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Router       /contents/{endpoint} [post]
func (h *ContentHandler) Create(c *gin.Context) {
	var req domain.CreateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "invalid request body")
		return
	}

	data, err := h.service.Create(middleware.TenantID(c), c.Param("endpoint"), &req)
	if err != nil {
		common.TranslateError(c, err)
		return
	}

	common.CreatedResponse(c, data)
}

// Update godoc
// @Summary      Update a content record
// @Description  Replaces the payload; status "published" publishes immediately, otherwise the edit lands in the draft
// @Tags         contents
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        endpoint  path      string                        true  "endpoint slug"
// @Param        id        path      string                        true  "record id"
// @Param        request   body      domain.UpdateContentRequest   true  "field payload and optional status"
// @Success      200  {object}  common.APIResponse
// @Failure      400  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Router       /contents/{endpoint}/{id} [put]
func (h *ContentHandler) Update(c *gin.Context) {
	var req domain.UpdateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "invalid request body")
		return
	}

	data, err := h.service.Update(middleware.TenantID(c), c.Param("endpoint"), c.Param("id"), &req)
	if err != nil {
		common.TranslateError(c, err)
		return
	}

	common.SuccessResponse(c, data)
}

// Delete godoc
// @Summary      Delete a content record
// @Description  Removes the record and its whole version history
// @Tags         contents
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        endpoint  path      string  true  "endpoint slug"
// @Param        id        path      string  true  "record id"
// @Success      200  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Router       /contents/{endpoint}/{id} [delete]
func (h *ContentHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(middleware.TenantID(c), c.Param("endpoint"), c.Param("id")); err != nil {
		common.TranslateError(c, err)
		return
	}

	common.SuccessResponse(c, gin.H{"deleted": true})
}

// Publish godoc
// @Summary      Publish a content record
// @Description  Promotes the pending draft to the public surface
// @Tags         management
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        endpoint  path      string  true  "endpoint slug"
// @Param        id        path      string  true  "record id"
// @Success      200  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Failure      409  {object}  common.APIResponse
// @Router       /management/contents/{endpoint}/{id}/publish [post]
func (h *ContentHandler) Publish(c *gin.Context) {
	data, err := h.service.Publish(middleware.TenantID(c), c.Param("endpoint"), c.Param("id"))
	if err != nil {
		common.TranslateError(c, err)
		return
	}

	common.SuccessResponse(c, data)
}

// Unpublish godoc
// @Summary      Unpublish a content record
// @Description  Takes the record off the public surface; the published payload becomes the draft baseline
// @Tags         management
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        endpoint  path      string  true  "endpoint slug"
// @Param        id        path      string  true  "record id"
// @Success      200  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Failure      409  {object}  common.APIResponse
// @Router       /management/contents/{endpoint}/{id}/unpublish [post]
func (h *ContentHandler) Unpublish(c *gin.Context) {
	data, err := h.service.Unpublish(middleware.TenantID(c), c.Param("endpoint"), c.Param("id"))
	if err != nil {
		common.TranslateError(c, err)
		return
	}

	common.SuccessResponse(c, data)
}
