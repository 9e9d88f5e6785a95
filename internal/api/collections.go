package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"promoadmin/internal/presentation"
	"promoadmin/internal/promotion"
	"promoadmin/internal/store"
)

const (
	permissionsHeader    = "X-Admin-Permissions"
	customCriteriaHeader = "X-Custom-Criteria"
)

// collectionCall: разобранный запрос к коллекции, чьи элементы хранятся в OFFER_CUSTOMER.
type collectionCall struct {
	desc     presentation.CollectionDescriptor
	parentID int64
	backRef  string // "offer" | "customer": сторона, которая указывает на родителя
}

func permissions(c *gin.Context) []string {
	raw := c.GetHeader(permissionsHeader)
	if raw == "" {
		return nil
	}
	return strings.Split(raw, ",")
}

// backReference: manyToField, иначе выводим из имени родительской сущности.
func backReference(d presentation.CollectionDescriptor) string {
	ref := strings.ToLower(strings.TrimSpace(d.Metadata.ManyToField))
	if ref == "" {
		ref = strings.ToLower(d.Entity)
	}
	switch ref {
	case "offer", "offercode":
		return "offer"
	case "customer":
		return "customer"
	}
	return ""
}

// resolveCollection проверяет доступ и пишет ответ при отказе (ok=false).
func (s *Server) resolveCollection(c *gin.Context) (collectionCall, bool) {
	var call collectionCall
	d, ok := s.Registry().Lookup(c.Param("entity"), c.Param("field"))
	if !ok || d.Metadata.Excluded {
		abortWith(c, ferr(ErrNotFound, "field", "Collection not found"))
		return call, false
	}
	if !d.Allows(permissions(c)) {
		abortWith(c, ferr(ErrForbidden, d.Field, "security level '"+d.Metadata.SecurityLevel+"' required"))
		return call, false
	}
	if !strings.EqualFold(d.TargetEntity, promotion.OfferCustomerMapping.Entity) {
		abortWith(c, ferr(ErrUnsupported, d.Field, "collection target '"+d.TargetEntity+"' is not served here"))
		return call, false
	}
	backRef := backReference(d)
	if backRef == "" {
		abortWith(c, ferr(ErrUnsupported, "manyToField", "cannot infer back reference for "+d.Key()))
		return call, false
	}
	parentID, fe := parseID(c.Param("parent"), "parent")
	if fe != nil {
		abortWith(c, *fe)
		return call, false
	}
	if len(d.Metadata.CustomCriteria) > 0 {
		c.Header(customCriteriaHeader, strings.Join(d.Metadata.CustomCriteria, ","))
	}
	c.Header("X-Data-Source", d.DataSource)
	return collectionCall{desc: d, parentID: parentID, backRef: backRef}, true
}

func requireOp(c *gin.Context, op string, got presentation.OperationType, allowed ...presentation.OperationType) bool {
	for _, a := range allowed {
		if got == a {
			return true
		}
	}
	abortWith(c, ferr(ErrUnsupported, op, "operation type '"+string(got)+"' is not supported for "+op))
	return false
}

func requireMutable(c *gin.Context, call collectionCall) bool {
	if call.desc.Metadata.Mutable {
		return true
	}
	abortWith(c, ferr(ErrReadOnly, call.desc.Field, "collection is read only"))
	return false
}

func (call collectionCall) filter() store.Filter {
	if call.backRef == "offer" {
		return store.Filter{OfferID: call.parentID}
	}
	return store.Filter{CustomerID: call.parentID}
}

// link ставит родителя и элемент на свои стороны связи.
func (call collectionCall) link(oc *promotion.OfferCustomer, targetID int64) {
	if call.backRef == "offer" {
		oc.SetOffer(&promotion.Offer{ID: call.parentID})
		oc.SetCustomer(&promotion.Customer{ID: targetID})
		return
	}
	oc.SetCustomer(&promotion.Customer{ID: call.parentID})
	oc.SetOffer(&promotion.Offer{ID: targetID})
}

func (call collectionCall) owns(oc *promotion.OfferCustomer) bool {
	if call.backRef == "offer" {
		return oc.OfferID() == call.parentID
	}
	return oc.CustomerID() == call.parentID
}

// loadMember читает связь :id и проверяет, что она принадлежит родителю.
func (s *Server) loadMember(c *gin.Context, call collectionCall) (*promotion.OfferCustomer, bool) {
	id, fe := parseID(c.Param("id"), "id")
	if fe != nil {
		abortWith(c, *fe)
		return nil, false
	}
	oc, err := s.Store.Get(c.Request.Context(), id)
	if err != nil {
		s.storeError(c, err)
		return nil, false
	}
	if !call.owns(oc) {
		abortWith(c, ferr(ErrNotFound, "id", "Record not found"))
		return nil, false
	}
	return oc, true
}

type memberReq struct {
	TargetID int64 `json:"targetId"`
}

// GET /api/collections/:entity/:field/:parent
func CollectionFetchHandler(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		call, ok := s.resolveCollection(c)
		if !ok || !requireOp(c, "fetch", call.desc.Metadata.OperationTypes.Fetch, presentation.OpBasic) {
			return
		}
		f := call.filter()
		lf, fe := listFilter(c)
		if fe != nil {
			abortWith(c, *fe)
			return
		}
		f.Limit, f.Offset = lf.Limit, lf.Offset

		list, total, err := s.Store.List(c.Request.Context(), f)
		if err != nil {
			s.storeError(c, err)
			return
		}
		c.Header("X-Total-Count", strconv.Itoa(total))
		c.JSON(http.StatusOK, viewsOf(list))
	}
}

// GET /api/collections/:entity/:field/:parent/:id
func CollectionInspectHandler(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		call, ok := s.resolveCollection(c)
		if !ok || !requireOp(c, "inspect", call.desc.Metadata.OperationTypes.Inspect, presentation.OpBasic) {
			return
		}
		oc, ok := s.loadMember(c, call)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, viewOf(oc))
	}
}

// POST /api/collections/:entity/:field/:parent  {"targetId": N}
func CollectionAddHandler(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		call, ok := s.resolveCollection(c)
		if !ok || !requireMutable(c, call) ||
			!requireOp(c, "add", call.desc.Metadata.OperationTypes.Add, presentation.OpBasic) {
			return
		}
		var req memberReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
			return
		}
		if req.TargetID <= 0 {
			abortWith(c, ferr(ErrRequired, "targetId", "'targetId' must be a positive integer"))
			return
		}
		oc := &promotion.OfferCustomer{}
		call.link(oc, req.TargetID)
		if err := s.Store.Save(c.Request.Context(), oc); err != nil {
			s.storeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, viewOf(oc))
	}
}

// PUT /api/collections/:entity/:field/:parent/:id  {"targetId": N}
func CollectionUpdateHandler(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		call, ok := s.resolveCollection(c)
		if !ok || !requireMutable(c, call) ||
			!requireOp(c, "update", call.desc.Metadata.OperationTypes.Update, presentation.OpBasic) {
			return
		}
		var req memberReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
			return
		}
		if req.TargetID <= 0 {
			abortWith(c, ferr(ErrRequired, "targetId", "'targetId' must be a positive integer"))
			return
		}
		oc, ok := s.loadMember(c, call)
		if !ok {
			return
		}
		call.link(oc, req.TargetID)
		if err := s.Store.Save(c.Request.Context(), oc); err != nil {
			s.storeError(c, err)
			return
		}
		c.JSON(http.StatusOK, viewOf(oc))
	}
}

// DELETE /api/collections/:entity/:field/:parent/:id
// basic удаляет связь; nondestructiveremove только снимает ссылку на родителя.
func CollectionRemoveHandler(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		call, ok := s.resolveCollection(c)
		if !ok || !requireMutable(c, call) ||
			!requireOp(c, "remove", call.desc.Metadata.OperationTypes.Remove,
				presentation.OpBasic, presentation.OpNonDestructiveRemove) {
			return
		}
		oc, ok := s.loadMember(c, call)
		if !ok {
			return
		}
		id, _ := oc.ID()
		if call.desc.Metadata.OperationTypes.Remove == presentation.OpNonDestructiveRemove {
			if call.backRef == "offer" {
				oc.SetOffer(nil)
			} else {
				oc.SetCustomer(nil)
			}
			if err := s.Store.Save(c.Request.Context(), oc); err != nil {
				s.storeError(c, err)
				return
			}
			c.Status(http.StatusNoContent)
			return
		}
		if err := s.Store.Delete(c.Request.Context(), id); err != nil {
			s.storeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
