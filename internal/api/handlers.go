package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"promoadmin/internal/promotion"
	"promoadmin/internal/store"
)

// linkView: JSON-представление OfferCustomer.
type linkView struct {
	ID         int64  `json:"id"`
	OfferID    *int64 `json:"offerId"`
	CustomerID *int64 `json:"customerId"`
}

type linkReq struct {
	OfferID    *int64 `json:"offerId"`
	CustomerID *int64 `json:"customerId"`
}

func viewOf(oc *promotion.OfferCustomer) linkView {
	id, _ := oc.ID()
	v := linkView{ID: id}
	if o := oc.Offer(); o != nil {
		oid := o.ID
		v.OfferID = &oid
	}
	if cu := oc.Customer(); cu != nil {
		cid := cu.ID
		v.CustomerID = &cid
	}
	return v
}

func viewsOf(list []*promotion.OfferCustomer) []linkView {
	out := make([]linkView, 0, len(list))
	for _, oc := range list {
		out = append(out, viewOf(oc))
	}
	return out
}

// validate: null снимает ссылку, а ID должен быть положительным.
func (r linkReq) validate() []FieldError {
	var errs []FieldError
	if r.OfferID != nil && *r.OfferID <= 0 {
		errs = append(errs, ferr(ErrTypeMismatch, "offerId", "'offerId' must be a positive integer or null"))
	}
	if r.CustomerID != nil && *r.CustomerID <= 0 {
		errs = append(errs, ferr(ErrTypeMismatch, "customerId", "'customerId' must be a positive integer or null"))
	}
	return errs
}

// apply переносит ссылки из запроса; nil снимает ссылку.
func (r linkReq) apply(oc *promotion.OfferCustomer) {
	oc.SetOffer(nil)
	if r.OfferID != nil {
		oc.SetOffer(&promotion.Offer{ID: *r.OfferID})
	}
	oc.SetCustomer(nil)
	if r.CustomerID != nil {
		oc.SetCustomer(&promotion.Customer{ID: *r.CustomerID})
	}
}

func parseID(raw, field string) (int64, *FieldError) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		fe := ferr(ErrTypeMismatch, field, "'"+field+"' must be a positive integer")
		return 0, &fe
	}
	return id, nil
}

// optional query int: пусто -> 0
func queryInt(c *gin.Context, names ...string) (int64, *FieldError) {
	for _, n := range names {
		if v := c.Query(n); v != "" {
			return parseID(v, n)
		}
	}
	return 0, nil
}

func listFilter(c *gin.Context) (store.Filter, *FieldError) {
	var f store.Filter
	var fe *FieldError
	if f.OfferID, fe = queryInt(c, "offer", "offerId"); fe != nil {
		return f, fe
	}
	if f.CustomerID, fe = queryInt(c, "customer", "customerId"); fe != nil {
		return f, fe
	}
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			f.Limit = n
		}
	}
	if v := c.Query("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			f.Offset = n
		}
	}
	return f, nil
}

// POST /api/promotion/offer-customers
func CreateLinkHandler(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req linkReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
			return
		}
		if errs := req.validate(); len(errs) > 0 {
			abortWith(c, errs...)
			return
		}
		oc := &promotion.OfferCustomer{}
		req.apply(oc)
		if err := s.Store.Save(c.Request.Context(), oc); err != nil {
			s.storeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, viewOf(oc))
	}
}

// GET /api/promotion/offer-customers?offer=&customer=&limit=&offset=
func ListLinksHandler(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		f, fe := listFilter(c)
		if fe != nil {
			abortWith(c, *fe)
			return
		}
		list, total, err := s.Store.List(c.Request.Context(), f)
		if err != nil {
			s.storeError(c, err)
			return
		}
		c.Header("X-Total-Count", strconv.Itoa(total))
		c.JSON(http.StatusOK, viewsOf(list))
	}
}

// GET /api/promotion/offer-customers/:id
func GetLinkHandler(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, fe := parseID(c.Param("id"), "id")
		if fe != nil {
			abortWith(c, *fe)
			return
		}
		oc, err := s.Store.Get(c.Request.Context(), id)
		if err != nil {
			s.storeError(c, err)
			return
		}
		c.JSON(http.StatusOK, viewOf(oc))
	}
}

// PUT /api/promotion/offer-customers/:id
func UpdateLinkHandler(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, fe := parseID(c.Param("id"), "id")
		if fe != nil {
			abortWith(c, *fe)
			return
		}
		var req linkReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
			return
		}
		if errs := req.validate(); len(errs) > 0 {
			abortWith(c, errs...)
			return
		}
		oc, err := s.Store.Get(c.Request.Context(), id)
		if err != nil {
			s.storeError(c, err)
			return
		}
		req.apply(oc)
		if err := s.Store.Save(c.Request.Context(), oc); err != nil {
			s.storeError(c, err)
			return
		}
		c.JSON(http.StatusOK, viewOf(oc))
	}
}

// DELETE /api/promotion/offer-customers/:id
func DeleteLinkHandler(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, fe := parseID(c.Param("id"), "id")
		if fe != nil {
			abortWith(c, *fe)
			return
		}
		if err := s.Store.Delete(c.Request.Context(), id); err != nil {
			s.storeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// DELETE /api/promotion/offer-customers?offer=ID | ?customer=ID
// Отзыв всех связей при удалении offer или customer.
func RevokeLinksHandler(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		f, fe := listFilter(c)
		if fe != nil {
			abortWith(c, *fe)
			return
		}
		var (
			n   int
			err error
		)
		switch {
		case f.OfferID != 0 && f.CustomerID == 0:
			n, err = s.Store.DeleteByOffer(c.Request.Context(), f.OfferID)
		case f.CustomerID != 0 && f.OfferID == 0:
			n, err = s.Store.DeleteByCustomer(c.Request.Context(), f.CustomerID)
		default:
			abortWith(c, ferr(ErrRequired, "offer", "exactly one of 'offer' or 'customer' is required"))
			return
		}
		if err != nil {
			s.storeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": n})
	}
}
