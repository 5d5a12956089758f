package main

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/nambininasafidison/AgriHub-sub001/internal/activity"
	"github.com/nambininasafidison/AgriHub-sub001/internal/admin"
	"github.com/nambininasafidison/AgriHub-sub001/internal/catalog"
	"github.com/nambininasafidison/AgriHub-sub001/internal/coupon"
	"github.com/nambininasafidison/AgriHub-sub001/internal/httpx"
)

type deps struct {
	admins   admin.Repository
	coupons  coupon.Repository
	activity activity.Repository
	tokens   *admin.Tokens
	rdb      redis.Cmdable
	log      *logrus.Logger

	origins    []string
	rateLimit  int
	rateWindow time.Duration
}

func newRouter(d deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger(d.log), httpx.Metrics("dashboard"), httpx.CORS(d.origins))
	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/metrics", httpx.MetricsHandler())

	limiter := httpx.RateLimiter(d.rdb, d.rateLimit, d.rateWindow, d.log)

	g := r.Group("/admin")
	g.POST("/login", limiter, loginHandler(d.admins, d.tokens, d.log))

	authed := g.Group("", limiter, admin.RequireAdmin(d.tokens),
		activity.Recorder(d.activity, admin.CtxAdminID, admin.CtxAdminEmail, d.log))
	authed.POST("/coupons", createCouponHandler(d.coupons, d.log))
	authed.GET("/coupons", listCouponsHandler(d.coupons, d.log))
	authed.GET("/coupons/:code", getCouponHandler(d.coupons, d.log))
	authed.PATCH("/coupons/:code", updateCouponHandler(d.coupons, d.log))
	authed.DELETE("/coupons/:code", deleteCouponHandler(d.coupons, d.log))
	authed.POST("/coupons/:code/quote", adminQuoteHandler(d.coupons, d.log))
	authed.POST("/coupons/:code/redeem", redeemCouponHandler(d.coupons, d.log))
	authed.GET("/activity", listActivityHandler(d.activity, d.log))
	authed.DELETE("/catalog/facets", invalidateFacetsHandler(d.rdb, d.log))
	return r
}

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// pageParams reads limit and offset, clamped the same way the repositories
// clamp them so responses echo what was actually applied.
func pageParams(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > maxPageLimit {
		limit = defaultPageLimit
	}
	return limit, max(offset, 0)
}

func internalError(c *gin.Context, log *logrus.Logger, err error, what string) {
	log.WithError(err).WithField("rid", httpx.RID(c)).Error("[dashboard] " + what)
	httpx.Fail(c, http.StatusInternalServerError, "failed to "+what)
}

// couponError maps coupon sentinels to responses; it reports false for
// errors it does not know.
func couponError(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, coupon.ErrNotFound):
		httpx.Fail(c, http.StatusNotFound, "coupon not found")
	case errors.Is(err, coupon.ErrCodeTaken):
		httpx.Fail(c, http.StatusConflict, err.Error())
	case errors.Is(err, coupon.ErrInvalid):
		httpx.Fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, coupon.ErrInactive), errors.Is(err, coupon.ErrNotStarted),
		errors.Is(err, coupon.ErrExpired), errors.Is(err, coupon.ErrExhausted),
		errors.Is(err, coupon.ErrBelowMinimum):
		httpx.Fail(c, http.StatusUnprocessableEntity, err.Error())
	default:
		return false
	}
	return true
}

// loginHandler godoc
// @Summary Admin login
// @Tags Dashboard - Auth
// @Accept json
// @Produce json
// @Param body body admin.LoginRequest true "Credentials"
// @Success 200 {object} admin.LoginResponse
// @Failure 400 {object} httpx.HTTPError
// @Failure 401 {object} httpx.HTTPError
// @Router /admin/login [post]
func loginHandler(admins admin.Repository, tokens *admin.Tokens, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req admin.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Fail(c, http.StatusBadRequest, "invalid json")
			return
		}
		email := strings.ToLower(strings.TrimSpace(req.Email))
		if email == "" || req.Password == "" {
			httpx.Fail(c, http.StatusBadRequest, "email and password are required")
			return
		}

		a, err := admins.GetByEmail(c.Request.Context(), email)
		if errors.Is(err, admin.ErrNotFound) {
			httpx.Fail(c, http.StatusUnauthorized, admin.ErrBadCredentials.Error())
			return
		}
		if err != nil {
			internalError(c, log, err, "look up admin")
			return
		}
		if !admin.CheckPassword(a.PasswordHash, req.Password) {
			log.WithField("email", email).Warn("[dashboard] failed login")
			httpx.Fail(c, http.StatusUnauthorized, admin.ErrBadCredentials.Error())
			return
		}

		token, exp, err := tokens.Issue(a)
		if err != nil {
			internalError(c, log, err, "issue token")
			return
		}
		c.JSON(http.StatusOK, admin.LoginResponse{Token: token, ExpiresAt: exp, Admin: *a})
	}
}

// createCouponHandler godoc
// @Summary Create a coupon
// @Tags Dashboard - Coupons
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body coupon.CreateCouponRequest true "Coupon definition"
// @Success 201 {object} coupon.Coupon
// @Failure 400 {object} httpx.HTTPError
// @Failure 409 {object} httpx.HTTPError
// @Router /admin/coupons [post]
func createCouponHandler(coupons coupon.Repository, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req coupon.CreateCouponRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Fail(c, http.StatusBadRequest, "invalid json")
			return
		}
		cp := &coupon.Coupon{
			ID:          uuid.NewString(),
			Code:        coupon.NormalizeCode(req.Code),
			Kind:        req.Kind,
			Value:       req.Value,
			MinSubtotal: req.MinSubtotal,
			MaxUses:     req.MaxUses,
			StartsAt:    req.StartsAt,
			ExpiresAt:   req.ExpiresAt,
			Active:      true,
		}
		if err := cp.Validate(); err != nil {
			couponError(c, err)
			return
		}
		if err := coupons.Create(c.Request.Context(), cp); err != nil {
			if !couponError(c, err) {
				internalError(c, log, err, "create coupon")
			}
			return
		}
		c.JSON(http.StatusCreated, cp)
	}
}

// listCouponsHandler godoc
// @Summary List coupons
// @Tags Dashboard - Coupons
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} map[string]interface{}
// @Router /admin/coupons [get]
func listCouponsHandler(coupons coupon.Repository, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, offset := pageParams(c)
		items, err := coupons.List(c.Request.Context(), limit, offset)
		if err != nil {
			internalError(c, log, err, "list coupons")
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": items, "limit": limit, "offset": offset})
	}
}

// getCouponHandler godoc
// @Summary Get a coupon
// @Tags Dashboard - Coupons
// @Security BearerAuth
// @Produce json
// @Param code path string true "Coupon code"
// @Success 200 {object} coupon.Coupon
// @Failure 404 {object} httpx.HTTPError
// @Router /admin/coupons/{code} [get]
func getCouponHandler(coupons coupon.Repository, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		cp, err := coupons.GetByCode(c.Request.Context(), coupon.NormalizeCode(c.Param("code")))
		if err != nil {
			if !couponError(c, err) {
				internalError(c, log, err, "fetch coupon")
			}
			return
		}
		c.JSON(http.StatusOK, cp)
	}
}

// updateCouponHandler godoc
// @Summary Activate or deactivate a coupon
// @Tags Dashboard - Coupons
// @Security BearerAuth
// @Accept json
// @Param code path string true "Coupon code"
// @Param body body coupon.UpdateCouponRequest true "New active flag"
// @Success 204
// @Failure 400 {object} httpx.HTTPError
// @Failure 404 {object} httpx.HTTPError
// @Router /admin/coupons/{code} [patch]
func updateCouponHandler(coupons coupon.Repository, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req coupon.UpdateCouponRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Active == nil {
			httpx.Fail(c, http.StatusBadRequest, "active is required")
			return
		}
		err := coupons.SetActive(c.Request.Context(), coupon.NormalizeCode(c.Param("code")), *req.Active)
		if err != nil {
			if !couponError(c, err) {
				internalError(c, log, err, "update coupon")
			}
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// deleteCouponHandler godoc
// @Summary Delete a coupon
// @Tags Dashboard - Coupons
// @Security BearerAuth
// @Param code path string true "Coupon code"
// @Success 204
// @Failure 404 {object} httpx.HTTPError
// @Router /admin/coupons/{code} [delete]
func deleteCouponHandler(coupons coupon.Repository, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := coupons.Delete(c.Request.Context(), coupon.NormalizeCode(c.Param("code")))
		if err != nil {
			internalError(c, log, err, "delete coupon")
			return
		}
		if !ok {
			httpx.Fail(c, http.StatusNotFound, "coupon not found")
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func bindSubtotal(c *gin.Context) (coupon.QuoteRequest, bool) {
	var req coupon.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Subtotal.IsNegative() {
		httpx.Fail(c, http.StatusBadRequest, "a non-negative subtotal is required")
		return req, false
	}
	req.Code = coupon.NormalizeCode(c.Param("code"))
	return req, true
}

// adminQuoteHandler godoc
// @Summary Preview a coupon discount
// @Tags Dashboard - Coupons
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param code path string true "Coupon code"
// @Param body body coupon.QuoteRequest true "Subtotal (code is taken from the path)"
// @Success 200 {object} coupon.QuoteResponse
// @Failure 404 {object} httpx.HTTPError
// @Failure 422 {object} httpx.HTTPError
// @Router /admin/coupons/{code}/quote [post]
func adminQuoteHandler(coupons coupon.Repository, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, ok := bindSubtotal(c)
		if !ok {
			return
		}
		cp, err := coupons.GetByCode(c.Request.Context(), req.Code)
		if err != nil {
			if !couponError(c, err) {
				internalError(c, log, err, "fetch coupon")
			}
			return
		}
		discount, err := cp.Discount(req.Subtotal, time.Now())
		if err != nil {
			couponError(c, err)
			return
		}
		c.JSON(http.StatusOK, coupon.NewQuote(req.Code, req.Subtotal, discount))
	}
}

// redeemCouponHandler godoc
// @Summary Redeem a coupon
// @Description Prices the subtotal and consumes one use of the coupon atomically.
// @Tags Dashboard - Coupons
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param code path string true "Coupon code"
// @Param body body coupon.QuoteRequest true "Subtotal (code is taken from the path)"
// @Success 200 {object} coupon.QuoteResponse
// @Failure 404 {object} httpx.HTTPError
// @Failure 422 {object} httpx.HTTPError
// @Router /admin/coupons/{code}/redeem [post]
func redeemCouponHandler(coupons coupon.Repository, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, ok := bindSubtotal(c)
		if !ok {
			return
		}
		discount, err := coupons.Redeem(c.Request.Context(), req.Code, req.Subtotal, time.Now())
		if err != nil {
			if !couponError(c, err) {
				internalError(c, log, err, "redeem coupon")
			}
			return
		}
		c.JSON(http.StatusOK, coupon.NewQuote(req.Code, req.Subtotal, discount))
	}
}

// listActivityHandler godoc
// @Summary List admin activity
// @Tags Dashboard - Activity
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} map[string]interface{}
// @Router /admin/activity [get]
func listActivityHandler(repo activity.Repository, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, offset := pageParams(c)
		items, err := repo.List(c.Request.Context(), limit, offset)
		if err != nil {
			internalError(c, log, err, "list activity")
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": items, "limit": limit, "offset": offset})
	}
}

// invalidateFacetsHandler godoc
// @Summary Drop cached filter metadata
// @Tags Dashboard - Catalog
// @Security BearerAuth
// @Success 204
// @Router /admin/catalog/facets [delete]
func invalidateFacetsHandler(rdb redis.Cmdable, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := catalog.InvalidateFacets(c.Request.Context(), rdb); err != nil {
			internalError(c, log, err, "invalidate facets")
			return
		}
		c.Status(http.StatusNoContent)
	}
}
