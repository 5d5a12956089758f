package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/nambininasafidison/AgriHub-sub001/internal/catalog"
	"github.com/nambininasafidison/AgriHub-sub001/internal/coupon"
	"github.com/nambininasafidison/AgriHub-sub001/internal/httpx"
	"github.com/nambininasafidison/AgriHub-sub001/internal/search"
)

// SearchResponse is a result page plus its navigation strip.
// swagger:model
type SearchResponse struct {
	search.Page
	Pagination []search.Control `json:"pagination"`
}

func newRouter(store catalog.Store, coupons coupon.Repository, origins []string, log *logrus.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger(log), httpx.Metrics("storefront"), httpx.CORS(origins))
	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/metrics", httpx.MetricsHandler())

	svc := search.NewService(store, log)

	g := r.Group("/store")
	g.GET("/products", searchHandler(svc))
	g.GET("/products/:id", getProductHandler(store, log))
	g.GET("/filters/metadata", facetsHandler(store, log))
	g.POST("/coupons/quote", quoteHandler(coupons, log))
	return r
}

// searchHandler godoc
// @Summary Search storefront products
// @Description Free-text search with category, price, stock and rating filters. Store failures yield an empty page flagged with X-Search-Degraded.
// @Tags Storefront - Products
// @Produce json
// @Param q query string false "Search text (name, description or tag)"
// @Param category query []string false "Categories (repeatable)"
// @Param minPrice query number false "Minimum price (inclusive)"
// @Param maxPrice query number false "Maximum price (inclusive)"
// @Param inStock query string false "Only products in stock" Enums(true)
// @Param rating query int false "Minimum rating (1-5)"
// @Param sort query string false "Sort mode" Enums(newest, price-asc, price-desc, popular, rating) default(newest)
// @Param page query int false "Page number" default(1)
// @Success 200 {object} SearchResponse
// @Router /store/products [get]
func searchHandler(svc *search.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		st := search.ParseValues(c.Request.URL.Query())
		page := svc.Search(c.Request.Context(), st)
		if page.Degraded {
			c.Header("X-Search-Degraded", "true")
		}
		c.JSON(http.StatusOK, SearchResponse{
			Page:       page,
			Pagination: search.Controls(st, page.TotalPages, c.Request.URL.Path),
		})
	}
}

// getProductHandler godoc
// @Summary Get a product
// @Tags Storefront - Products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} catalog.Product
// @Failure 404 {object} httpx.HTTPError
// @Router /store/products/{id} [get]
func getProductHandler(store catalog.Store, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := store.Get(c.Request.Context(), c.Param("id"))
		if errors.Is(err, catalog.ErrNotFound) {
			httpx.Fail(c, http.StatusNotFound, "product not found")
			return
		}
		if err != nil {
			log.WithError(err).WithField("rid", httpx.RID(c)).Error("[store] get product")
			httpx.Fail(c, http.StatusInternalServerError, "failed to fetch product")
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// facetsHandler godoc
// @Summary Filter metadata
// @Description Category counts, price range and availability counts for the filter sidebar.
// @Tags Storefront - Filters
// @Produce json
// @Success 200 {object} catalog.Facets
// @Failure 500 {object} httpx.HTTPError
// @Router /store/filters/metadata [get]
func facetsHandler(store catalog.Store, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		f, err := store.Facets(c.Request.Context())
		if err != nil {
			log.WithError(err).WithField("rid", httpx.RID(c)).Error("[store] facets")
			httpx.Fail(c, http.StatusInternalServerError, "failed to fetch filter metadata")
			return
		}
		c.JSON(http.StatusOK, f)
	}
}

// quoteHandler godoc
// @Summary Preview a coupon
// @Description Prices a subtotal with a coupon without consuming a use.
// @Tags Storefront - Coupons
// @Accept json
// @Produce json
// @Param body body coupon.QuoteRequest true "Code and subtotal"
// @Success 200 {object} coupon.QuoteResponse
// @Failure 400 {object} httpx.HTTPError
// @Failure 404 {object} httpx.HTTPError
// @Failure 422 {object} httpx.HTTPError
// @Router /store/coupons/quote [post]
func quoteHandler(coupons coupon.Repository, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req coupon.QuoteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Fail(c, http.StatusBadRequest, "invalid json")
			return
		}
		code := coupon.NormalizeCode(req.Code)
		if code == "" || req.Subtotal.IsNegative() {
			httpx.Fail(c, http.StatusBadRequest, "code and a non-negative subtotal are required")
			return
		}

		cp, err := coupons.GetByCode(c.Request.Context(), code)
		if errors.Is(err, coupon.ErrNotFound) {
			httpx.Fail(c, http.StatusNotFound, "coupon not found")
			return
		}
		if err != nil {
			log.WithError(err).WithField("rid", httpx.RID(c)).Error("[store] coupon lookup")
			httpx.Fail(c, http.StatusInternalServerError, "failed to fetch coupon")
			return
		}
		discount, err := cp.Discount(req.Subtotal, time.Now())
		if err != nil {
			httpx.Fail(c, http.StatusUnprocessableEntity, err.Error())
			return
		}
		c.JSON(http.StatusOK, coupon.NewQuote(code, req.Subtotal, discount))
	}
}
