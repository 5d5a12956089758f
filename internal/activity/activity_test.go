package activity

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type memRepo struct {
	mu      sync.Mutex
	entries []Entry
}

func (m *memRepo) Insert(ctx context.Context, e *Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, *e)
	return nil
}

func (m *memRepo) List(ctx context.Context, limit, offset int) ([]Entry, error) {
	return m.entries, nil
}

func TestResourceType(t *testing.T) {
	cases := map[string]string{
		"/admin/coupons":              "coupon",
		"/admin/coupons/:code":        "coupon",
		"/admin/coupons/:code/quote":  "quote",
		"/admin/catalog/facets/cache": "cache",
		"/admin":                      "",
		"":                            "",
	}
	for route, want := range cases {
		if got := ResourceType(route); got != want {
			t.Fatalf("ResourceType(%q)=%q want %q", route, got, want)
		}
	}
}

func TestRecorder(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := logrus.New()
	log.SetOutput(io.Discard)
	repo := &memRepo{}

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("adminID", "a1")
		c.Set("adminEmail", "ops@agrihub.test")
	}, Recorder(repo, "adminID", "adminEmail", log))
	r.GET("/admin/coupons", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/admin/coupons", func(c *gin.Context) { c.Status(http.StatusCreated) })
	r.DELETE("/admin/coupons/:code", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.POST("/admin/coupons/:code/redeem", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodGet, "/admin/coupons", nil),
		httptest.NewRequest(http.MethodPost, "/admin/coupons", nil),
		httptest.NewRequest(http.MethodDelete, "/admin/coupons/NOPE", nil),
		httptest.NewRequest(http.MethodPost, "/admin/coupons/SPRING/redeem", nil),
	} {
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	if len(repo.entries) != 3 {
		t.Fatalf("GET must not be recorded; entries=%+v", repo.entries)
	}
	created, deleted, redeemed := repo.entries[0], repo.entries[1], repo.entries[2]
	if created.Action != "created_coupon" || created.Status != StatusSuccess || created.AdminEmail != "ops@agrihub.test" {
		t.Fatalf("created entry=%+v", created)
	}
	if deleted.Action != "deleted_coupon" || deleted.Status != StatusFailed || deleted.ResourceID != "NOPE" {
		t.Fatalf("deleted entry=%+v", deleted)
	}
	if redeemed.Action != "redeemed_coupon" || redeemed.ResourceType != "coupon" || redeemed.ResourceID != "SPRING" {
		t.Fatalf("redeemed entry=%+v", redeemed)
	}
}
