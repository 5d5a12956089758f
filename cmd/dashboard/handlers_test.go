package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/swaggo/swag"

	apidocs "github.com/nambininasafidison/AgriHub-sub001/docs/dashboard"
	"github.com/nambininasafidison/AgriHub-sub001/internal/activity"
	"github.com/nambininasafidison/AgriHub-sub001/internal/admin"
	"github.com/nambininasafidison/AgriHub-sub001/internal/coupon"
)

//
// ---------- STUBS ----------
//

type memAdmins struct{ byEmail map[string]*admin.Admin }

func (m *memAdmins) Create(_ context.Context, a *admin.Admin) error {
	if _, ok := m.byEmail[a.Email]; ok {
		return admin.ErrAlreadyExist
	}
	m.byEmail[a.Email] = a
	return nil
}

func (m *memAdmins) GetByID(_ context.Context, id string) (*admin.Admin, error) {
	for _, a := range m.byEmail {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, admin.ErrNotFound
}

func (m *memAdmins) GetByEmail(_ context.Context, email string) (*admin.Admin, error) {
	a, ok := m.byEmail[email]
	if !ok {
		return nil, admin.ErrNotFound
	}
	return a, nil
}

type memCoupons struct {
	mu    sync.Mutex
	items map[string]*coupon.Coupon

	listLimit, listOffset int
}

func newMemCoupons() *memCoupons { return &memCoupons{items: map[string]*coupon.Coupon{}} }

func (m *memCoupons) Create(_ context.Context, c *coupon.Coupon) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[c.Code]; ok {
		return coupon.ErrCodeTaken
	}
	cp := *c
	cp.CreatedAt = time.Now().UTC()
	m.items[c.Code] = &cp
	return nil
}

func (m *memCoupons) GetByCode(_ context.Context, code string) (*coupon.Coupon, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.items[code]
	if !ok {
		return nil, coupon.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memCoupons) List(_ context.Context, limit, offset int) ([]coupon.Coupon, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listLimit, m.listOffset = limit, offset
	out := []coupon.Coupon{}
	for _, c := range m.items {
		out = append(out, *c)
	}
	return out, nil
}

func (m *memCoupons) SetActive(_ context.Context, code string, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.items[code]
	if !ok {
		return coupon.ErrNotFound
	}
	c.Active = active
	return nil
}

func (m *memCoupons) Delete(_ context.Context, code string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[code]; !ok {
		return false, nil
	}
	delete(m.items, code)
	return true, nil
}

func (m *memCoupons) Redeem(_ context.Context, code string, subtotal decimal.Decimal, now time.Time) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.items[code]
	if !ok {
		return decimal.Zero, coupon.ErrNotFound
	}
	d, err := c.Discount(subtotal, now)
	if err != nil {
		return decimal.Zero, err
	}
	c.UsedCount++
	return d, nil
}

type memActivity struct {
	mu      sync.Mutex
	entries []activity.Entry
}

func (m *memActivity) Insert(_ context.Context, e *activity.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, *e)
	return nil
}

func (m *memActivity) List(_ context.Context, limit, offset int) ([]activity.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]activity.Entry(nil), m.entries...), nil
}

//
// ---------- HELPERS ----------
//

type fixture struct {
	r        *gin.Engine
	coupons  *memCoupons
	activity *memActivity
	token    string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logrus.New()
	log.SetOutput(io.Discard)

	tokens, err := admin.NewTokens("test-secret", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	admins := &memAdmins{byEmail: map[string]*admin.Admin{}}
	if err := seedAdmin(context.Background(), admins, " Ops@AgriHub.test ", "s3cret-pass", log); err != nil {
		t.Fatalf("seed: %v", err)
	}
	// seeding twice is a no-op
	if err := seedAdmin(context.Background(), admins, "ops@agrihub.test", "other", log); err != nil {
		t.Fatalf("reseed: %v", err)
	}

	f := &fixture{coupons: newMemCoupons(), activity: &memActivity{}}
	f.r = newRouter(deps{
		admins:     admins,
		coupons:    f.coupons,
		activity:   f.activity,
		tokens:     tokens,
		log:        log,
		origins:    []string{"http://localhost:3001"},
		rateLimit:  100,
		rateWindow: time.Minute,
	})

	w := f.do(http.MethodPost, "/admin/login", `{"email":"ops@agrihub.test","password":"s3cret-pass"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("login status=%d body=%s", w.Code, w.Body.String())
	}
	var resp admin.LoginResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	f.token = resp.Token
	return f
}

func (f *fixture) do(method, target, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var rd io.Reader
	if body != "" {
		rd = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, target, rd)
	req.Header.Set("Content-Type", "application/json")
	if f.token != "" {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}
	f.r.ServeHTTP(w, req)
	return w
}

//
// ---------- TESTS ----------
//

func TestLogin(t *testing.T) {
	f := newFixture(t)
	if f.token == "" {
		t.Fatal("expected a token from a valid login")
	}
	f.token = ""

	cases := []struct {
		body string
		want int
	}{
		{`{"email":"ops@agrihub.test","password":"wrong"}`, http.StatusUnauthorized},
		{`{"email":"nobody@agrihub.test","password":"s3cret-pass"}`, http.StatusUnauthorized},
		{`{"email":"","password":""}`, http.StatusBadRequest},
		{`{"email":`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		if w := f.do(http.MethodPost, "/admin/login", tc.body); w.Code != tc.want {
			t.Fatalf("%s: status=%d want %d", tc.body, w.Code, tc.want)
		}
	}
}

func TestAdminRoutesRequireToken(t *testing.T) {
	f := newFixture(t)
	f.token = ""
	if w := f.do(http.MethodGet, "/admin/coupons", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	f.token = "not-a-jwt"
	if w := f.do(http.MethodPost, "/admin/coupons", `{}`); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if len(f.activity.entries) != 0 {
		t.Fatalf("rejected requests must not be recorded: %+v", f.activity.entries)
	}
}

func TestCouponLifecycle(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPost, "/admin/coupons", `{"code":"harvest10","kind":"percent","value":"10","max_uses":1}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status=%d body=%s", w.Code, w.Body.String())
	}
	var created coupon.Coupon
	_ = json.Unmarshal(w.Body.Bytes(), &created)
	if created.Code != "HARVEST10" || !created.Active || created.ID == "" {
		t.Fatalf("created=%+v", created)
	}

	if w := f.do(http.MethodPost, "/admin/coupons", `{"code":"HARVEST10","kind":"fixed","value":"5"}`); w.Code != http.StatusConflict {
		t.Fatalf("duplicate: expected 409, got %d", w.Code)
	}
	if w := f.do(http.MethodPost, "/admin/coupons", `{"code":"BAD","kind":"percent","value":"150"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("invalid: expected 400, got %d", w.Code)
	}

	if w := f.do(http.MethodGet, "/admin/coupons/harvest10", ""); w.Code != http.StatusOK {
		t.Fatalf("get status=%d", w.Code)
	}
	var list struct {
		Items []coupon.Coupon `json:"items"`
	}
	_ = json.Unmarshal(f.do(http.MethodGet, "/admin/coupons", "").Body.Bytes(), &list)
	if len(list.Items) != 1 {
		t.Fatalf("list=%+v", list.Items)
	}

	if w := f.do(http.MethodPatch, "/admin/coupons/HARVEST10", `{"active":false}`); w.Code != http.StatusNoContent {
		t.Fatalf("deactivate status=%d", w.Code)
	}
	if w := f.do(http.MethodPatch, "/admin/coupons/HARVEST10", `{}`); w.Code != http.StatusBadRequest {
		t.Fatalf("patch without active: expected 400, got %d", w.Code)
	}
	if w := f.do(http.MethodPost, "/admin/coupons/HARVEST10/quote", `{"subtotal":"80"}`); w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("inactive quote: expected 422, got %d", w.Code)
	}
	_ = f.do(http.MethodPatch, "/admin/coupons/HARVEST10", `{"active":true}`)

	w = f.do(http.MethodPost, "/admin/coupons/HARVEST10/quote", `{"subtotal":"80"}`)
	var q coupon.QuoteResponse
	_ = json.Unmarshal(w.Body.Bytes(), &q)
	if w.Code != http.StatusOK || !q.Discount.Equal(decimal.NewFromInt(8)) || !q.Total.Equal(decimal.NewFromInt(72)) {
		t.Fatalf("quote status=%d body=%s", w.Code, w.Body.String())
	}

	if w := f.do(http.MethodPost, "/admin/coupons/HARVEST10/redeem", `{"subtotal":"80"}`); w.Code != http.StatusOK {
		t.Fatalf("redeem status=%d body=%s", w.Code, w.Body.String())
	}
	if w := f.do(http.MethodPost, "/admin/coupons/HARVEST10/redeem", `{"subtotal":"80"}`); w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("exhausted redeem: expected 422, got %d", w.Code)
	}
	if w := f.do(http.MethodPost, "/admin/coupons/MISSING/quote", `{"subtotal":"80"}`); w.Code != http.StatusNotFound {
		t.Fatalf("missing quote: expected 404, got %d", w.Code)
	}

	if w := f.do(http.MethodDelete, "/admin/coupons/HARVEST10", ""); w.Code != http.StatusNoContent {
		t.Fatalf("delete status=%d", w.Code)
	}
	if w := f.do(http.MethodDelete, "/admin/coupons/HARVEST10", ""); w.Code != http.StatusNotFound {
		t.Fatalf("second delete: expected 404, got %d", w.Code)
	}
}

func TestActivityIsRecorded(t *testing.T) {
	f := newFixture(t)

	_ = f.do(http.MethodPost, "/admin/coupons", `{"code":"SPRING","kind":"fixed","value":"5"}`)
	_ = f.do(http.MethodPost, "/admin/coupons/SPRING/redeem", `{"subtotal":"20"}`)
	_ = f.do(http.MethodDelete, "/admin/coupons/NOPE", "")
	_ = f.do(http.MethodGet, "/admin/coupons", "")

	w := f.do(http.MethodGet, "/admin/activity", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var got struct {
		Items []activity.Entry `json:"items"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &got)

	want := []struct{ action, status string }{
		{"created_coupon", activity.StatusSuccess},
		{"redeemed_coupon", activity.StatusSuccess},
		{"deleted_coupon", activity.StatusFailed},
	}
	if len(got.Items) != len(want) {
		t.Fatalf("entries=%+v", got.Items)
	}
	for i, e := range got.Items {
		if e.Action != want[i].action || e.Status != want[i].status || e.AdminEmail != "ops@agrihub.test" {
			t.Fatalf("entry %d=%+v", i, e)
		}
	}
}

func TestInvalidateFacetsWithoutRedis(t *testing.T) {
	f := newFixture(t)
	if w := f.do(http.MethodDelete, "/admin/catalog/facets", ""); w.Code != http.StatusNoContent {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestListClampsPaging(t *testing.T) {
	f := newFixture(t)
	cases := []struct {
		query         string
		limit, offset int
	}{
		{"limit=500&offset=-3", 20, 0},
		{"limit=0", 20, 0},
		{"limit=abc&offset=xyz", 20, 0},
		{"limit=100&offset=40", 100, 40},
	}
	for _, tc := range cases {
		for _, path := range []string{"/admin/coupons", "/admin/activity"} {
			w := f.do(http.MethodGet, path+"?"+tc.query, "")
			if w.Code != http.StatusOK {
				t.Fatalf("%s?%s status=%d", path, tc.query, w.Code)
			}
			var got struct {
				Limit  int `json:"limit"`
				Offset int `json:"offset"`
			}
			_ = json.Unmarshal(w.Body.Bytes(), &got)
			if got.Limit != tc.limit || got.Offset != tc.offset {
				t.Fatalf("%s?%s echoed limit=%d offset=%d", path, tc.query, got.Limit, got.Offset)
			}
		}
		if f.coupons.listLimit != tc.limit || f.coupons.listOffset != tc.offset {
			t.Fatalf("%s: repo saw limit=%d offset=%d", tc.query, f.coupons.listLimit, f.coupons.listOffset)
		}
	}
}

// documentedOps reads the registered OpenAPI document and returns its
// operations as "METHOD /path" in gin's path syntax.
func documentedOps(t *testing.T, instance string) map[string]bool {
	t.Helper()
	raw, err := swag.ReadDoc(instance)
	if err != nil {
		t.Fatalf("read doc %q: %v", instance, err)
	}
	var doc struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("doc %q is not valid JSON: %v", instance, err)
	}
	ops := map[string]bool{}
	for path, methods := range doc.Paths {
		segs := strings.Split(path, "/")
		for i, s := range segs {
			if strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") {
				segs[i] = ":" + s[1:len(s)-1]
			}
		}
		for m := range methods {
			ops[strings.ToUpper(m)+" "+strings.Join(segs, "/")] = true
		}
	}
	return ops
}

func TestAdminRoutesAreDocumented(t *testing.T) {
	f := newFixture(t)
	ops := documentedOps(t, apidocs.InstanceName)

	routes := 0
	for _, rt := range f.r.Routes() {
		if !strings.HasPrefix(rt.Path, "/admin/") {
			continue
		}
		routes++
		if key := rt.Method + " " + rt.Path; !ops[key] {
			t.Fatalf("route %s is missing from the dashboard document", key)
		}
	}
	if len(ops) != routes {
		t.Fatalf("document has %d operations for %d admin routes", len(ops), routes)
	}
}
