// Package activity records dashboard mutations.
package activity

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

type Entry struct {
	ID           string    `json:"id"`
	AdminID      string    `json:"admin_id"`
	AdminEmail   string    `json:"admin_email"`
	Action       string    `json:"action"`
	ResourceType string    `json:"resource_type"`
	ResourceID   string    `json:"resource_id,omitempty"`
	Status       string    `json:"status"`
	HTTPStatus   int       `json:"http_status"`
	IPAddress    string    `json:"ip_address"`
	UserAgent    string    `json:"user_agent"`
	CreatedAt    time.Time `json:"created_at"`
}

type Repository interface {
	Insert(ctx context.Context, e *Entry) error
	List(ctx context.Context, limit, offset int) ([]Entry, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) Insert(ctx context.Context, e *Entry) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return r.db.QueryRow(ctx, `
		INSERT INTO activity_logs (id, admin_id, admin_email, action, resource_type, resource_id,
		                           status, http_status, ip_address, user_agent, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,NOW())
		RETURNING created_at
	`, e.ID, e.AdminID, e.AdminEmail, e.Action, e.ResourceType, e.ResourceID,
		e.Status, e.HTTPStatus, e.IPAddress, e.UserAgent).Scan(&e.CreatedAt)
}

func (r *PGRepo) List(ctx context.Context, limit, offset int) ([]Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.db.Query(ctx, `
		SELECT id, admin_id, admin_email, action, resource_type, resource_id,
		       status, http_status, ip_address, user_agent, created_at
		FROM activity_logs
		ORDER BY created_at DESC, id
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.AdminID, &e.AdminEmail, &e.Action, &e.ResourceType, &e.ResourceID,
			&e.Status, &e.HTTPStatus, &e.IPAddress, &e.UserAgent, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

var methodToVerb = map[string]string{
	http.MethodPost:   "created",
	http.MethodPut:    "updated",
	http.MethodPatch:  "updated",
	http.MethodDelete: "deleted",
}

// ResourceType derives the singular resource name from a route template,
// e.g. "/admin/coupons/:code" → "coupon".
func ResourceType(route string) string {
	parts := strings.Split(strings.Trim(route, "/"), "/")
	for i := len(parts) - 1; i >= 0; i-- {
		p := parts[i]
		if p == "" || strings.HasPrefix(p, ":") || strings.HasPrefix(p, "*") {
			continue
		}
		if p == "admin" {
			break
		}
		return strings.TrimSuffix(p, "s")
	}
	return ""
}

// Recorder logs every non-GET request once the handler has run. It must
// follow the middleware that sets adminIDKey and adminEmailKey.
func Recorder(repo Repository, adminIDKey, adminEmailKey string, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		verb, ok := methodToVerb[c.Request.Method]
		if !ok {
			c.Next()
			return
		}
		c.Next()

		resource := ResourceType(c.FullPath())
		if resource == "" {
			return
		}
		resourceID := c.Param("code")
		if resourceID == "" {
			resourceID = c.Param("id")
		}
		status := StatusSuccess
		if c.Writer.Status() >= 400 {
			status = StatusFailed
		}
		switch resource {
		case "quote":
			verb = "requested"
		case "redeem":
			verb, resource = "redeemed", "coupon"
		}

		e := &Entry{
			ID:           uuid.NewString(),
			AdminID:      c.GetString(adminIDKey),
			AdminEmail:   c.GetString(adminEmailKey),
			Action:       verb + "_" + resource,
			ResourceType: resource,
			ResourceID:   resourceID,
			Status:       status,
			HTTPStatus:   c.Writer.Status(),
			IPAddress:    c.ClientIP(),
			UserAgent:    c.Request.UserAgent(),
		}
		// the request context may already be cancelled once the response is written
		ctx := context.WithoutCancel(c.Request.Context())
		if err := repo.Insert(ctx, e); err != nil {
			log.WithError(err).WithField("action", e.Action).Error("[activity] failed to record")
			return
		}
		log.WithFields(logrus.Fields{"action": e.Action, "admin": e.AdminEmail, "status": status}).Info("[activity]")
	}
}
