package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/salespipe/crm-backend/internal/entity"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

func queryInt(r *http.Request, key string, fallback int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i >= 0 {
			return i
		}
	}
	return fallback
}

func pagination(r *http.Request) (limit, offset int) {
	limit = queryInt(r, "limit", defaultPageSize)
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return limit, queryInt(r, "offset", 0)
}

func queryTime(r *http.Request, key string) *time.Time {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return &t
	}
	// Plain dates are accepted for dashboard period pickers.
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return &t
	}
	return nil
}

func leadFilterFrom(r *http.Request) entity.LeadFilter {
	q := r.URL.Query()
	f := entity.LeadFilter{
		OwnerID: q.Get("owner_id"),
		Status:  entity.LeadStatus(q.Get("status")),
		Source:  q.Get("source"),
		LabelID: q.Get("label_id"),
		Search:  q.Get("search"),
		From:    queryTime(r, "from"),
		To:      queryTime(r, "to"),
	}
	f.Limit, f.Offset = pagination(r)
	return f
}
