package api

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	service "github.com/okian/epochline/internal/app"
	"github.com/okian/epochline/internal/domain/model"
)

// filterParams reads ?scope=a,b&min_importance=n.
func filterParams(q url.Values) (model.Filter, error) {
	var f model.Filter
	if raw := q.Get("scope"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				f.Scopes = append(f.Scopes, s)
			}
		}
	}
	if raw := q.Get("min_importance"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return model.Filter{}, fmt.Errorf("min_importance: %w", err)
		}
		f.MinImportance = n
	}
	return f, nil
}

// snapshotParams reads ?width&height&k&x plus the filter parameters.
// Missing values keep their zero value so the service defaults apply.
func snapshotParams(q url.Values) (service.SnapshotRequest, error) {
	var req service.SnapshotRequest
	fields := []struct {
		key string
		dst *float64
	}{
		{"width", &req.Viewport.Width},
		{"height", &req.Viewport.Height},
		{"k", &req.Transform.K},
		{"x", &req.Transform.X},
	}
	for _, f := range fields {
		raw := q.Get(f.key)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return service.SnapshotRequest{}, fmt.Errorf("%s: %w", f.key, err)
		}
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return service.SnapshotRequest{}, fmt.Errorf("%s: not a finite number", f.key)
		}
		*f.dst = v
	}
	filter, err := filterParams(q)
	if err != nil {
		return service.SnapshotRequest{}, err
	}
	req.Filter = filter
	return req, nil
}
