package client

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

// Endpoint is a parsed request target. It is either a LegacyQuery, where the
// query filters use the "field=eq.value" convention, or a RestPath.
type Endpoint interface {
	endpoint()
	// Segments are the path components after cleaning.
	Segments() []string
}

// LegacyQuery is a "resource?field=eq.N" target. Filters hold the values
// with the eq. operator already removed.
type LegacyQuery struct {
	Resource string
	Filters  map[string]string
}

// RestPath is a plain REST target, optionally with an ordinary query.
type RestPath struct {
	Path  []string
	Query url.Values
}

func (LegacyQuery) endpoint() {}
func (RestPath) endpoint()    {}

func (q LegacyQuery) Segments() []string { return splitPath(q.Resource) }
func (p RestPath) Segments() []string    { return p.Path }

// Route is the outcome of Translate; exactly one of the Route* types.
type Route interface {
	route()
}

// RouteEmpty answers [] without touching the network.
type RouteEmpty struct{}

// RouteProviderReviews reads /providers/{ID}/reviews.
type RouteProviderReviews struct{ ID string }

// RouteProfileLookup reads the providers collection and keeps the entry
// whose id or user_id equals ID.
type RouteProfileLookup struct{ ID string }

// RouteProviderOrders reads /orders/provider/{ID}.
type RouteProviderOrders struct{ ID string }

// RouteUserOrders reads /orders/user/{ID}.
type RouteUserOrders struct{ ID string }

// RouteOrderPatch addresses the single order /orders/{ID}.
type RouteOrderPatch struct{ ID string }

// RouteDirect is sent as is.
type RouteDirect struct{ Path string }

func (RouteEmpty) route()           {}
func (RouteProviderReviews) route() {}
func (RouteProfileLookup) route()   {}
func (RouteProviderOrders) route()  {}
func (RouteUserOrders) route()      {}
func (RouteOrderPatch) route()      {}
func (RouteDirect) route()          {}

// CleanEndpoint drops a leading "/", "api/" or "/api/".
func CleanEndpoint(endpoint string) string {
	endpoint = strings.TrimSpace(endpoint)
	endpoint = strings.TrimPrefix(endpoint, "/")
	endpoint = strings.TrimPrefix(endpoint, "api/")
	return strings.TrimPrefix(endpoint, "/")
}

// StripIDPrefix removes the legacy "id=eq." or "eq." operator from an id.
func StripIDPrefix(id string) string {
	id = strings.TrimSpace(id)
	id = strings.TrimPrefix(id, "id=eq.")
	return strings.TrimPrefix(id, "eq.")
}

// ValidID reports whether id, once its legacy prefix is removed, is a
// resolved number rather than an empty or placeholder value.
func ValidID(id string) bool {
	id = StripIDPrefix(id)
	if id == "" || isPlaceholder(id) {
		return false
	}
	n, err := strconv.ParseFloat(id, 64)
	return err == nil && !math.IsNaN(n) && !math.IsInf(n, 0)
}

func isPlaceholder(s string) bool {
	return s == "undefined" || s == "null"
}

// ParseEndpoint classifies a cleaned endpoint.
func ParseEndpoint(endpoint string) Endpoint {
	path, rawQuery, _ := strings.Cut(CleanEndpoint(endpoint), "?")
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		query = url.Values{}
	}

	legacy := false
	for _, values := range query {
		for _, v := range values {
			if strings.HasPrefix(v, "eq.") {
				legacy = true
			}
		}
	}
	if !legacy {
		return RestPath{Path: splitPath(path), Query: query}
	}

	filters := make(map[string]string, len(query))
	for key, values := range query {
		if len(values) > 0 {
			filters[key] = StripIDPrefix(values[0])
		}
	}
	return LegacyQuery{Resource: path, Filters: filters}
}

// Translate maps an endpoint written for either convention onto the REST
// routes the API serves.
func Translate(endpoint string) Route {
	parsed := ParseEndpoint(endpoint)
	if mentionsPlaceholder(parsed) {
		return RouteEmpty{}
	}

	segments := parsed.Segments()
	resource := ""
	if len(segments) > 0 {
		resource = segments[0]
	}
	filter := func(key string) string {
		switch e := parsed.(type) {
		case LegacyQuery:
			return e.Filters[key]
		case RestPath:
			return StripIDPrefix(e.Query.Get(key))
		}
		return ""
	}

	if strings.Contains(resource, "reviews") {
		if id := filter("provider_id"); ValidID(id) {
			return RouteProviderReviews{ID: id}
		}
	}

	switch {
	case resource == "professional_profiles":
		id := ""
		if len(segments) == 2 {
			id = StripIDPrefix(segments[1])
		} else if uid := filter("user_id"); uid != "" {
			id = uid
		} else {
			id = filter("id")
		}
		if ValidID(id) {
			return RouteProfileLookup{ID: id}
		}
	case (resource == "providers" || resource == "users") && len(segments) == 2:
		if id := StripIDPrefix(segments[1]); ValidID(id) {
			return RouteProfileLookup{ID: id}
		}
	}

	if resource == "service_orders" || resource == "orders" {
		if id := filter("provider_id"); ValidID(id) {
			return RouteProviderOrders{ID: id}
		}
		if id := filter("user_id"); ValidID(id) {
			return RouteUserOrders{ID: id}
		}
		if _, legacy := parsed.(LegacyQuery); legacy {
			if id := filter("id"); ValidID(id) {
				return RouteOrderPatch{ID: id}
			}
		}
	}

	return RouteDirect{Path: "/" + CleanEndpoint(endpoint)}
}

func mentionsPlaceholder(e Endpoint) bool {
	for _, s := range e.Segments() {
		if isPlaceholder(StripIDPrefix(s)) {
			return true
		}
	}
	switch v := e.(type) {
	case LegacyQuery:
		for _, f := range v.Filters {
			if isPlaceholder(f) {
				return true
			}
		}
	case RestPath:
		for _, values := range v.Query {
			for _, s := range values {
				if isPlaceholder(StripIDPrefix(s)) {
					return true
				}
			}
		}
	}
	return false
}

func splitPath(path string) []string {
	var out []string
	for _, s := range strings.Split(strings.Trim(path, "/"), "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// resourceID extracts the target id of a PUT endpoint such as
// "users/5", "providers/id=eq.5" or "users?id=eq.5".
func resourceID(endpoint string) string {
	parsed := ParseEndpoint(endpoint)
	if q, ok := parsed.(LegacyQuery); ok {
		if id, ok := q.Filters["id"]; ok {
			return id
		}
	}
	segments := parsed.Segments()
	if len(segments) == 0 {
		return ""
	}
	return StripIDPrefix(segments[len(segments)-1])
}
