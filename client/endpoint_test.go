package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanEndpoint(t *testing.T) {
	for in, want := range map[string]string{
		"/api/providers": "providers",
		"api/providers":  "providers",
		"/providers":     "providers",
		"providers":      "providers",
		" /api/orders/1": "orders/1",
	} {
		assert.Equal(t, want, CleanEndpoint(in), in)
	}
}

func TestValidID(t *testing.T) {
	for id, want := range map[string]bool{
		"7":         true,
		"eq.7":      true,
		"id=eq.7":   true,
		"":          false,
		"eq.":       false,
		"undefined": false,
		"eq.null":   false,
		"abc":       false,
		"NaN":       false,
	} {
		assert.Equal(t, want, ValidID(id), id)
	}
}

func TestParseEndpoint(t *testing.T) {
	legacy, ok := ParseEndpoint("/api/service_orders?provider_id=eq.4&status=eq.pending").(LegacyQuery)
	if assert.True(t, ok) {
		assert.Equal(t, "service_orders", legacy.Resource)
		assert.Equal(t, "4", legacy.Filters["provider_id"])
		assert.Equal(t, "pending", legacy.Filters["status"])
	}

	rest, ok := ParseEndpoint("providers?nicho=domestica").(RestPath)
	if assert.True(t, ok) {
		assert.Equal(t, []string{"providers"}, rest.Path)
		assert.Equal(t, "domestica", rest.Query.Get("nicho"))
	}
}

func TestTranslate(t *testing.T) {
	cases := []struct {
		endpoint string
		want     Route
	}{
		{"service_orders?provider_id=eq.undefined", RouteEmpty{}},
		{"providers/null", RouteEmpty{}},
		{"orders/user/undefined", RouteEmpty{}},
		{"reviews?provider_id=eq.7", RouteProviderReviews{ID: "7"}},
		{"/api/reviews?provider_id=7", RouteProviderReviews{ID: "7"}},
		{"professional_profiles?user_id=eq.3", RouteProfileLookup{ID: "3"}},
		{"professional_profiles/3", RouteProfileLookup{ID: "3"}},
		{"providers/3", RouteProfileLookup{ID: "3"}},
		{"users/id=eq.9", RouteProfileLookup{ID: "9"}},
		{"service_orders?provider_id=eq.4", RouteProviderOrders{ID: "4"}},
		{"orders?user_id=eq.5", RouteUserOrders{ID: "5"}},
		{"service_orders?id=eq.12", RouteOrderPatch{ID: "12"}},
		{"providers?id=5", RouteDirect{Path: "/providers?id=5"}},
		{"providers/3/reviews", RouteDirect{Path: "/providers/3/reviews"}},
		{"/api/orders/user/5", RouteDirect{Path: "/orders/user/5"}},
		{"users/find-by-email?email=a@b.com", RouteDirect{Path: "/users/find-by-email?email=a@b.com"}},
	}
	for _, tc := range cases {
		t.Run(tc.endpoint, func(t *testing.T) {
			assert.Equal(t, tc.want, Translate(tc.endpoint))
		})
	}
}

func TestResourceID(t *testing.T) {
	assert.Equal(t, "5", resourceID("users/5"))
	assert.Equal(t, "5", resourceID("/api/providers/id=eq.5"))
	assert.Equal(t, "5", resourceID("users?id=eq.5"))
	assert.Equal(t, "", resourceID(""))
}
