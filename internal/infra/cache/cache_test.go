package cache_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/abreu/savings-core-go/internal/domain"
	"github.com/abreu/savings-core-go/internal/infra/cache"
)

func product(id string) *domain.Product {
	return &domain.Product{
		ID:                id,
		Name:              "Regular Savings",
		Currency:          "USD",
		NominalAnnualRate: decimal.NewFromInt(4),
	}
}

func TestSetGetDelete(t *testing.T) {
	c := cache.New[*domain.Product](5 * time.Minute)
	c.Set("sav-1", product("sav-1"))
	c.Set("sav-2", product("sav-2"))
	c.Delete("sav-2")

	cases := []struct {
		name string
		key  string
		want bool
	}{
		{"hit", "sav-1", true},
		{"deleted", "sav-2", false},
		{"never cached", "sav-3", false},
	}
	for _, tc := range cases {
		got, ok := c.Get(tc.key)
		if ok != tc.want {
			t.Errorf("%s: Get(%q) ok=%v, want %v", tc.name, tc.key, ok, tc.want)
		}
		if ok && got.ID != tc.key {
			t.Errorf("%s: got product %q", tc.name, got.ID)
		}
	}
}

func TestExpiration(t *testing.T) {
	c := cache.New[*domain.Product](50 * time.Millisecond)
	c.Set("sav-1", product("sav-1"))

	time.Sleep(100 * time.Millisecond)
	if _, ok := c.Get("sav-1"); ok {
		t.Fatal("expected entry to expire")
	}
}

func TestOverwriteRefreshesValue(t *testing.T) {
	c := cache.New[*domain.Product](5 * time.Minute)
	c.Set("sav-1", product("sav-1"))

	updated := product("sav-1")
	updated.NominalAnnualRate = decimal.RequireFromString("4.5")
	c.Set("sav-1", updated)

	got, ok := c.Get("sav-1")
	if !ok || got.NominalAnnualRate.String() != "4.5" {
		t.Fatalf("expected refreshed rate 4.5, got ok=%v", ok)
	}
}
