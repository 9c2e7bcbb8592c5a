package cache

import (
	"errors"
	"testing"
	"time"
)

func TestParseURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"valid-redis", "redis://localhost:6379", false},
		{"valid-with-db", "redis://localhost:6379/0", false},
		{"wrong-scheme", "http://localhost:6379", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseURL() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNew_UnreachableHost(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping unreachable host test in short mode")
	}

	ctx := t.Context()
	_, err := New(ctx, "redis://localhost:59999")
	if err == nil {
		t.Fatal("New() should return error for unreachable host")
	}
}

func TestJSONRoundTrip_LocalRedis(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping redis test in short mode")
	}

	ctx := t.Context()
	c, err := New(ctx, "redis://localhost:6379/15")
	if err != nil {
		t.Skipf("redis not available: %v", err)
	}
	defer c.Close()

	type payload struct {
		Title string `json:"title"`
	}
	if err := c.SetJSON(ctx, "cache_test_key", payload{Title: "Fractions"}, time.Minute); err != nil {
		t.Fatalf("SetJSON() error = %v", err)
	}
	var got payload
	if err := c.GetJSON(ctx, "cache_test_key", &got); err != nil {
		t.Fatalf("GetJSON() error = %v", err)
	}
	if got.Title != "Fractions" {
		t.Errorf("Title = %q, want Fractions", got.Title)
	}

	if err := c.GetJSON(ctx, "cache_test_missing", &got); !errors.Is(err, ErrMiss) {
		t.Errorf("GetJSON(missing) error = %v, want ErrMiss", err)
	}
}
