package cache

import (
	"strings"
	"testing"
	"time"

	"github.com/law-makers/collegecrawl/pkg/models"
	"github.com/rs/zerolog"
)

func TestMemoryCache_SetGet(t *testing.T) {
	c := NewMemoryCache(1024*1024, zerolog.Nop())
	defer c.Close()

	page := &models.Page{URL: "https://gect.ac.in", Title: "GEC Thrissur"}
	if err := c.Set(KeyFromURL(page.URL), page, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, ok := c.Get(KeyFromURL("https://gect.ac.in/"))
	if !ok {
		t.Fatal("Expected cache hit for URL with trailing slash")
	}
	if got.Title != "GEC Thrissur" {
		t.Errorf("Expected cached title, got %q", got.Title)
	}

	hits, misses, _ := c.Stats()
	if hits != 1 || misses != 0 {
		t.Errorf("Expected 1 hit and 0 misses, got %d/%d", hits, misses)
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(1024*1024, zerolog.Nop())
	defer c.Close()

	c.Set("k", &models.Page{URL: "k"}, time.Millisecond)
	time.Sleep(5 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Error("Expected expired entry to miss")
	}
	if c.Len() != 0 {
		t.Errorf("Expected expired entry to be removed, got %d entries", c.Len())
	}
}

func TestMemoryCache_EvictsLeastRecentlyUsed(t *testing.T) {
	// Each page is ~1KB overhead + 1000 bytes of HTML.
	c := NewMemoryCache(4500, zerolog.Nop())
	defer c.Close()

	body := strings.Repeat("x", 1000)
	c.Set("a", &models.Page{HTML: body}, time.Minute)
	c.Set("b", &models.Page{HTML: body}, time.Minute)
	c.Get("a")
	c.Set("c", &models.Page{HTML: body}, time.Minute)

	if _, ok := c.Get("b"); ok {
		t.Error("Expected least recently used entry to be evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("Expected recently used entry to survive")
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("Expected newest entry to be present")
	}
}

func TestMemoryCache_Clear(t *testing.T) {
	c := NewMemoryCache(0, zerolog.Nop())
	defer c.Close()

	c.Set("a", &models.Page{}, time.Minute)
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Expected empty cache after Clear, got %d", c.Len())
	}
}
