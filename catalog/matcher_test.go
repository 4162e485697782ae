package catalog

import "testing"

func TestResolveExactMatchCaseInsensitive(t *testing.T) {
	t.Parallel()

	m := NewMatcher()
	name, ok := m.Resolve("cardstock")
	if !ok {
		t.Fatal("expected cardstock to resolve")
	}
	if name != "Cardstock" {
		t.Fatalf("unexpected match: %s", name)
	}

	name, ok = m.Resolve("  A4 PAPER ")
	if !ok || name != "A4 paper" {
		t.Fatalf("unexpected match: %s ok=%v", name, ok)
	}
}

func TestResolveSubstringPrefersLongestCatalogName(t *testing.T) {
	t.Parallel()

	m := NewMatcher()
	// "glossy paper" (12 chars) beats "paper" style partials inside the
	// request text.
	name, ok := m.Resolve("premium glossy paper for brochures")
	if !ok || name != "Glossy paper" {
		t.Fatalf("unexpected match: %s ok=%v", name, ok)
	}
}

func TestResolveRequestContainedInCatalogName(t *testing.T) {
	t.Parallel()

	m := NewMatcher()
	name, ok := m.Resolve("washi")
	if !ok || name != "Decorative adhesive tape (washi tape)" {
		t.Fatalf("unexpected match: %s ok=%v", name, ok)
	}
}

func TestResolveTokenOverlapFallback(t *testing.T) {
	t.Parallel()

	m := NewMatcher()
	// No substring either way, but shares the tokens "paper" and "poster".
	name, ok := m.Resolve("poster printing paper")
	if !ok || name != "Poster paper" {
		t.Fatalf("unexpected match: %s ok=%v", name, ok)
	}
}

func TestResolveUnresolved(t *testing.T) {
	t.Parallel()

	m := NewMatcher()
	if name, ok := m.Resolve("industrial staplers"); ok {
		t.Fatalf("expected no match, got %s", name)
	}
	if _, ok := m.Resolve("   "); ok {
		t.Fatal("expected no match for blank input")
	}
}

// "A4 glossy paper" denotes two catalog entries; the matcher's contract is to
// return its single best guess and leave line-item splitting to the caller.
func TestResolveAmbiguousRequestReturnsSingleBestGuess(t *testing.T) {
	t.Parallel()

	m := NewMatcher()
	name, ok := m.Resolve("A4 glossy paper")
	if !ok {
		t.Fatal("expected a best-guess match")
	}
	// "glossy paper" is the longest contained catalog name (12 > 8).
	if name != "Glossy paper" {
		t.Fatalf("unexpected best guess: %s", name)
	}
}

func TestCatalogLookup(t *testing.T) {
	t.Parallel()

	if len(Items()) != 46 {
		t.Fatalf("unexpected catalog size: %d", len(Items()))
	}
	it, ok := Lookup("Notepads")
	if !ok {
		t.Fatal("expected Notepads in catalog")
	}
	if it.UnitPrice.StringFixed(2) != "2.00" {
		t.Fatalf("unexpected unit price: %s", it.UnitPrice)
	}
	if _, ok := Lookup("notepads"); ok {
		t.Fatal("Lookup must be exact-name only")
	}
}
