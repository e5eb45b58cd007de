package storefront

import "testing"

func TestEnumerateMergesAlwaysCheck(t *testing.T) {
	e := NewEnumerator(nil)
	regions, err := e.Enumerate([]string{"br", "mx"})
	if err != nil {
		t.Fatalf("Enumerate: %v", err)
	}
	want := map[string]bool{"br": true, "mx": true, "us": true, "jp": true}
	got := make(map[string]bool, len(regions))
	for _, r := range regions {
		got[r] = true
	}
	for code := range want {
		if !got[code] {
			t.Errorf("expected region %s in schedule", code)
		}
	}
}

func TestEnumerateCollapsesDuplicatesAndCase(t *testing.T) {
	e := NewEnumerator(nil)
	regions, err := e.Enumerate([]string{"US", "us", " us "})
	if err != nil {
		t.Fatalf("Enumerate: %v", err)
	}
	count := 0
	for _, r := range regions {
		if r == "us" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected us exactly once, got %d", count)
	}
}

func TestEnumerateDropsUnknownCodes(t *testing.T) {
	e := NewEnumerator(nil)
	regions, err := e.Enumerate([]string{"xx", "zz"})
	if err != nil {
		t.Fatalf("Enumerate: %v", err)
	}
	for _, r := range regions {
		if r == "xx" || r == "zz" {
			t.Fatalf("unknown code %s survived enumeration", r)
		}
	}
}

func TestEnumerateFoldsUKAliasToGB(t *testing.T) {
	e := NewEnumerator(nil)
	regions, err := e.Enumerate([]string{"uk"})
	if err != nil {
		t.Fatalf("Enumerate: %v", err)
	}
	gb := 0
	for _, r := range regions {
		if r == "uk" {
			t.Fatal("uk survived enumeration; it shares gb's storefront")
		}
		if r == "gb" {
			gb++
		}
	}
	if gb != 1 {
		t.Fatalf("expected gb exactly once, got %d", gb)
	}
}

func TestEnumeratePriorityOrdering(t *testing.T) {
	e := NewEnumerator(nil)
	regions, err := e.Enumerate([]string{"au", "br"})
	if err != nil {
		t.Fatalf("Enumerate: %v", err)
	}
	if regions[0] != "us" || regions[1] != "gb" || regions[2] != "ca" || regions[3] != "au" {
		t.Fatalf("expected priority prefix us,gb,ca,au, got %v", regions[:4])
	}
}

func TestEnumerateDeterministic(t *testing.T) {
	e := NewEnumerator(nil)
	first, err := e.Enumerate([]string{"de", "br", "jp"})
	if err != nil {
		t.Fatalf("Enumerate: %v", err)
	}
	second, err := e.Enumerate([]string{"jp", "de", "br"})
	if err != nil {
		t.Fatalf("Enumerate: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("schedules differ in length: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("schedule differs at %d: %s vs %s", i, first[i], second[i])
		}
	}
}

func TestStorefrontID(t *testing.T) {
	id, ok := StorefrontID("us")
	if !ok || id != 143441 {
		t.Fatalf("StorefrontID(us) = %d, %v", id, ok)
	}
	if _, ok := StorefrontID("xx"); ok {
		t.Fatalf("expected xx to be unknown")
	}
	// uk aliases gb's storefront.
	gbID, _ := StorefrontID("gb")
	ukID, _ := StorefrontID("uk")
	if gbID != ukID {
		t.Fatalf("expected uk and gb to share a storefront, got %d and %d", ukID, gbID)
	}
}
