package city

import "testing"

func TestResolveKnown(t *testing.T) {
	c := Resolve("almaty")
	if c.Key != "almaty" || c.Provider != "Almaty" || c.Country != "Kazakhstan" {
		t.Fatalf("got %+v", c)
	}
}

func TestResolveUnknownFallsBack(t *testing.T) {
	for _, key := range []string{"", "narnia", "ASTANA"} {
		if c := Resolve(key); c.Key != DefaultKey {
			t.Errorf("Resolve(%q) = %q, want default", key, c.Key)
		}
	}
}

func TestKnown(t *testing.T) {
	if !Known("shymkent") {
		t.Fatal("shymkent should be known")
	}
	if Known("narnia") {
		t.Fatal("narnia should not be known")
	}
}

func TestAllContainsDefault(t *testing.T) {
	found := false
	for _, c := range All() {
		if c.Key == DefaultKey {
			found = true
		}
	}
	if !found {
		t.Fatal("default city missing from All()")
	}
}
