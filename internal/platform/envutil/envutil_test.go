package envutil

import (
	"reflect"
	"testing"
	"time"
)

func TestEnvHelpers(t *testing.T) {
	t.Setenv("FOTH_INT", "42")
	t.Setenv("FOTH_BAD_INT", "forty")
	t.Setenv("FOTH_BOOL", "yes")
	t.Setenv("FOTH_LIST", " http://a.test , ,http://b.test")
	t.Setenv("FOTH_SECONDS", "5")

	if got := Int("FOTH_INT", 1, nil); got != 42 {
		t.Fatalf("Int: want=42 got=%d", got)
	}
	if got := Int("FOTH_BAD_INT", 7, nil); got != 7 {
		t.Fatalf("Int bad: want=7 got=%d", got)
	}
	if got := Int("FOTH_MISSING", 3, nil); got != 3 {
		t.Fatalf("Int missing: want=3 got=%d", got)
	}
	if !Bool("FOTH_BOOL", false, nil) {
		t.Fatalf("Bool: want=true")
	}
	want := []string{"http://a.test", "http://b.test"}
	if got := List("FOTH_LIST", nil, nil); !reflect.DeepEqual(got, want) {
		t.Fatalf("List: want=%v got=%v", want, got)
	}
	if got := Seconds("FOTH_SECONDS", time.Minute, nil); got != 5*time.Second {
		t.Fatalf("Seconds: want=5s got=%v", got)
	}
	if got := String("FOTH_MISSING", "dflt", nil); got != "dflt" {
		t.Fatalf("String missing: want=dflt got=%q", got)
	}
}
