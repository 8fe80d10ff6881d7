package environment_test

import (
	"testing"
	"time"

	"github.com/bdobrica/Tomo/common/environment"
)

func TestStringOr(t *testing.T) {
	t.Setenv("TOMO_TEST_STR", "value")
	if got := environment.StringOr("TOMO_TEST_STR", "default"); got != "value" {
		t.Errorf("StringOr(set) = %q, want value", got)
	}
	if got := environment.StringOr("TOMO_TEST_STR_UNSET", "default"); got != "default" {
		t.Errorf("StringOr(unset) = %q, want default", got)
	}
}

func TestRequiredString(t *testing.T) {
	t.Setenv("TOMO_TEST_REQ", "present")
	if got, err := environment.RequiredString("TOMO_TEST_REQ"); err != nil || got != "present" {
		t.Errorf("RequiredString(set) = %q, %v", got, err)
	}
	if _, err := environment.RequiredString("TOMO_TEST_REQ_UNSET"); err == nil {
		t.Error("RequiredString(unset) should return an error")
	}
}

func TestIntOr(t *testing.T) {
	t.Setenv("TOMO_TEST_INT", "42")
	if got := environment.IntOr("TOMO_TEST_INT", 7); got != 42 {
		t.Errorf("IntOr(set) = %d, want 42", got)
	}
	t.Setenv("TOMO_TEST_INT_BAD", "not-a-number")
	if got := environment.IntOr("TOMO_TEST_INT_BAD", 7); got != 7 {
		t.Errorf("IntOr(unparseable) = %d, want 7", got)
	}
	if got := environment.IntOr("TOMO_TEST_INT_UNSET", 7); got != 7 {
		t.Errorf("IntOr(unset) = %d, want 7", got)
	}
}

func TestBoolOr(t *testing.T) {
	t.Setenv("TOMO_TEST_BOOL", "true")
	if !environment.BoolOr("TOMO_TEST_BOOL", false) {
		t.Error("BoolOr(true) = false")
	}
	t.Setenv("TOMO_TEST_BOOL_BAD", "yep")
	if environment.BoolOr("TOMO_TEST_BOOL_BAD", false) {
		t.Error("BoolOr(unparseable) should fall back to default")
	}
}

func TestDurationOr(t *testing.T) {
	t.Setenv("TOMO_TEST_DUR", "45s")
	if got := environment.DurationOr("TOMO_TEST_DUR", time.Minute); got != 45*time.Second {
		t.Errorf("DurationOr(set) = %v, want 45s", got)
	}
	if got := environment.DurationOr("TOMO_TEST_DUR_UNSET", time.Minute); got != time.Minute {
		t.Errorf("DurationOr(unset) = %v, want 1m", got)
	}
}

func TestStringSliceOr(t *testing.T) {
	t.Setenv("TOMO_TEST_SLICE", "a, b ,c,,")
	got := environment.StringSliceOr("TOMO_TEST_SLICE", nil)
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("StringSliceOr = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("StringSliceOr[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
