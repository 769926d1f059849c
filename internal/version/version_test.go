package version

import "testing"

func TestGet(t *testing.T) {
	t.Parallel()

	first := Get()
	if first == "" {
		t.Fatal("Get() returned an empty version")
	}
	if second := Get(); second != first {
		t.Errorf("Get() = %q on second call, want %q", second, first)
	}
}
