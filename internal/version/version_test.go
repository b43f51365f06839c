package version

import "testing"

func TestGet(t *testing.T) {
	if got := Get(); got != "0.1.0" {
		t.Errorf("Get() = %q, want embedded 0.1.0", got)
	}

	Override = " 2.0.0-rc1\n"
	t.Cleanup(func() { Override = "" })
	if got := Get(); got != "2.0.0-rc1" {
		t.Errorf("Get() = %q, want override", got)
	}
}
