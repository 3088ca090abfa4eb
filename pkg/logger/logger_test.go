package logger

import "testing"

func TestNew(t *testing.T) {
	for _, level := range []string{"", "debug", "warn"} {
		l, err := New(level)
		if err != nil {
			t.Fatalf("New(%q): %v", level, err)
		}
		_ = l.Sync()
	}

	if _, err := New("loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestMustPanicsOnError(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	Must(New("loud"))
}
