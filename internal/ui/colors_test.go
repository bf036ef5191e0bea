package ui

import "testing"

func TestStyle(t *testing.T) {
	defer SetEnabled(Enabled())

	SetEnabled(true)
	if got := Success("ok"); got != ColorGreen+"ok"+ColorReset {
		t.Errorf("Expected green text, got %q", got)
	}
	if got := Info("tip"); got != ColorDim+ColorYellow+"tip"+ColorReset {
		t.Errorf("Expected dim yellow text, got %q", got)
	}

	SetEnabled(false)
	if got := Error("boom"); got != "boom" {
		t.Errorf("Expected plain text when disabled, got %q", got)
	}
}
