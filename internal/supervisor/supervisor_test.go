package supervisor

import (
	"path/filepath"
	"testing"
)

func TestCardReset(t *testing.T) {
	tests := []struct {
		status int
		want   bool
	}{
		{0, false},
		{statusCardReset, true},
		{statusCardReset | statusOverheat, true},
		{statusOverheat | statusFanFault, false},
	}
	for _, tt := range tests {
		if got := CardReset(tt.status); got != tt.want {
			t.Errorf("CardReset(%#x): got %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestOpenMissingDevice(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "watchdog"))
	if err == nil {
		t.Error("expected error opening missing device")
	}
}

func TestNopKeeper(t *testing.T) {
	var k Keeper = Nop{}
	if err := k.Keepalive(); err != nil {
		t.Errorf("Keepalive: %v", err)
	}
	if err := k.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
