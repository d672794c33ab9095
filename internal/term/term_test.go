package term

import (
	"os"
	"testing"

	"github.com/backmassage/reelorder/internal/config"
)

func TestConfigure(t *testing.T) {
	if !Configure(config.ColorAlways) || !Enabled() || Red == "" {
		t.Fatal("ColorAlways should enable colors")
	}
	if Configure(config.ColorNever) || Enabled() || Red != "" {
		t.Fatal("ColorNever should disable colors")
	}
}

func TestConfigure_AutoRespectsNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	if Configure(config.ColorAuto) {
		t.Error("NO_COLOR should disable auto colors")
	}
}

func TestIsTerminal(t *testing.T) {
	if IsTerminal(nil) {
		t.Error("nil file is not a terminal")
	}
	f, err := os.CreateTemp(t.TempDir(), "x")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if IsTerminal(f) {
		t.Error("regular file is not a terminal")
	}
}
