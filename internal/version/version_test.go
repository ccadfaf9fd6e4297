package version

import (
	"strings"
	"testing"
)

func TestBanner(t *testing.T) {
	b := Banner("crmweb")

	if !strings.Contains(b, "crmweb (v"+Version+")") {
		t.Errorf("banner does not name the program and version:\n%s", b)
	}
	if !strings.Contains(b, "Winsby Group LLC") {
		t.Errorf("banner has no copyright line:\n%s", b)
	}
}
