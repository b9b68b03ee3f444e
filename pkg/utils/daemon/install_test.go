package daemon

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func stub(t *testing.T) (dir string, calls *[]string) {
	t.Helper()
	dir = t.TempDir()
	calls = &[]string{}

	origDir, origCtl := unitDir, systemctl
	unitDir = func() (string, error) { return dir, nil }
	systemctl = func(args ...string) error {
		*calls = append(*calls, strings.Join(args, " "))
		return nil
	}
	t.Cleanup(func() { unitDir, systemctl = origDir, origCtl })
	return dir, calls
}

func TestUnit(t *testing.T) {
	u := Unit("/usr/local/bin/numwiz", "/home/me/.config/numwiz/numwiz.json", "/tmp/numwiz.sock")
	want := "ExecStart=/usr/local/bin/numwiz daemon --config /home/me/.config/numwiz/numwiz.json --daemon-socket /tmp/numwiz.sock"
	if !strings.Contains(u, want) {
		t.Fatalf("unit does not contain %q:\n%s", want, u)
	}
	if strings.Contains(u, "/path/to/") {
		t.Fatalf("unit still has placeholders:\n%s", u)
	}
}

func TestInstallUninstall(t *testing.T) {
	dir, calls := stub(t)

	if err := Install("/etc/numwiz.json", "/tmp/numwiz.sock"); err != nil {
		t.Fatalf("Install failed: %v", err)
	}
	unitPath := filepath.Join(dir, unitName)
	b, err := os.ReadFile(unitPath)
	if err != nil {
		t.Fatalf("unit not written: %v", err)
	}
	if !strings.Contains(string(b), "--daemon-socket /tmp/numwiz.sock") {
		t.Fatalf("unexpected unit:\n%s", b)
	}

	if err := Uninstall(); err != nil {
		t.Fatalf("Uninstall failed: %v", err)
	}
	if _, err := os.Stat(unitPath); !os.IsNotExist(err) {
		t.Fatalf("unit should be removed, stat err = %v", err)
	}

	want := []string{"daemon-reload", "enable --now numwiz.service", "disable --now numwiz.service", "daemon-reload"}
	if strings.Join(*calls, ",") != strings.Join(want, ",") {
		t.Fatalf("systemctl calls = %q, want %q", *calls, want)
	}
}
