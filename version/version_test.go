package version

import "testing"

func TestGetFullVersion(t *testing.T) {
	if got := GetFullVersion(); got != "dev" {
		t.Errorf("expected dev, got %s", got)
	}

	oldVersion, oldCommit, oldDate := Version, GitCommit, BuildDate
	defer func() { Version, GitCommit, BuildDate = oldVersion, oldCommit, oldDate }()

	Version, GitCommit, BuildDate = "v1.2.0", "abc123", "2026-10-01"
	expected := "v1.2.0 (commit abc123, built 2026-10-01)"
	if got := GetFullVersion(); got != expected {
		t.Errorf("expected %s, got %s", expected, got)
	}
	if got := GetVersion(); got != "v1.2.0" {
		t.Errorf("expected v1.2.0, got %s", got)
	}
}
