package version

import "testing"

func TestVersion(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if BuildTime == "" || GitCommit == "" {
		t.Error("build info should be initialized")
	}
}

func TestString(t *testing.T) {
	old := Version
	oldCommit := GitCommit
	t.Cleanup(func() { Version, GitCommit = old, oldCommit })

	Version = "v1.2.3"
	GitCommit = "abc"
	if got := String(); got != "v1.2.3 (commit abc, built "+BuildTime+")" {
		t.Errorf("String() = %q", got)
	}
}
