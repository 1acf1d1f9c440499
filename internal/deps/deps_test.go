package deps

import "testing"

func TestCheckBinaries(t *testing.T) {
	results := CheckBinaries([]Requirement{
		{Name: "Shell", Command: "sh", Description: "always present on POSIX"},
		{Name: "Ghost", Command: "definitely-not-a-binary-on-path"},
		{Name: "Blank", Command: "   ", Optional: true},
	})
	if len(results) != 3 {
		t.Fatalf("expected 3 statuses, got %d", len(results))
	}
	if !results[0].Available {
		t.Errorf("sh should resolve: %+v", results[0])
	}
	if results[0].Command == "sh" {
		t.Errorf("available status should carry the resolved path, got %q", results[0].Command)
	}
	if results[1].Available || results[1].Detail == "" {
		t.Errorf("missing binary should fail with detail: %+v", results[1])
	}
	if results[2].Available || results[2].Detail != "command not configured" {
		t.Errorf("blank command should fail as unconfigured: %+v", results[2])
	}
	if !results[2].Optional {
		t.Error("optional flag should carry through")
	}
}
