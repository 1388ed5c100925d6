package featureflags

import "testing"

func TestEnabled_BooleanValues(t *testing.T) {
	m := NewManager("a=on,b=off,c=true,d=false,e=1,f=0")

	if !m.Enabled("a", 1) || !m.Enabled("c", 1) || !m.Enabled("e", 1) {
		t.Fatal("expected enabled boolean values to evaluate true")
	}
	if m.Enabled("b", 1) || m.Enabled("d", 1) || m.Enabled("f", 1) {
		t.Fatal("expected disabled boolean values to evaluate false")
	}
	if m.Enabled("unknown", 1) {
		t.Fatal("unknown flags must be disabled")
	}
}

func TestEnabled_PercentageValues(t *testing.T) {
	m := NewManager("always=100%,never=0%,canary=25%,broken=abc%")

	if !m.Enabled("always", 1) {
		t.Fatal("100% rollout should always be enabled")
	}
	if m.Enabled("never", 1) || m.Enabled("broken", 1) {
		t.Fatal("0% and malformed rollouts should be disabled")
	}

	first := m.Enabled("canary", 42)
	for i := 0; i < 5; i++ {
		if got := m.Enabled("canary", 42); got != first {
			t.Fatal("rollout evaluation must be deterministic per user")
		}
	}

	if m.Enabled("canary", 0) {
		t.Fatal("percentage rollout requires non-zero userID")
	}
}

func TestDefaults(t *testing.T) {
	m := NewManager("")

	if m.Enabled(DeveloperOnlyPosting, 1) {
		t.Fatal("developer_only_posting must be off by default")
	}
	if !m.Enabled(LiveEvents, 1) {
		t.Fatal("live_events must be on by default")
	}

	m = NewManager("DEVELOPER_ONLY_POSTING = on")
	if !m.Enabled(DeveloperOnlyPosting, 1) {
		t.Fatal("configured value must override the default")
	}
}

func TestParseAndSnapshot(t *testing.T) {
	m := NewManager(" bad ,x=on, y = 20% ,z=off ")

	raw := m.Raw()
	if len(raw) != 5 {
		t.Fatalf("expected 3 parsed flags plus 2 defaults, got %d", len(raw))
	}
	if raw["x"] != "on" || raw["y"] != "20%" || raw["z"] != "off" {
		t.Fatalf("unexpected raw flags: %#v", raw)
	}

	snap := m.Snapshot(123)
	if len(snap) != 5 {
		t.Fatalf("expected snapshot size 5, got %d", len(snap))
	}

	names := m.Names()
	if names[0] != DeveloperOnlyPosting || names[len(names)-1] != "z" {
		t.Fatalf("names must be sorted: %v", names)
	}
}

func TestNilManager(t *testing.T) {
	var m *Manager
	if m.Enabled(LiveEvents, 1) {
		t.Fatal("nil manager must report every flag disabled")
	}
}
