package arm

import (
	"os"
	"path/filepath"
	"testing"
)

func writeJobsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jobs.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadJobSet(t *testing.T) {
	path := writeJobsFile(t, `{
		"2": [
			{"name": "pick-a", "poses": [{"base": 10, "lift": -20}], "settle_ms": 100},
			{"name": "pick-b", "poses": [{"base": 30, "lift": -20}], "settle_ms": 100}
		],
		"5": [
			{"name": "home", "poses": [{"base": 0, "lift": 0}]}
		]
	}`)

	js, err := LoadJobSet(path)
	if err != nil {
		t.Fatal(err)
	}

	r, err := js.Routine(2, 1)
	if err != nil {
		t.Fatal(err)
	}
	if r.Name != "pick-b" {
		t.Errorf("Routine(2,1).Name = %q, want pick-b", r.Name)
	}
	if got := r.Poses[0][Joint("base")]; got != 30 {
		t.Errorf("pose base = %v, want 30", got)
	}
}

func TestJobSet_SlotWrapsOverVariants(t *testing.T) {
	js := JobSet{
		5: {{Name: "only", Poses: []Pose{{"base": 0}}}},
	}

	// A single-variant job plays the same routine on every slot.
	for slot := 0; slot < 3; slot++ {
		r, err := js.Routine(5, slot)
		if err != nil {
			t.Fatal(err)
		}
		if r.Name != "only" {
			t.Errorf("Routine(5,%d).Name = %q", slot, r.Name)
		}
	}
}

func TestJobSet_UnknownJob(t *testing.T) {
	js := JobSet{}
	if _, err := js.Routine(9, 0); err == nil {
		t.Error("Routine(9,0) on an empty set should fail")
	}
}

func TestLoadJobSet_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad key", `{"pick": [{"name": "a", "poses": [{"base": 0}]}]}`},
		{"no routines", `{"2": []}`},
		{"no poses", `{"2": [{"name": "a", "poses": []}]}`},
	}
	for _, tt := range tests {
		path := writeJobsFile(t, tt.content)
		if _, err := LoadJobSet(path); err == nil {
			t.Errorf("%s: LoadJobSet should fail", tt.name)
		}
	}
}
