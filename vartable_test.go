package motionlink

import "testing"

func TestVarTable_SetGet(t *testing.T) {
	table := NewVarTable(10)

	if err := table.Set(3, -42); err != nil {
		t.Fatal(err)
	}
	if got, err := table.Get(3); err != nil || got != -42 {
		t.Errorf("Get(3) = %d, %v", got, err)
	}
	if got, err := table.Get(0); err != nil || got != 0 {
		t.Errorf("unset register Get(0) = %d, %v", got, err)
	}
}

func TestVarTable_Bounds(t *testing.T) {
	table := NewVarTable(10)

	if err := table.Set(10, 1); err == nil {
		t.Error("Set(10) on a 10-register table should fail")
	}
	if _, err := table.Get(10); err == nil {
		t.Error("Get(10) on a 10-register table should fail")
	}
}

func TestVarTable_OnChange(t *testing.T) {
	table := NewVarTable(10)

	var fired []int32
	table.OnChange = func(idx uint8, val int32) {
		if idx != 5 {
			t.Errorf("OnChange idx = %d, want 5", idx)
		}
		fired = append(fired, val)
	}

	table.Set(5, 7)
	table.Set(5, 7) // no change, no callback
	table.Set(5, 8)

	if len(fired) != 2 || fired[0] != 7 || fired[1] != 8 {
		t.Errorf("OnChange fired with %v, want [7 8]", fired)
	}
}
