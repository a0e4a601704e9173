package endf

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestGrow_Monotonic(t *testing.T) {
	var s []int
	for i := 0; i < 5; i++ {
		before := len(s)
		s = Grow(s, i+1)
		if len(s) != before+1 {
			t.Fatalf("Grow to index %d: len = %d, want %d", i, len(s), before+1)
		}
		s[i] = i * 10
	}
	s = Grow(s, 2)
	if want := []int{0, 10, 20, 30, 40}; !reflect.DeepEqual(s, want) {
		t.Errorf("Grow() = %v, want %v", s, want)
	}
}

func TestGrow_Nested(t *testing.T) {
	var s [][]float64
	s = Grow(s, 1)
	s[0] = Grow(s[0], 2)
	s[0][1] = 1.5
	s = Grow(s, 2)
	s[1] = Grow(s[1], 1)
	s[1][0] = 2.5
	want := [][]float64{{0, 1.5}, {2.5}}
	if !reflect.DeepEqual(s, want) {
		t.Errorf("nested Grow() = %v, want %v", s, want)
	}
}

func TestDict_Section(t *testing.T) {
	root := Dict{}
	a := root.Section("a")
	a["x"] = 1
	if again := root.Section("a"); again["x"] != 1 {
		t.Errorf("Section() did not return the existing child")
	}
	iso := root.Section("iso").Section(2)
	iso["ZAI"] = 26056
	out, err := json.Marshal(root)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"a":{"x":1},"iso":{"2":{"ZAI":26056}}}`
	if string(out) != want {
		t.Errorf("Marshal() = %s, want %s", out, want)
	}
}

func TestMatrix2D(t *testing.T) {
	m := NewMatrix2D()
	if m.Has(0, 0) {
		t.Error("empty matrix reports written element")
	}
	m.Set(0, 0, 1)
	m.Set(1, 2, 5)
	if !m.Has(1, 2) || m.Has(1, 1) {
		t.Error("Has() does not follow Set()")
	}
	if got := m.At(1, 2); got != 5 {
		t.Errorf("At(1, 2) = %v, want 5", got)
	}
	if got := m.At(7, 7); got != 0 {
		t.Errorf("At(7, 7) = %v, want 0", got)
	}
	m.ClearRead()
	if m.Has(0, 0) {
		t.Error("ClearRead() kept written mask")
	}
	if got := m.At(0, 0); got != 1 {
		t.Errorf("ClearRead() dropped value: At(0, 0) = %v", got)
	}
	out, _ := json.Marshal(m)
	if string(out) != "[[1],[0,0,5]]" {
		t.Errorf("Marshal() = %s", out)
	}
}

func TestState_Cell(t *testing.T) {
	s := NewState()
	c := s.Cell("NIS", 0)
	if c.Read || c.Value != nil {
		t.Errorf("new cell = %+v, want unread", c)
	}
	c.Value = 3
	c.Read = true
	if again := s.Cell("NIS", 0); again != c {
		t.Error("Cell() returned a different cell for the same key")
	}
	if other := s.Cell("NIS", 1); other == c {
		t.Error("dimensionality does not participate in the key")
	}
	arr := s.Cell("ZAI", 2)
	if !reflect.DeepEqual(arr.LastIdx, []int{-1, -1}) {
		t.Errorf("LastIdx = %v, want [-1 -1]", arr.LastIdx)
	}
	s.Reset()
	if fresh := s.Cell("NIS", 0); fresh.Read {
		t.Error("Reset() kept cells")
	}
}
