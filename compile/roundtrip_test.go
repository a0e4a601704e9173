package compile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"testing"

	"github.com/dhamidi/endfgen/recipe"
)

// roundTripMain calls one generated function on a fixed set of lines and
// prints the node as JSON, or the error together with whether it reports an
// inconsistent value.
const roundTripMain = `package main

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/dhamidi/endfgen/endf"
)

func main() {
	state := endf.NewState()
	node, err := %s(%#v%s)
	if err != nil {
		json.NewEncoder(os.Stdout).Encode(map[string]any{
			"error":        err.Error(),
			"inconsistent": errors.Is(err, endf.ErrInconsistentValue),
		})
		return
	}
	if cell := state.Cell("NS", 0); cell.Read {
		node["state.NS"] = cell.Value
	}
	json.NewEncoder(os.Stdout).Encode(node)
}
`

func record(fields [6]string, mat, mf, mt, seq int) string {
	var sb strings.Builder
	for _, f := range fields {
		fmt.Fprintf(&sb, "%11s", f)
	}
	fmt.Fprintf(&sb, "%4d%2d%3d%5d", mat, mf, mt, seq)
	return sb.String()
}

func send(mat, mf int) string {
	return record([6]string{"", "", "", "", "", ""}, mat, mf, 0, 99999)
}

// runGenerated renders r, runs function fn of it on lines with go run and
// decodes what it prints.
func runGenerated(t *testing.T, r *recipe.Recipe, fn string, withState bool, lines []string) map[string]any {
	t.Helper()
	if testing.Short() {
		t.Skip("runs the go tool")
	}
	gobin, err := exec.LookPath("go")
	if err != nil {
		t.Skip("go tool not found")
	}

	var gen bytes.Buffer
	if err := Render(&gen, r, nil); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	dir, err := os.MkdirTemp(".", "roundtrip")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	if err := os.WriteFile(filepath.Join(dir, "parse.go"), gen.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	stateArg := ""
	if withState {
		stateArg = ", state"
	}
	src := fmt.Sprintf(roundTripMain, fn, lines, stateArg)
	if err := os.WriteFile(filepath.Join(dir, "main.go"), []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd := exec.Command(gobin, "run", "./"+filepath.Base(dir))
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		t.Fatalf("go run error = %v\n%s\ngenerated:\n%s", err, stderr.String(), gen.String())
	}
	var got map[string]any
	if err := json.Unmarshal(stdout.Bytes(), &got); err != nil {
		t.Fatalf("json.Unmarshal(%q) error = %v", stdout.String(), err)
	}
	return got
}

// TestRoundTrip compiles testdata/mf1.yaml, runs the generated function on
// a small record group and compares the resulting node.
func TestRoundTrip(t *testing.T) {
	r, err := recipe.Load("testdata/mf1.yaml")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	lines := []string{
		record([6]string{"1.001000+3", "9.991673-1", "0", "0", "2", "0"}, 125, 1, 451, 1),
		record([6]string{"1.5", "2.5", "0", "0", "0", "0"}, 125, 1, 451, 2),
		record([6]string{"3.5", "4.5", "0", "0", "0", "0"}, 125, 1, 451, 3),
		record([6]string{"0.0", "0.0", "0", "0", "1", "2"}, 125, 1, 451, 4),
		record([6]string{"2", "2", "", "", "", ""}, 125, 1, 451, 5),
		record([6]string{"1.0", "10.0", "2.0", "20.0", "", ""}, 125, 1, 451, 6),
		send(125, 1),
	}

	got := runGenerated(t, r, "ParseMF1", true, lines)
	want := map[string]any{
		"MAT": 125.0, "MF": 1.0, "MT": 451.0,
		"ZA": 1001.0, "AWR": 0.9991673, "NS": 2.0,
		"sub": map[string]any{
			"1": map[string]any{"C": 1.5, "X": map[string]any{"1": 2.5}},
			"2": map[string]any{"C": 3.5, "X": map[string]any{"2": 4.5}},
		},
		"NR": 1.0, "NP": 2.0,
		"xs": map[string]any{
			"NBT": []any{2.0},
			"INT": []any{2.0},
			"E":   []any{1.0, 2.0},
			"sig": []any{10.0, 20.0},
		},
		"state.NS": 2.0,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseMF1() = %v, want %v", got, want)
	}
}

func TestRoundTripScalarAndArray(t *testing.T) {
	r := load(t, `package: main
functions:
  - name: ParseArray
    body:
      - cont: [field, 0, 0, 0, 0, 0]
      - for: {var: i, from: 1, to: 2}
        body:
          - for: {var: j, from: 1, to: 2}
            body:
              - cont: [0, 0, "array[i,j]", 0, 0, 0]
`)
	lines := []string{
		record([6]string{"6.25", "0", "0", "0", "0", "0"}, 9228, 3, 1, 1),
		record([6]string{"0", "0", "11", "0", "0", "0"}, 9228, 3, 1, 2),
		record([6]string{"0", "0", "12", "0", "0", "0"}, 9228, 3, 1, 3),
		record([6]string{"0", "0", "21", "0", "0", "0"}, 9228, 3, 1, 4),
		record([6]string{"0", "0", "22", "0", "0", "0"}, 9228, 3, 1, 5),
		send(9228, 3),
	}

	got := runGenerated(t, r, "ParseArray", false, lines)
	var keys []string
	for k := range got {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if want := []string{"MAT", "MF", "MT", "array", "field"}; !reflect.DeepEqual(keys, want) {
		t.Errorf("ParseArray() keys = %v, want %v", keys, want)
	}
	if got["field"] != 6.25 {
		t.Errorf("ParseArray() field = %v, want 6.25", got["field"])
	}
	wantArray := map[string]any{
		"1": map[string]any{"1": 11.0, "2": 12.0},
		"2": map[string]any{"1": 21.0, "2": 22.0},
	}
	if !reflect.DeepEqual(got["array"], wantArray) {
		t.Errorf("ParseArray() array = %v, want %v", got["array"], wantArray)
	}
}

func TestRoundTripRepeatedField(t *testing.T) {
	r := load(t, `package: main
functions:
  - name: ParseRepeat
    body:
      - head: [ZA, AWR, 0, 0, NS, 0]
      - for: {var: i, from: 1, to: NS}
        body:
          - cont: [ZA, "X[i]", 0, 0, 0, 0]
`)
	tests := []struct {
		name         string
		za           [2]string
		inconsistent bool
	}{
		{"matching", [2]string{"1.0", "1.0"}, false},
		{"mismatch", [2]string{"7.0", "9.0"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := []string{
				record([6]string{"1.0", "2.0", "0", "0", "2", "0"}, 125, 3, 1, 1),
				record([6]string{tt.za[0], "3.0", "0", "0", "0", "0"}, 125, 3, 1, 2),
				record([6]string{tt.za[1], "4.0", "0", "0", "0", "0"}, 125, 3, 1, 3),
				send(125, 3),
			}
			got := runGenerated(t, r, "ParseRepeat", false, lines)
			if tt.inconsistent {
				if got["inconsistent"] != true {
					t.Errorf("ParseRepeat() = %v, want an inconsistent value error", got)
				}
				return
			}
			if _, failed := got["error"]; failed {
				t.Fatalf("ParseRepeat() error = %v", got["error"])
			}
			if got["ZA"] != 1.0 {
				t.Errorf("ParseRepeat() ZA = %v, want 1", got["ZA"])
			}
		})
	}
}

// TestRoundTripRevisit reads X[i] in a loop and then X[1] and X[0] again.
// X[1] still matches the last index bound in the loop and is checked,
// X[0] differs in its index and is read afresh.
func TestRoundTripRevisit(t *testing.T) {
	r := load(t, `package: main
functions:
  - name: ParseRevisit
    body:
      - for: {var: i, from: 0, to: 1}
        body:
          - cont: ["X[i]", 0, 0, 0, 0, 0]
      - cont: ["X[1]", "X[0]", 0, 0, 0, 0]
`)
	tests := []struct {
		name         string
		last         [2]string
		want         map[string]any
		inconsistent bool
	}{
		{"same index is checked", [2]string{"4.5", "9.5"}, map[string]any{"0": 9.5, "1": 4.5}, false},
		{"same index mismatch", [2]string{"5.5", "9.5"}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := []string{
				record([6]string{"2.5", "0", "0", "0", "0", "0"}, 125, 3, 1, 1),
				record([6]string{"4.5", "0", "0", "0", "0", "0"}, 125, 3, 1, 2),
				record([6]string{tt.last[0], tt.last[1], "0", "0", "0", "0"}, 125, 3, 1, 3),
				send(125, 3),
			}
			got := runGenerated(t, r, "ParseRevisit", false, lines)
			if tt.inconsistent {
				if got["inconsistent"] != true {
					t.Errorf("ParseRevisit() = %v, want an inconsistent value error", got)
				}
				return
			}
			if _, failed := got["error"]; failed {
				t.Fatalf("ParseRevisit() error = %v", got["error"])
			}
			if !reflect.DeepEqual(got["X"], tt.want) {
				t.Errorf("ParseRevisit() X = %v, want %v", got["X"], tt.want)
			}
		})
	}
}
