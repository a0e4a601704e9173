package codegen

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/dave/jennifer/jen"
	"github.com/dhamidi/endfgen/expr"
)

func render(t *testing.T, decl jen.Code) string {
	t.Helper()
	f := jen.NewFile("mf1")
	f.Add(decl)
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return buf.String()
}

func mustExpr(t *testing.T, src string) expr.Expr {
	t.Helper()
	e, err := expr.Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q) error = %v", src, err)
	}
	return e
}

func declare(t *testing.T, g *Generator, src string, b Binding) *expr.Var {
	t.Helper()
	v := mustVar(t, src)
	if err := g.Declare(v, b); err != nil {
		t.Fatalf("Declare(%s) error = %v", src, err)
	}
	return v
}

func contains(t *testing.T, code string, fragments ...string) {
	t.Helper()
	for _, f := range fragments {
		if !strings.Contains(code, f) {
			t.Errorf("generated code does not contain %q:\n%s", f, code)
		}
	}
}

func TestGenerateHeadAndLoop(t *testing.T) {
	g := New(nil)
	g.Prologue("ParseMF1")
	za := declare(t, g, "ZA", Binding{Kind: KindFloat})
	nr := declare(t, g, "NR", Binding{Kind: KindInt})
	declare(t, g, "X[i]", Binding{Kind: KindFloat})

	g.ReadLine()
	for slot, e := range []expr.Expr{za, mustExpr(t, "0"), mustExpr(t, "0"), mustExpr(t, "0"), nr, mustExpr(t, "0")} {
		if err := g.Field(e, slot); err != nil {
			t.Fatalf("Field(%s, %d) error = %v", e, slot, err)
		}
	}
	if err := g.BeginFor(mustVar(t, "i"), mustExpr(t, "1"), nr); err != nil {
		t.Fatalf("BeginFor() error = %v", err)
	}
	g.ReadLine()
	if err := g.Field(mustVar(t, "X[i]"), 0); err != nil {
		t.Fatalf("Field(X[i]) error = %v", err)
	}
	if err := g.EndFor(); err != nil {
		t.Fatalf("EndFor() error = %v", err)
	}
	decl, err := g.Epilogue()
	if err != nil {
		t.Fatalf("Epilogue() error = %v", err)
	}

	code := render(t, decl)
	contains(t, code,
		"func ParseMF1(lines []string) (node endf.Dict, err error) {",
		"defer endf.Recover(&node, &err)",
		"cur := endf.NewCursor(lines)",
		"node = cur.Header()",
		"var var_ZA_0d float64",
		"var_X_1d_lastidx0 := -1",
		"if var_ZA_0d_read {",
		`cur.Inconsistent("ZA", var_ZA_0d, v)`,
		"var_ZA_0d = cur.Float(0)",
		"var_NR_0d = cur.Int(4)",
		`node["ZA"] = var_ZA_0d`,
		"for var_i_0d := 1; var_i_0d <= var_NR_0d; var_i_0d++ {",
		"if var_X_1d_lastidx0 == var_i_0d {",
		"endf.Grow(var_X_1d,",
		"var_X_1d_lastidx0 = var_i_0d",
		`node.Section("X")[var_i_0d] = var_X_1d[`,
		"cur.ReadSend()",
		"return node, nil",
	)
	if strings.Contains(code, "cur.Float(1)") {
		t.Errorf("literal field was decoded:\n%s", code)
	}
}

func TestGenerateMatrix(t *testing.T) {
	g := New(nil)
	g.Prologue("ParseCov")
	n := declare(t, g, "N", Binding{Kind: KindInt})
	declare(t, g, "M[i,j]", Binding{Kind: KindMatrix2D})
	steps := []func() error{
		func() error { return g.BeginFor(mustVar(t, "i"), mustExpr(t, "1"), n) },
		func() error { return g.BeginFor(mustVar(t, "j"), mustExpr(t, "i"), n) },
		func() error { return g.Field(mustVar(t, "M[i,j]"), 2) },
		g.EndFor,
		g.EndFor,
	}
	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("step %d error = %v", i, err)
		}
	}
	decl, err := g.Epilogue()
	if err != nil {
		t.Fatalf("Epilogue() error = %v", err)
	}
	contains(t, render(t, decl),
		"mat_M_2d := endf.NewMatrix2D()",
		"if mat_M_2d.Has(",
		"mat_M_2d.Set(",
		"float64(cur.Int(2))",
		"for var_j_0d := var_i_0d; var_j_0d <= var_N_0d; var_j_0d++ {",
		`node.Section("M").Section(var_i_0d)[var_j_0d] = mat_M_2d.At(`,
	)
}

func TestGeneratePersistent(t *testing.T) {
	g := New(nil)
	g.Prologue("ParseNext")
	ns := declare(t, g, "NS", Binding{Kind: KindInt, Persistent: true})
	declare(t, g, "E[i]", Binding{Kind: KindFloat, Persistent: true})
	g.ReadLine()
	if err := g.Field(ns, 2); err != nil {
		t.Fatalf("Field() error = %v", err)
	}
	decl, err := g.Epilogue()
	if err != nil {
		t.Fatalf("Epilogue() error = %v", err)
	}
	contains(t, render(t, decl),
		"func ParseNext(lines []string, state *endf.State) (node endf.Dict, err error) {",
		`glob_var_NS_0d := state.Cell("NS", 0)`,
		"var_NS_0d_read = glob_var_NS_0d.Read",
		"glob_var_NS_0d.Value = var_NS_0d",
		"glob_var_NS_0d.Read = var_NS_0d_read",
		`glob_var_E_1d := state.Cell("E", 1)`,
		"var_E_1d_lastidx0 = glob_var_E_1d.LastIdx[0]",
		"glob_var_E_1d.LastIdx[0] = var_E_1d_lastidx0",
	)
}

func TestGenerateSections(t *testing.T) {
	g := New(nil)
	g.Prologue("ParseSections")
	n := declare(t, g, "N", Binding{Kind: KindInt})
	if err := g.BeginFor(mustVar(t, "i"), mustExpr(t, "1"), n); err != nil {
		t.Fatal(err)
	}
	if err := g.OpenSection(mustVar(t, "sub[i]")); err != nil {
		t.Fatalf("OpenSection() error = %v", err)
	}
	g.ReadLine()
	if err := g.Tab1Body("E", "sig"); err != nil {
		t.Fatalf("Tab1Body() error = %v", err)
	}
	if err := g.ListBody("B"); err != nil {
		t.Fatalf("ListBody() error = %v", err)
	}
	if err := g.CloseSection(); err != nil {
		t.Fatalf("CloseSection() error = %v", err)
	}
	if err := g.EndFor(); err != nil {
		t.Fatal(err)
	}
	decl, err := g.Epilogue()
	if err != nil {
		t.Fatalf("Epilogue() error = %v", err)
	}
	contains(t, render(t, decl),
		"parent := node",
		`node = node.Section("sub")`,
		"node = node.Section(var_i_0d)",
		"tab := cur.Tab1Body(cur.Int(4), cur.Int(5))",
		`node["NBT"] = tab.NBT`,
		`node["E"] = tab.X`,
		`node["sig"] = tab.Y`,
		`node["B"] = cur.FloatVec(cur.Int(4))`,
		"node = parent",
	)
}

func TestGenerateDefault(t *testing.T) {
	g := New(nil)
	g.Prologue("ParseDefault")
	a := declare(t, g, "A", Binding{Kind: KindFloat})
	b := declare(t, g, "B", Binding{Kind: KindFloat})
	if err := g.Default([]*expr.Var{a, b}, mustExpr(t, "0")); err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	decl, err := g.Epilogue()
	if err != nil {
		t.Fatalf("Epilogue() error = %v", err)
	}
	contains(t, render(t, decl),
		"if !(var_A_0d_read) {",
		"var_A_0d = float64(0)",
		"var_B_0d_read = true",
		`node["B"] = var_B_0d`,
	)
}

func TestReadStateExpressions(t *testing.T) {
	g := New(nil)
	g.Prologue("F")
	x := declare(t, g, "X", Binding{Kind: KindFloat})
	declare(t, g, "Y[i]", Binding{Kind: KindFloat})
	n := declare(t, g, "N", Binding{Kind: KindInt})
	if err := g.BeginFor(mustVar(t, "i"), mustExpr(t, "1"), n); err != nil {
		t.Fatal(err)
	}
	y := mustVar(t, "Y[i]")

	tests := []struct {
		name string
		cond func() (*jen.Statement, error)
		want string
	}{
		{"scalar", func() (*jen.Statement, error) { return g.IsRead(x) }, "var_X_0d_read"},
		{"array", func() (*jen.Statement, error) { return g.IsRead(y) }, "var_Y_1d_lastidx0 == var_i_0d"},
		{"loop variable", func() (*jen.Statement, error) { return g.IsRead(mustVar(t, "i")) }, "true"},
		{"unread", func() (*jen.Statement, error) { return g.IsUnread(x) }, "!(var_X_0d_read)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := tt.cond()
			if err != nil {
				t.Fatalf("error = %v", err)
			}
			if got := strings.TrimSpace(fmt.Sprintf("%#v", st)); got != tt.want {
				t.Errorf("condition = %q, want %q", got, tt.want)
			}
		})
	}

	anyUnread, err := g.AnyUnread([]*expr.Var{x, y})
	if err != nil {
		t.Fatal(err)
	}
	if got := fmt.Sprintf("%#v", anyUnread); !strings.Contains(got, "||") {
		t.Errorf("AnyUnread() = %q, want a disjunction", got)
	}
	all, err := g.AllRead([]*expr.Var{x, y})
	if err != nil {
		t.Fatal(err)
	}
	if got := fmt.Sprintf("%#v", all); !strings.Contains(got, "&&") {
		t.Errorf("AllRead() = %q, want a conjunction", got)
	}
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name string
		run  func(g *Generator) error
		want error
	}{
		{"unknown variable", func(g *Generator) error {
			return g.Field(mustVar(t, "Q"), 0)
		}, ErrVariableNotFound},
		{"index is not a loop variable", func(g *Generator) error {
			g.Declare(mustVar(t, "N"), Binding{Kind: KindInt})
			g.Declare(mustVar(t, "X[N]"), Binding{Kind: KindFloat})
			return g.Field(mustVar(t, "X[N]"), 0)
		}, ErrNotLoopVariable},
		{"redeclaration", func(g *Generator) error {
			g.Declare(mustVar(t, "N"), Binding{Kind: KindInt})
			return g.Declare(mustVar(t, "N"), Binding{Kind: KindFloat})
		}, ErrAlreadyDeclared},
		{"close without open", func(g *Generator) error {
			return g.CloseSection()
		}, ErrUnbalanced},
		{"text into number", func(g *Generator) error {
			g.Declare(mustVar(t, "N"), Binding{Kind: KindInt})
			return g.TextField(mustVar(t, "N"), 0, 11)
		}, ErrType},
		{"open section at end", func(g *Generator) error {
			if err := g.OpenSection(mustVar(t, "sub")); err != nil {
				return err
			}
			_, err := g.Epilogue()
			return err
		}, ErrUnbalanced},
		{"end loop without loop", func(g *Generator) error {
			return g.EndFor()
		}, ErrUnbalanced},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(nil)
			g.Prologue("F")
			if err := tt.run(g); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestGeneratorReuse(t *testing.T) {
	g := New(nil)
	g.Prologue("First")
	declare(t, g, "X", Binding{Kind: KindFloat})
	if _, err := g.Epilogue(); err != nil {
		t.Fatal(err)
	}
	g.Prologue("Second")
	if _, err := g.Access(mustVar(t, "X")); !errors.Is(err, ErrVariableNotFound) {
		t.Errorf("Access(X) in second function error = %v, want %v", err, ErrVariableNotFound)
	}
	declare(t, g, "X", Binding{Kind: KindInt})
}
