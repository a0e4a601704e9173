package codegen

import (
	"errors"
	"testing"

	"github.com/dhamidi/endfgen/expr"
)

func mustVar(t *testing.T, src string) *expr.Var {
	t.Helper()
	v, err := expr.ParseVar(src)
	if err != nil {
		t.Fatalf("ParseVar(%q) error = %v", src, err)
	}
	return v
}

func TestScopeDeclareResolve(t *testing.T) {
	outer := NewScope(nil)
	if err := outer.Declare(mustVar(t, "X"), Binding{Kind: KindFloat}); err != nil {
		t.Fatalf("Declare() error = %v", err)
	}
	if err := outer.Declare(mustVar(t, "X[i]"), Binding{Kind: KindInt}); err != nil {
		t.Fatalf("Declare() of X[i] error = %v", err)
	}

	inner := NewScope(outer)
	b, err := inner.Resolve(mustVar(t, "X"))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if b.Kind != KindFloat || b.Dims != 0 {
		t.Errorf("Resolve(X) = %+v, want float with 0 dims", b)
	}
	b, err = inner.Resolve(mustVar(t, "X[j]"))
	if err != nil {
		t.Fatalf("Resolve(X[j]) error = %v", err)
	}
	if b.Kind != KindInt || b.Dims != 1 {
		t.Errorf("Resolve(X[j]) = %+v, want int with 1 dim", b)
	}
}

func TestScopeShadowing(t *testing.T) {
	outer := NewScope(nil)
	outer.Declare(mustVar(t, "i"), Binding{Kind: KindFloat})
	inner := NewScope(outer)
	if err := inner.Declare(mustVar(t, "i"), Binding{Kind: KindInt, Loop: true}); err != nil {
		t.Fatalf("Declare() in inner scope error = %v", err)
	}
	b, _ := inner.Resolve(mustVar(t, "i"))
	if !b.Loop {
		t.Errorf("Resolve(i) in inner scope = %+v, want the loop binding", b)
	}
	b, _ = inner.Parent().Resolve(mustVar(t, "i"))
	if b.Loop {
		t.Errorf("Resolve(i) in outer scope = %+v, want the outer binding", b)
	}
}

func TestScopeErrors(t *testing.T) {
	s := NewScope(nil)
	s.Declare(mustVar(t, "X"), Binding{Kind: KindFloat})

	err := s.Declare(mustVar(t, "X"), Binding{Kind: KindInt})
	if !errors.Is(err, ErrAlreadyDeclared) {
		t.Errorf("Declare() twice error = %v, want %v", err, ErrAlreadyDeclared)
	}
	_, err = s.Resolve(mustVar(t, "Y"))
	if !errors.Is(err, ErrVariableNotFound) {
		t.Errorf("Resolve(Y) error = %v, want %v", err, ErrVariableNotFound)
	}
	var be *BindingError
	if !errors.As(err, &be) || be.Var != "Y" {
		t.Errorf("Resolve(Y) error = %#v, want BindingError for Y", err)
	}
}

func TestScopeKeys(t *testing.T) {
	s := NewScope(nil)
	for _, src := range []string{"B", "A", "A[i]"} {
		s.Declare(mustVar(t, src), Binding{Kind: KindInt})
	}
	got := s.Keys()
	want := []expr.Key{{Name: "B"}, {Name: "A"}, {Name: "A", Dims: 1}}
	if len(got) != len(want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Keys()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
