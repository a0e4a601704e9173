package codegen

import (
	"fmt"

	"github.com/dave/jennifer/jen"
	"github.com/pkg/errors"
)

type frameKind int

const (
	frameBlock frameKind = iota
	frameLoop
	frameCond
	frameSection
)

func (k frameKind) String() string {
	switch k {
	case frameBlock:
		return "block"
	case frameLoop:
		return "loop"
	case frameCond:
		return "conditional"
	case frameSection:
		return "section"
	}
	return fmt.Sprintf("frameKind(%d)", int(k))
}

// frame collects the statements of one open construct. Conditional frames
// keep their finished branches in conds/branches and collect the current
// branch in body.
type frame struct {
	kind     frameKind
	body     []jen.Code
	wrap     func(body []jen.Code) jen.Code
	conds    []jen.Code
	branches [][]jen.Code
	hasElse  bool
}

// Builder assembles a function body from statements emitted in source
// order. Constructs are opened and closed explicitly; closing wraps the
// collected statements in the construct's syntax, so nesting and braces
// are structural rather than textual.
type Builder struct {
	root   []jen.Code
	frames []*frame
}

func NewBuilder() *Builder {
	return &Builder{}
}

// Emit appends statements to the innermost open construct.
func (b *Builder) Emit(codes ...jen.Code) {
	if n := len(b.frames); n > 0 {
		b.frames[n-1].body = append(b.frames[n-1].body, codes...)
		return
	}
	b.root = append(b.root, codes...)
}

func (b *Builder) Comment(format string, args ...any) {
	b.Emit(jen.Comment(fmt.Sprintf(format, args...)))
}

// Depth is the number of open constructs.
func (b *Builder) Depth() int {
	return len(b.frames)
}

// Open starts a construct whose statements are wrapped by wrap on Close.
func (b *Builder) Open(kind frameKind, wrap func(body []jen.Code) jen.Code) {
	b.frames = append(b.frames, &frame{kind: kind, wrap: wrap})
}

// OpenBlock starts a plain { ... } block.
func (b *Builder) OpenBlock(kind frameKind) {
	b.Open(kind, func(body []jen.Code) jen.Code {
		return jen.Block(body...)
	})
}

// OpenIf starts a conditional with its first branch.
func (b *Builder) OpenIf(cond jen.Code) {
	b.frames = append(b.frames, &frame{kind: frameCond, conds: []jen.Code{cond}})
}

// ElseIf ends the current branch and starts another guarded one.
func (b *Builder) ElseIf(cond jen.Code) error {
	f, err := b.top(frameCond)
	if err != nil {
		return err
	}
	if f.hasElse {
		return errors.Wrap(ErrUnbalanced, "else if after else")
	}
	f.branches = append(f.branches, f.body)
	f.body = nil
	f.conds = append(f.conds, cond)
	return nil
}

// Else ends the current branch and starts the default one.
func (b *Builder) Else() error {
	f, err := b.top(frameCond)
	if err != nil {
		return err
	}
	if f.hasElse {
		return errors.Wrap(ErrUnbalanced, "second else")
	}
	f.branches = append(f.branches, f.body)
	f.body = nil
	f.hasElse = true
	return nil
}

// Close ends the innermost construct, which must be of the given kind, and
// emits it into its parent.
func (b *Builder) Close(kind frameKind) error {
	f, err := b.top(kind)
	if err != nil {
		return err
	}
	b.frames = b.frames[:len(b.frames)-1]

	var code jen.Code
	if f.kind == frameCond {
		if f.hasElse {
			code = Branches(f.conds, f.branches, nonNil(f.body))
		} else {
			code = Branches(f.conds, append(f.branches, f.body), nil)
		}
	} else {
		code = f.wrap(f.body)
	}
	b.Emit(code)
	return nil
}

// Code returns the assembled statements. All constructs must be closed.
func (b *Builder) Code() ([]jen.Code, error) {
	if len(b.frames) > 0 {
		return nil, errors.Wrapf(ErrUnbalanced, "%s still open", b.frames[len(b.frames)-1].kind)
	}
	return b.root, nil
}

func (b *Builder) top(kind frameKind) (*frame, error) {
	if len(b.frames) == 0 {
		return nil, errors.Wrapf(ErrUnbalanced, "no open %s", kind)
	}
	f := b.frames[len(b.frames)-1]
	if f.kind != kind {
		return nil, errors.Wrapf(ErrUnbalanced, "expected open %s, found %s", kind, f.kind)
	}
	return f, nil
}

func nonNil(codes []jen.Code) []jen.Code {
	if codes == nil {
		return []jen.Code{}
	}
	return codes
}
