// Package recipe reads the YAML description of ENDF-6 record groups that
// the compiler turns into parsing functions.
package recipe

// Recipe is one input document: a Go package of parsing functions.
type Recipe struct {
	Package   string      `yaml:"package"`
	Functions []*Function `yaml:"functions"`
}

// Function describes one record group and becomes one parsing function.
type Function struct {
	Name string `yaml:"name"`
	// Persistent names variables kept between calls in an endf.State.
	Persistent []string `yaml:"persistent"`
	// Types overrides the kind inferred for a variable name.
	Types map[string]string `yaml:"types"`
	Body  Body              `yaml:"body"`
	Line  int               `yaml:"-"`
}

// Body is a sequence of statements in source order.
type Body []Statement

// Statement is one entry of a body. Pos is its 1-based YAML line.
type Statement interface {
	Pos() int
}

// Record is a HEAD or CONT record: one line with six fields. Each field is
// a variable token or a literal.
type Record struct {
	Kind   string
	Fields []string
	Line   int
}

// TextField selects Length characters at column Start of a TEXT line.
type TextField struct {
	Name   string `yaml:"name"`
	Start  int    `yaml:"start"`
	Length int    `yaml:"length"`
}

// Text is a TEXT record.
type Text struct {
	Fields []TextField
	Line   int
}

// Tab1 is a TAB1 record: a CONT-like header whose slots 4 and 5 hold NR
// and NP, then the interpolation table and the (X, Y) pairs. With a
// Section, the table is stored in that subsection.
type Tab1 struct {
	Fields  []string `yaml:"fields"`
	X       string   `yaml:"x"`
	Y       string   `yaml:"y"`
	Section string   `yaml:"section"`
	Line    int      `yaml:"-"`
}

// List is a LIST record: a header whose slot 4 holds NPL, then NPL floats
// stored under Values.
type List struct {
	Fields []string `yaml:"fields"`
	Values string   `yaml:"values"`
	Line   int      `yaml:"-"`
}

// For repeats Body with Var running from From to To inclusive.
type For struct {
	Var  string
	From string
	To   string
	Body Body
	Line int
}

// If chooses Then or Else by Cond.
type If struct {
	Cond string
	Then Body
	Else Body
	Line int
}

// Section stores the values read by Body in the subsection Name, a
// variable token whose indices select nested nodes.
type Section struct {
	Name string
	Body Body
	Line int
}

// Default assigns Value to those of Vars that are still unread.
type Default struct {
	Vars  []string `yaml:"vars"`
	Value string   `yaml:"value"`
	Line  int      `yaml:"-"`
}

func (s *Record) Pos() int  { return s.Line }
func (s *Text) Pos() int    { return s.Line }
func (s *Tab1) Pos() int    { return s.Line }
func (s *List) Pos() int    { return s.Line }
func (s *For) Pos() int     { return s.Line }
func (s *If) Pos() int      { return s.Line }
func (s *Section) Pos() int { return s.Line }
func (s *Default) Pos() int { return s.Line }
