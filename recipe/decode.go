package recipe

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Error is a problem in a recipe document at a YAML line.
type Error struct {
	Line int
	Err  error
}

func (e *Error) Error() string {
	if e.Line == 0 {
		return e.Err.Error()
	}
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

var ErrInvalid = errors.New("invalid recipe")

func errorf(n *yaml.Node, format string, args ...any) error {
	return &Error{Line: n.Line, Err: errors.Wrapf(ErrInvalid, format, args...)}
}

// Load reads the recipe in path.
func Load(path string) (*Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a recipe document.
func Parse(data []byte) (*Recipe, error) {
	return Decode(bytes.NewReader(data))
}

// Decode reads one recipe document from r.
func Decode(r io.Reader) (*Recipe, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, &Error{Err: errors.Wrap(ErrInvalid, "empty document")}
		}
		return nil, &Error{Err: err}
	}
	root := &doc
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		root = doc.Content[0]
	}
	if err := checkKeys(root, "package", "functions"); err != nil {
		return nil, err
	}
	var rec Recipe
	if err := doc.Decode(&rec); err != nil {
		var re *Error
		if errors.As(err, &re) {
			return nil, re
		}
		return nil, &Error{Err: err}
	}
	if rec.Package == "" {
		return nil, &Error{Line: 1, Err: errors.Wrap(ErrInvalid, "missing package")}
	}
	return &rec, nil
}

func (f *Function) UnmarshalYAML(n *yaml.Node) error {
	if err := checkKeys(n, "name", "persistent", "types", "body"); err != nil {
		return err
	}
	type plain Function
	if err := n.Decode((*plain)(f)); err != nil {
		return err
	}
	f.Line = n.Line
	if f.Name == "" {
		return errorf(n, "function without name")
	}
	return nil
}

func (f *TextField) UnmarshalYAML(n *yaml.Node) error {
	if err := checkKeys(n, "name", "start", "length"); err != nil {
		return err
	}
	type plain TextField
	return n.Decode((*plain)(f))
}

func (b *Body) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.SequenceNode {
		return errorf(n, "body must be a sequence of statements")
	}
	for _, item := range n.Content {
		st, err := decodeStatement(item)
		if err != nil {
			return err
		}
		*b = append(*b, st)
	}
	return nil
}

// statementKeys lists the keys allowed next to each statement keyword.
var statementKeys = map[string][]string{
	"head":    nil,
	"cont":    nil,
	"text":    nil,
	"tab1":    nil,
	"list":    nil,
	"default": nil,
	"for":     {"body"},
	"if":      {"then", "else"},
	"section": {"body"},
}

func decodeStatement(n *yaml.Node) (Statement, error) {
	if n.Kind != yaml.MappingNode {
		return nil, errorf(n, "statement must be a mapping")
	}
	keyword, value := "", (*yaml.Node)(nil)
	for i := 0; i+1 < len(n.Content); i += 2 {
		if _, ok := statementKeys[n.Content[i].Value]; ok {
			if keyword != "" {
				return nil, errorf(n.Content[i], "statement with both %s and %s", keyword, n.Content[i].Value)
			}
			keyword, value = n.Content[i].Value, n.Content[i+1]
		}
	}
	if keyword == "" {
		return nil, errorf(n, "unknown statement, want one of %s", strings.Join(keywords(), ", "))
	}
	if err := checkKeys(n, append([]string{keyword}, statementKeys[keyword]...)...); err != nil {
		return nil, err
	}

	switch keyword {
	case "head", "cont":
		st := &Record{Kind: keyword, Line: n.Line}
		if err := value.Decode(&st.Fields); err != nil {
			return nil, err
		}
		return st, fieldCount(value, st.Fields)

	case "text":
		st := &Text{Line: n.Line}
		if err := value.Decode(&st.Fields); err != nil {
			return nil, err
		}
		return st, nil

	case "tab1":
		if err := checkKeys(value, "fields", "x", "y", "section"); err != nil {
			return nil, err
		}
		st := &Tab1{}
		if err := value.Decode(st); err != nil {
			return nil, err
		}
		st.Line = n.Line
		if st.X == "" || st.Y == "" {
			return nil, errorf(value, "tab1 needs x and y")
		}
		return st, fieldCount(value, st.Fields)

	case "list":
		if err := checkKeys(value, "fields", "values"); err != nil {
			return nil, err
		}
		st := &List{}
		if err := value.Decode(st); err != nil {
			return nil, err
		}
		st.Line = n.Line
		if st.Values == "" {
			return nil, errorf(value, "list needs values")
		}
		return st, fieldCount(value, st.Fields)

	case "default":
		if err := checkKeys(value, "vars", "value"); err != nil {
			return nil, err
		}
		st := &Default{}
		if err := value.Decode(st); err != nil {
			return nil, err
		}
		st.Line = n.Line
		if len(st.Vars) == 0 || st.Value == "" {
			return nil, errorf(value, "default needs vars and value")
		}
		return st, nil

	case "for":
		if err := checkKeys(value, "var", "from", "to"); err != nil {
			return nil, err
		}
		var head struct {
			Var  string `yaml:"var"`
			From string `yaml:"from"`
			To   string `yaml:"to"`
		}
		if err := value.Decode(&head); err != nil {
			return nil, err
		}
		if head.Var == "" || head.From == "" || head.To == "" {
			return nil, errorf(value, "for needs var, from and to")
		}
		st := &For{Var: head.Var, From: head.From, To: head.To, Line: n.Line}
		return st, decodeBody(n, "body", &st.Body)

	case "if":
		st := &If{Line: n.Line}
		if err := value.Decode(&st.Cond); err != nil {
			return nil, err
		}
		if err := decodeBody(n, "then", &st.Then); err != nil {
			return nil, err
		}
		return st, decodeBody(n, "else", &st.Else)

	case "section":
		st := &Section{Line: n.Line}
		if err := value.Decode(&st.Name); err != nil {
			return nil, err
		}
		return st, decodeBody(n, "body", &st.Body)
	}
	return nil, errorf(n, "unhandled statement %s", keyword)
}

func decodeBody(n *yaml.Node, key string, body *Body) error {
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1].Decode(body)
		}
	}
	return nil
}

func fieldCount(n *yaml.Node, fields []string) error {
	if len(fields) != 6 {
		return errorf(n, "record has %d fields, want 6", len(fields))
	}
	return nil
}

func checkKeys(n *yaml.Node, allowed ...string) error {
	if n.Kind != yaml.MappingNode {
		return errorf(n, "expected a mapping")
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i]
		ok := false
		for _, a := range allowed {
			if key.Value == a {
				ok = true
				break
			}
		}
		if !ok {
			return errorf(key, "unknown key %q", key.Value)
		}
	}
	return nil
}

func keywords() []string {
	var res []string
	for k := range statementKeys {
		res = append(res, k)
	}
	sort.Strings(res)
	return res
}
