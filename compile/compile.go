// Package compile drives the code generator over a recipe and produces a
// Go source file with one parsing function per recipe function.
package compile

import (
	"io"

	"github.com/dave/jennifer/jen"
	"github.com/dhamidi/endfgen/codegen"
	"github.com/dhamidi/endfgen/recipe"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("endfgen.compile")

// Compile generates the functions of r. A nil registry means
// codegen.DefaultRegistry. Errors of all functions are returned together
// as an ErrorList.
func Compile(r *recipe.Recipe, registry *codegen.Registry) (*jen.File, error) {
	f := jen.NewFile(r.Package)
	f.HeaderComment("Code generated by endfgen. DO NOT EDIT.")

	g := codegen.New(registry)
	var errs ErrorList
	for _, fn := range r.Functions {
		log.Infof("compiling %s", fn.Name)
		decl, err := compileFunction(g, fn)
		if err != nil {
			log.Debugf("%s failed: %v", fn.Name, err)
			errs = append(errs, err)
			continue
		}
		f.Add(decl)
		f.Line()
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return f, nil
}

// Check compiles r without rendering and returns its errors.
func Check(r *recipe.Recipe, registry *codegen.Registry) ErrorList {
	_, err := Compile(r, registry)
	if errs, ok := err.(ErrorList); ok {
		return errs
	}
	return nil
}

// Render compiles r and writes the formatted source to w.
func Render(w io.Writer, r *recipe.Recipe, registry *codegen.Registry) error {
	f, err := Compile(r, registry)
	if err != nil {
		return err
	}
	return f.Render(w)
}
