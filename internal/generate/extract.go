// Package generate derives cleye parameter tables from Go function
// signatures at build time, the descriptor-table counterpart to runtime
// signature inspection.
package generate

import (
	"fmt"
	"go/ast"
	"go/doc"
	"go/parser"
	"go/token"
	"strings"
	"unicode"
)

// TypeRef names the cleye type constructor for one parameter.
type TypeRef struct {
	Ctor string   // Text, Boolean, Integer, Decimal, DurationOf, DateTime, UUIDv4, AnyType
	Elem *TypeRef // set when Ctor is ListOf
}

// Param is one extracted parameter.
type Param struct {
	Name     string
	Type     *TypeRef // nil means plain text
	Variadic bool
	IsCtx    bool // leading context.Context, emitted as the reserved ctx parameter
}

// Command is one extracted function.
type Command struct {
	FuncName string
	Name     string // kebab-case command name
	Doc      string
	Params   []Param
}

// ExtractFile parses src (or the file at filename when src is nil) and
// returns a Command for every exported top-level function, or for exactly
// the named functions when only is non-empty. Functions with parameter
// types outside the supported annotation set are an error, not a silent
// fallthrough to text.
func ExtractFile(filename string, src any, only []string) ([]Command, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}

	wanted := make(map[string]bool, len(only))
	for _, name := range only {
		wanted[name] = true
	}

	var commands []Command
	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Recv != nil {
			continue
		}
		name := fn.Name.Name
		if len(only) > 0 {
			if !wanted[name] {
				continue
			}
		} else if !ast.IsExported(name) {
			continue
		}

		cmd, err := extractFunc(fn)
		if err != nil {
			return nil, err
		}
		commands = append(commands, cmd)
	}

	if len(only) > 0 && len(commands) != len(only) {
		found := make(map[string]bool, len(commands))
		for _, c := range commands {
			found[c.FuncName] = true
		}
		for _, name := range only {
			if !found[name] {
				return nil, fmt.Errorf("function %s not found in %s", name, filename)
			}
		}
	}
	return commands, nil
}

// PackageOf reports the package clause of the Go source file, used when
// the caller does not name a target package for the generated output.
func PackageOf(filename string) (string, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, nil, parser.PackageClauseOnly)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", filename, err)
	}
	return file.Name.Name, nil
}

func extractFunc(fn *ast.FuncDecl) (Command, error) {
	cmd := Command{
		FuncName: fn.Name.Name,
		Name:     toKebabCase(fn.Name.Name),
	}
	if fn.Doc != nil {
		cmd.Doc = strings.TrimSpace(doc.Synopsis(fn.Doc.Text()))
	}

	first := true
	for _, field := range fn.Type.Params.List {
		names := fieldNames(field)
		for _, name := range names {
			p := Param{Name: name}

			if first && isContextContext(field.Type) {
				p.IsCtx = true
				p.Name = "ctx"
				first = false
				cmd.Params = append(cmd.Params, p)
				continue
			}
			first = false

			expr := field.Type
			if ell, ok := expr.(*ast.Ellipsis); ok {
				p.Variadic = true
				expr = ell.Elt
			}
			ref, err := mapTypeExpr(expr)
			if err != nil {
				return Command{}, fmt.Errorf("%s: parameter %s: %w", fn.Name.Name, name, err)
			}
			if p.Variadic {
				ref = &TypeRef{Ctor: "ListOf", Elem: ref}
			}
			p.Type = ref
			cmd.Params = append(cmd.Params, p)
		}
	}
	return cmd, nil
}

func fieldNames(field *ast.Field) []string {
	if len(field.Names) == 0 {
		// Unnamed parameter; no identifier to derive a CLI name from.
		return []string{"arg"}
	}
	out := make([]string, len(field.Names))
	for i, ident := range field.Names {
		out[i] = ident.Name
	}
	return out
}

// mapTypeExpr resolves an annotation's AST into a cleye type constructor.
// The set is closed; anything else is unsupported.
func mapTypeExpr(expr ast.Expr) (*TypeRef, error) {
	switch t := expr.(type) {
	case *ast.Ident:
		switch t.Name {
		case "string":
			return &TypeRef{Ctor: "Text"}, nil
		case "bool":
			return &TypeRef{Ctor: "Boolean"}, nil
		case "int", "int8", "int16", "int32", "int64",
			"uint", "uint8", "uint16", "uint32", "uint64":
			return &TypeRef{Ctor: "Integer"}, nil
		case "float32", "float64":
			return &TypeRef{Ctor: "Decimal"}, nil
		case "any":
			return &TypeRef{Ctor: "AnyType"}, nil
		}
	case *ast.SelectorExpr:
		if pkg, ok := t.X.(*ast.Ident); ok {
			switch pkg.Name + "." + t.Sel.Name {
			case "time.Time":
				return &TypeRef{Ctor: "DateTime"}, nil
			case "time.Duration":
				return &TypeRef{Ctor: "DurationOf"}, nil
			case "uuid.UUID":
				return &TypeRef{Ctor: "UUIDv4"}, nil
			}
		}
	case *ast.ArrayType:
		if t.Len != nil {
			break
		}
		elem, err := mapTypeExpr(t.Elt)
		if err != nil {
			return nil, err
		}
		return &TypeRef{Ctor: "ListOf", Elem: elem}, nil
	case *ast.InterfaceType:
		if len(t.Methods.List) == 0 {
			return &TypeRef{Ctor: "AnyType"}, nil
		}
	}
	return nil, fmt.Errorf("unsupported parameter type %s", exprString(expr))
}

func isContextContext(expr ast.Expr) bool {
	sel, ok := expr.(*ast.SelectorExpr)
	if !ok {
		return false
	}
	pkg, ok := sel.X.(*ast.Ident)
	return ok && pkg.Name == "context" && sel.Sel.Name == "Context"
}

func exprString(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.SelectorExpr:
		return exprString(t.X) + "." + t.Sel.Name
	case *ast.ArrayType:
		return "[]" + exprString(t.Elt)
	case *ast.StarExpr:
		return "*" + exprString(t.X)
	default:
		return fmt.Sprintf("%T", expr)
	}
}

// toKebabCase converts Go identifiers to kebab-case command and parameter
// names. Examples: RangeCheck -> range-check, maxCount -> max-count.
func toKebabCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			result.WriteRune('-')
		}
		result.WriteRune(unicode.ToLower(r))
	}
	return result.String()
}
