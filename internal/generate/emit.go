package generate

import (
	"bytes"
	"fmt"
	"io"
	"sort"

	"github.com/dave/jennifer/jen"
)

const cleyePkg = "github.com/deathbeds/cleye"

// Render writes a generated Go source file declaring one cleye.Spec
// variable per extracted command. The emitted file belongs to pkgName and
// references the command functions by name, so it must live in the same
// package as the source it was extracted from.
func Render(w io.Writer, pkgName string, commands []Command) error {
	if len(commands) == 0 {
		return fmt.Errorf("no commands to generate")
	}

	f := jen.NewFile(pkgName)
	f.HeaderComment("Code generated by cleyegen. DO NOT EDIT.")

	sorted := make([]Command, len(commands))
	copy(sorted, commands)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].FuncName < sorted[j].FuncName
	})

	for _, cmd := range sorted {
		f.Comment(fmt.Sprintf("%sSpec is the command descriptor for %s.", cmd.FuncName, cmd.FuncName))
		f.Var().Id(cmd.FuncName + "Spec").Op("=").Qual(cleyePkg, "Spec").Values(specDict(cmd))
	}

	return f.Render(w)
}

// Source renders the generated file into a byte slice.
func Source(pkgName string, commands []Command) ([]byte, error) {
	var buf bytes.Buffer
	if err := Render(&buf, pkgName, commands); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func specDict(cmd Command) jen.Dict {
	dict := jen.Dict{
		jen.Id("Name"): jen.Lit(cmd.Name),
		jen.Id("Run"):  jen.Id(cmd.FuncName),
	}
	if cmd.Doc != "" {
		dict[jen.Id("Usage")] = jen.Lit(cmd.Doc)
	}
	if len(cmd.Params) > 0 {
		params := make([]jen.Code, 0, len(cmd.Params))
		for _, p := range cmd.Params {
			params = append(params, paramValues(p))
		}
		dict[jen.Id("Params")] = jen.Index().Qual(cleyePkg, "Param").Values(params...)
	}
	return dict
}

func paramValues(p Param) jen.Code {
	if p.IsCtx {
		return jen.Values(jen.Dict{
			jen.Id("Name"): jen.Qual(cleyePkg, "ContextParam"),
		})
	}
	dict := jen.Dict{
		jen.Id("Name"): jen.Lit(p.Name),
	}
	if p.Type != nil {
		dict[jen.Id("Type")] = typeRefCode(p.Type)
	}
	if p.Variadic {
		dict[jen.Id("Variadic")] = jen.True()
	}
	return jen.Values(dict)
}

func typeRefCode(ref *TypeRef) jen.Code {
	if ref.Ctor == "ListOf" {
		return jen.Qual(cleyePkg, "ListOf").Call(typeRefCode(ref.Elem))
	}
	return jen.Qual(cleyePkg, ref.Ctor).Call()
}
