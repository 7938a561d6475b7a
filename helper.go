package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	dwarfhelper "gohole/dwarf"
	"gohole/utils"
)

// DwarfHelper loads the struct registry from the binary at ipath and
// prints every struct as a C declaration, to stdout or to opath as a
// header file. only, when non-empty, restricts output to that one
// struct and bypasses the name filter.
func DwarfHelper(ipath, opath, only string, logger log.Logger) error {
	info, err := dwarfhelper.NewDwarfInfo(ipath)
	if err != nil {
		return err
	}
	defer info.Close()

	level.Debug(logger).Log("msg", "loading structs", "binary", ipath)
	if err := info.LoadStructs(); err != nil {
		return err
	}
	structs := info.Structs()
	level.Debug(logger).Log("msg", "scan finished", "structs", len(structs))

	out := io.Writer(os.Stdout)
	if opath != "" {
		f, err := os.Create(opath)
		if err != nil {
			return err
		}
		defer f.Close()
		fmt.Fprintf(f, "#pragma once\n\n")
		out = f
	}

	names := make([]string, 0, len(structs))
	for name := range structs {
		if only != "" {
			if name == only {
				names = append(names, name)
			}
			continue
		}
		if utils.FilterStructName(name) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := printStruct(out, info, structs[name]); err != nil {
			level.Warn(logger).Log("msg", "skipping struct", "struct", name, "err", err)
		}
	}
	return nil
}

func printStruct(out io.Writer, info *dwarfhelper.DwarfInfo, s *dwarfhelper.DwStruct) error {
	var b strings.Builder
	fmt.Fprintf(&b, "struct %s {\n", s.Name)
	it := dwarfhelper.NewMemberIter(info, s)
	for {
		m, err := it.Next()
		if err != nil {
			return err
		}
		if m == nil {
			break
		}
		fmt.Fprintf(&b, "\t%s\n", memberDecl(info, m))
	}
	fmt.Fprintf(&b, "};\t/* size: %d", s.Size)
	if s.Refcnt > 0 {
		fmt.Fprintf(&b, ", seen: %d", s.Refcnt+1)
	}
	b.WriteString(" */\n\n")
	_, err := io.WriteString(out, b.String())
	return err
}

// memberDecl renders one member as a C declaration line. Arrays and
// function pointers need the member name woven into the type, so they
// are handled before the plain prefix+name form.
func memberDecl(info *dwarfhelper.DwarfInfo, m *dwarfhelper.DwStructMember) string {
	name := m.Name
	if name == "" {
		name = "<anon>"
	}
	if m.Type == nil {
		return fmt.Sprintf("??? %s;", name)
	}
	switch m.Type.Kind {
	case dwarfhelper.KindArray:
		elem := "void "
		if inner, err := info.Peel(m.Type); err == nil && inner != nil {
			elem = typeString(info, inner)
		}
		return fmt.Sprintf("%s%s[%d];", elem, name, m.Type.Count)
	case dwarfhelper.KindSubroutine:
		return fmt.Sprintf("void (*%s)();", name)
	case dwarfhelper.KindPointer:
		if inner, err := info.Peel(m.Type); err == nil && inner != nil && inner.Kind == dwarfhelper.KindSubroutine {
			return fmt.Sprintf("void (*%s)();", name)
		}
	}
	return fmt.Sprintf("%s%s;", typeString(info, m.Type), name)
}

// typeString builds the declaration prefix for a type, peeling wrapper
// layers until a named leaf is reached. Prefixes carry a trailing
// space (or "*") so the member name concatenates directly.
func typeString(info *dwarfhelper.DwarfInfo, t *dwarfhelper.Type) string {
	switch t.Kind {
	case dwarfhelper.KindStruct:
		return fmt.Sprintf("struct %s ", t.Name)
	case dwarfhelper.KindBase, dwarfhelper.KindTypedef:
		return t.Name + " "
	case dwarfhelper.KindEnum:
		if t.Name != "" {
			return fmt.Sprintf("enum %s ", t.Name)
		}
		return "enum "
	case dwarfhelper.KindUnion:
		return "union "
	case dwarfhelper.KindConst:
		inner, err := info.Peel(t)
		if err != nil || inner == nil {
			return "const void "
		}
		return "const " + typeString(info, inner)
	case dwarfhelper.KindPointer:
		inner, err := info.Peel(t)
		if err != nil || inner == nil {
			return "void *"
		}
		return typeString(info, inner) + "*"
	case dwarfhelper.KindArray:
		inner, err := info.Peel(t)
		if err != nil || inner == nil {
			return "void "
		}
		return typeString(info, inner)
	case dwarfhelper.KindSubroutine:
		return "void "
	}
	return "? "
}
