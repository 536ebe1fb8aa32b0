package ir

import (
	"fmt"
	"strings"
)

// Print renders m as the human-readable textual form the CLI driver's
// `--emit-ir` flag writes out. The grammar is not meant to be
// re-parsed; it exists for debugging and golden-file comparisons.
func Print(m *Module) string {
	var b strings.Builder
	fmt.Fprintf(&b, "module %s\n", m.Name)
	for _, s := range m.Structs {
		tag := ""
		if s.Packed {
			tag = " packed"
		}
		fmt.Fprintf(&b, "struct %s%s {\n", s.Name, tag)
		for _, f := range s.Fields {
			fmt.Fprintf(&b, "  %s: %s\n", f.Name, f.Type)
		}
		b.WriteString("}\n")
	}
	for _, e := range m.Externs {
		fmt.Fprintf(&b, "extern fn %s(%s) -> %s\n", e.Name, joinTypes(e.Params), e.Ret)
	}
	for _, f := range m.Funcs {
		printFunc(&b, f)
	}
	return b.String()
}

func joinTypes(ts []*Type) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}

func printFunc(b *strings.Builder, f *Function) {
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = fmt.Sprintf("%s: %s", p.Name, p.Type)
	}
	fmt.Fprintf(b, "fn %s(%s) -> %s", f.Name, strings.Join(params, ", "), f.Ret)
	if f.Pure {
		b.WriteString(" pure")
	}
	b.WriteString(" {\n")
	for _, blk := range f.Blocks {
		fmt.Fprintf(b, "L%d (%s):\n", blk.ID, blk.Label)
		for _, instr := range blk.Instrs {
			fmt.Fprintf(b, "  %s\n", instr)
		}
		if blk.Term != nil {
			fmt.Fprintf(b, "  %s\n", blk.Term)
		}
	}
	b.WriteString("}\n")
}
