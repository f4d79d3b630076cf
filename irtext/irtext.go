// Package irtext reads textual LLVM IR without going through LLVM itself.  It
// is used to inspect the modules produced by the llvm package: the printed IR
// of a module is parsed back and summarized block by block.
package irtext

import (
	"fmt"
	"os"
	"strings"

	"github.com/llir/llvm/asm"
	"github.com/llir/llvm/ir"
)

// ParseString parses the textual IR in src.  The name identifies the source in
// error messages.
func ParseString(name, src string) (*ir.Module, error) {
	m, err := asm.ParseString(name, src)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}

	return m, nil
}

// ParseFile parses the textual IR file at path.
func ParseFile(path string) (*ir.Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return ParseString(path, string(data))
}

// -----------------------------------------------------------------------------

// Summary is an outline of a module: its functions and, for each defined
// function, the opcodes of every block.
type Summary struct {
	Functions []FuncSummary `yaml:"functions"`
}

// FuncSummary outlines a single function.
type FuncSummary struct {
	Name        string         `yaml:"name"`
	Declaration bool           `yaml:"declaration,omitempty"`
	Blocks      []BlockSummary `yaml:"blocks,omitempty"`
}

// BlockSummary lists the opcodes of a block in order.  The terminator is the
// last opcode.
type BlockSummary struct {
	Name    string   `yaml:"name"`
	Opcodes []string `yaml:"opcodes"`
}

// Summarize outlines the functions of m.
func Summarize(m *ir.Module) *Summary {
	s := &Summary{}

	for _, f := range m.Funcs {
		fs := FuncSummary{Name: f.Name(), Declaration: len(f.Blocks) == 0}

		for _, blk := range f.Blocks {
			bs := BlockSummary{Name: blk.Name()}

			for _, inst := range blk.Insts {
				bs.Opcodes = append(bs.Opcodes, opcodeOf(inst.LLString()))
			}

			if blk.Term != nil {
				bs.Opcodes = append(bs.Opcodes, opcodeOf(blk.Term.LLString()))
			}

			fs.Blocks = append(fs.Blocks, bs)
		}

		s.Functions = append(s.Functions, fs)
	}

	return s
}

// Function returns the summary of the function named name.
func (s *Summary) Function(name string) (*FuncSummary, bool) {
	for i := range s.Functions {
		if s.Functions[i].Name == name {
			return &s.Functions[i], true
		}
	}

	return nil, false
}

// Count returns the number of instructions with the given opcode in the
// function, terminators included.
func (fs *FuncSummary) Count(opcode string) int {
	n := 0
	for _, bs := range fs.Blocks {
		for _, op := range bs.Opcodes {
			if op == opcode {
				n++
			}
		}
	}

	return n
}

// NumInstructions returns the number of instructions in the function.
func (fs *FuncSummary) NumInstructions() int {
	n := 0
	for _, bs := range fs.Blocks {
		n += len(bs.Opcodes)
	}

	return n
}

// opcodeOf extracts the opcode from the text of an instruction, eg. `mul` from
// `%r = mul i32 %x, %x`.
func opcodeOf(text string) string {
	if strings.HasPrefix(text, "%") {
		if _, rhs, ok := strings.Cut(text, " = "); ok {
			text = rhs
		}
	}

	fields := strings.Fields(text)
	for len(fields) > 1 {
		switch fields[0] {
		case "tail", "musttail", "notail":
			fields = fields[1:]
			continue
		}

		break
	}

	if len(fields) == 0 {
		return ""
	}

	return fields[0]
}

// -----------------------------------------------------------------------------

// CheckTerminators verifies that every block of every defined function ends in
// a terminator and that every branch target belongs to the same function.
func CheckTerminators(m *ir.Module) error {
	for _, f := range m.Funcs {
		owned := make(map[*ir.Block]bool, len(f.Blocks))
		for _, blk := range f.Blocks {
			owned[blk] = true
		}

		for _, blk := range f.Blocks {
			if blk.Term == nil {
				return fmt.Errorf("block %s of @%s has no terminator", blk.Ident(), f.Name())
			}

			for _, succ := range blk.Term.Succs() {
				if !owned[succ] {
					return fmt.Errorf("block %s of @%s branches to %s outside the function", blk.Ident(), f.Name(), succ.Ident())
				}
			}
		}
	}

	return nil
}
