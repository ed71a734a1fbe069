package glcompose

import (
	"bytes"
	"strconv"
)

// Node is a single emitted unit of a generated program. Nodes are kept
// structured until a [Unit] is serialized with AppendSource.
type Node interface {
	// AppendSource appends the GLSL text of the node to b and returns the result.
	AppendSource(b []byte) []byte
}

// Block is verbatim source text emitted followed by a newline.
// Owner is the fragment the text belongs to, empty for preamble and postscript blocks.
type Block struct {
	Owner string
	Text  string
}

func (blk Block) AppendSource(b []byte) []byte {
	b = append(b, blk.Text...)
	return append(b, '\n')
}

// Define is a preprocessor macro definition line.
type Define struct {
	Name  string
	Value string
}

func (def Define) AppendSource(b []byte) []byte {
	return AppendDefineDecl(b, def.Name, def.Value)
}

// FloatArray is a sized float array declaration initialized with constant values:
//
//	float <Name>[<Length>] = float[<Length>](<Values>);
type FloatArray struct {
	Name string
	// Length is the array length expression, usually a macro name.
	Length string
	Values []float32
}

func (arr FloatArray) AppendSource(b []byte) []byte {
	return AppendFloatArrayDecl(b, arr.Name, arr.Length, arr.Values)
}

// Branch is one arm of a [Dispatch] conditional chain.
type Branch struct {
	// Fragment is the name of the fragment that produced the branch.
	Fragment string
	// Tag is the runtime tag expression compared against Constant.
	Tag      string
	Constant string
	Body     string
}

// AppendGuard appends the branch's guard, i.e: "else if(<Tag> == <Constant>) ".
func (br Branch) AppendGuard(b []byte) []byte {
	b = append(b, "else if("...)
	b = append(b, br.Tag...)
	b = append(b, " == "...)
	b = append(b, br.Constant...)
	b = append(b, ") "...)
	return b
}

func (br Branch) AppendSource(b []byte) []byte {
	b = br.AppendGuard(b)
	b = append(b, '{')
	b = append(b, br.Body...)
	b = append(b, '}')
	return b
}

// Dispatch is a multi-branch conditional synthesized by an [Export].
// The prologue is expected to open the chain with a permanently false branch
// so that an empty Branches slice still yields valid source.
type Dispatch struct {
	Export   string
	Prologue string
	Branches []Branch
	Epilogue string
}

func (d Dispatch) AppendSource(b []byte) []byte {
	b = append(b, d.Prologue...)
	for i := range d.Branches {
		b = d.Branches[i].AppendSource(b)
	}
	b = append(b, d.Epilogue...)
	return append(b, '\n')
}

// Unit is the structured result of a single [Generator.Build] call.
type Unit struct {
	Generator string
	Nodes     []Node
}

// AppendSource appends the source of all nodes in order.
func (u *Unit) AppendSource(b []byte) []byte {
	for _, n := range u.Nodes {
		b = n.AppendSource(b)
	}
	return b
}

func (u *Unit) String() string {
	return string(u.AppendSource(nil))
}

// Dispatches returns the dispatch nodes of the unit in emission order.
func (u *Unit) Dispatches() []Dispatch {
	var ds []Dispatch
	for _, n := range u.Nodes {
		if d, ok := n.(Dispatch); ok {
			ds = append(ds, d)
		}
	}
	return ds
}

func AppendDefineDecl(b []byte, aliasToDefine, aliasReplace string) []byte {
	b = append(b, "#define "...)
	b = append(b, aliasToDefine...)
	b = append(b, ' ')
	b = append(b, aliasReplace...)
	b = append(b, '\n')
	return b
}

const decimalDigits = 9

// AppendFloat appends v in decimal notation with trailing zeroes trimmed.
// The decimal point is always kept so the result is a GLSL float literal.
func AppendFloat(b []byte, v float32) []byte {
	start := len(b)
	b = strconv.AppendFloat(b, float64(v), 'f', decimalDigits, 32)
	idx := bytes.IndexByte(b[start:], '.')
	end := len(b)
	for i := len(b) - 1; idx >= 0 && i > idx+start && b[i] == '0'; i-- {
		end--
	}
	return b[:end]
}

const maxLineLim = 500

// AppendFloatArrayDecl appends a constant initialized float array declaration.
// Very long value lists are broken up across lines.
func AppendFloatArrayDecl(b []byte, varname, length string, vals []float32) []byte {
	lineStart := len(b)
	b = append(b, "float "...)
	b = append(b, varname...)
	b = append(b, '[')
	b = append(b, length...)
	b = append(b, "] = float["...)
	b = append(b, length...)
	b = append(b, "]("...)
	for i, v := range vals {
		b = AppendFloat(b, v)
		if i != len(vals)-1 {
			b = append(b, ',')
			if len(b)-lineStart > maxLineLim {
				b = append(b, '\n')
				lineStart = len(b)
			}
		}
	}
	b = append(b, ");\n"...)
	return b
}
