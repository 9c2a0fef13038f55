package cdbgexpr

import (
	"strings"

	"golang.org/x/exp/slices"

	"github.com/Rbel12b/CdbgExpr/internal/evalx"
)

// CTypeKind is the tag of a single CType layer (spec.md §3.1).
type CTypeKind int

const (
	KindVoid CTypeKind = iota
	KindBool
	KindChar
	KindShort
	KindInt
	KindLong
	KindLongLong
	KindFloat
	KindDouble
	KindStruct
	KindUnion
	KindPointer
	KindArray
	KindBitfield
	KindUnknown
)

var kindNames = map[CTypeKind]string{
	KindVoid:      "void",
	KindBool:      "bool",
	KindChar:      "char",
	KindShort:     "short",
	KindInt:       "int",
	KindLong:      "long",
	KindLongLong:  "long long",
	KindFloat:     "float",
	KindDouble:    "double",
	KindStruct:    "struct",
	KindUnion:     "union",
	KindPointer:   "pointer",
	KindArray:     "array",
	KindBitfield:  "bitfield",
	KindUnknown:   "unknown",
}

func (k CTypeKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// IsFloating reports whether values of this kind are interpreted through the
// float/double bit-reinterpretation projections rather than as integers.
func (k CTypeKind) IsFloating() bool {
	return k == KindFloat || k == KindDouble
}

// CType is a single tagged type layer (spec.md §3.1). Equality compares Kind
// only, per spec.
type CType struct {
	Kind CTypeKind
	// Name is used only by STRUCT/UNION, for the tag name.
	Name string
	// Size is used only by ARRAY, for the element count.
	Size uint64
	// Offset is used only by BITFIELD, for the starting bit.
	Offset uint64
}

// Equal compares two CType layers by Kind only, per spec.md §3.1.
func (c CType) Equal(other CType) bool {
	return c.Kind == other.Kind
}

// TypeStack is an ordered sequence of CType layers read left-to-right as
// qualifiers, the head being the outermost qualifier (spec.md §3.2).
type TypeStack []CType

// Head returns the outermost layer. Callers must not call Head on an empty
// stack; a well-formed SymbolDescriptor never carries one (spec.md §3.2).
func (s TypeStack) Head() CType {
	return s[0]
}

// WithPointer returns a copy of s with a POINTER layer prepended, used by
// AddressOf and by parseTypeString's `*` handling.
func (s TypeStack) WithPointer() TypeStack {
	return slices.Insert(slices.Clone(TypeStack(s)), 0, CType{Kind: KindPointer})
}

// Stripped returns a copy of s with the outermost layer removed, used by
// Dereference.
func (s TypeStack) Stripped() TypeStack {
	return slices.Clone(TypeStack(s[1:]))
}

// validateTypeStack enforces spec.md §3.2's structural invariants: non-empty,
// POINTER/ARRAY require a deeper layer, STRUCT/UNION must be last.
func validateTypeStack(s TypeStack) error {
	if len(s) == 0 {
		return newErr(ErrType, "", "type stack may not be empty")
	}
	for i, layer := range s {
		switch layer.Kind {
		case KindPointer, KindArray:
			if i == len(s)-1 {
				return newErr(ErrType, "", "%s layer requires at least one deeper layer", layer.Kind)
			}
		case KindStruct, KindUnion:
			if i != len(s)-1 {
				return newErr(ErrType, "", "%s layer must be the last layer", layer.Kind)
			}
		}
	}
	return nil
}

// itemSize computes the byte size of the value described by stack[level:],
// per spec.md §4.2: an ARRAY layer contributes size * itemSize(level+1);
// anything else is typeSize(stack[level]) as reported by the host.
func itemSize(stack TypeStack, access DebugAccess, level int) uint64 {
	if level >= len(stack) {
		return 0
	}
	layer := stack[level]
	if layer.Kind == KindArray {
		return layer.Size * itemSize(stack, access, level+1)
	}
	return uint64(access.TypeSize(layer))
}

// promoteType implements spec.md §4.2's simplified "usual arithmetic
// conversion": float/double beats everything, pointer beats any remaining
// integer, otherwise the operand with the larger host-reported size wins
// (ties pick left).
func promoteType(left, right CType, access DebugAccess) CType {
	if left.Kind.IsFloating() || right.Kind.IsFloating() {
		if left.Kind == KindDouble || right.Kind == KindDouble {
			return CType{Kind: KindDouble}
		}
		if left.Kind.IsFloating() && right.Kind.IsFloating() {
			return CType{Kind: KindDouble}
		}
		return CType{Kind: KindDouble}
	}
	if left.Kind == KindPointer || right.Kind == KindPointer {
		return CType{Kind: KindPointer}
	}
	leftSize := access.TypeSize(left)
	rightSize := access.TypeSize(right)
	if evalx.Max(leftSize, rightSize) != leftSize {
		return right
	}
	return left
}

// ParseTypeString tokenizes a C declarator string into a TypeStack, per
// spec.md §4.2. Recognised words: int|float|double|char|bool|void|short|
// long|long long|unsigned|signed|*|<identifier>. `*` prepends a POINTER
// layer; two consecutive `long` fold into LONGLONG (a third `long` is a
// TypeError, an edge case original_source/src/SymbolDescriptor.cpp's
// parseCTypeVector leaves undefined); a bare identifier is prepended as a
// STRUCT tag.
func ParseTypeString(text string) (TypeStack, bool, error) {
	words := strings.Fields(text)
	var stack TypeStack
	isUnsigned := false
	longRun := 0

	flushLongRun := func() {
		switch longRun {
		case 0:
			// nothing pending
		case 1:
			stack = append(stack, CType{Kind: KindLong})
		default:
			stack = append(stack, CType{Kind: KindLongLong})
		}
		longRun = 0
	}

	for _, word := range words {
		if word == "long" {
			longRun++
			if longRun > 2 {
				return nil, false, newErr(ErrType, text, "too many 'long' qualifiers")
			}
			continue
		}
		flushLongRun()

		switch word {
		case "*":
			stack = slices.Insert(stack, 0, CType{Kind: KindPointer})
		case "int":
			stack = append(stack, CType{Kind: KindInt})
		case "float":
			stack = append(stack, CType{Kind: KindFloat})
		case "double":
			stack = append(stack, CType{Kind: KindDouble})
		case "char":
			stack = append(stack, CType{Kind: KindChar})
		case "bool":
			stack = append(stack, CType{Kind: KindBool})
		case "void":
			stack = append(stack, CType{Kind: KindVoid})
		case "short":
			stack = append(stack, CType{Kind: KindShort})
		case "unsigned":
			isUnsigned = true
		case "signed":
			isUnsigned = false
		default:
			// Assume user-defined struct/union tag.
			stack = slices.Insert(stack, 0, CType{Kind: KindStruct, Name: word})
		}
	}
	flushLongRun()

	if len(stack) == 0 {
		return nil, false, newErr(ErrType, text, "empty type string")
	}
	if err := validateTypeStack(stack); err != nil {
		return nil, false, err
	}
	return stack, isUnsigned, nil
}
