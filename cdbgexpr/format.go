package cdbgexpr

import (
	"fmt"
	"strings"
)

// TypeString renders a TypeStack as a declarator string: leading `*`s for
// POINTER layers, the primitive name (with an `unsigned` prefix when
// applicable), then `[N]` suffixes for ARRAY layers.
func TypeString(stack TypeStack, isUnsigned bool) string {
	var stars strings.Builder
	var arrays strings.Builder
	base := "unknown"

	for _, layer := range stack {
		switch layer.Kind {
		case KindPointer:
			stars.WriteByte('*')
		case KindArray:
			fmt.Fprintf(&arrays, "[%d]", layer.Size)
		case KindStruct:
			base = "struct " + layer.Name
		case KindUnion:
			base = "union " + layer.Name
		default:
			base = layer.Kind.String()
		}
	}

	prefix := ""
	if isUnsigned {
		switch stack.Head().Kind {
		case KindPointer, KindArray, KindStruct, KindUnion, KindFloat, KindDouble:
		default:
			prefix = "unsigned "
		}
	}

	return stars.String() + prefix + base + arrays.String()
}

// Format renders the current value of a SymbolDescriptor for display, per
// spec.md §4.8: integers print as decimal (unsigned as unsigned, signed as
// signed), floats/doubles print via Go's shortest round-trip formatting,
// pointers print as a `0x`-prefixed hex address (pointer-to-char also
// appends the NUL-terminated string it points at), structs/unions print as
// `Tag{ m1 = ..., m2 = ..., }`, and arrays print as `[e0, e1, ...]`. Every
// other value — bool, float/double, and signed/unsigned integers — is
// prefixed with its `(typeOf)` in parentheses (spec.md §4.7); pointers,
// arrays, and structs/unions are not.
func Format(s *SymbolDescriptor, access DebugAccess) (string, error) {
	head := s.Types.Head()
	switch {
	case head.Kind == KindDouble:
		v, err := s.ToDouble(access)
		if err != nil {
			return "", err
		}
		return typeOfPrefix(s) + fmt.Sprintf("%g", v), nil

	case head.Kind == KindFloat:
		v, err := s.ToFloat(access)
		if err != nil {
			return "", err
		}
		return typeOfPrefix(s) + fmt.Sprintf("%g", v), nil

	case head.Kind == KindPointer:
		v, err := s.ToUnsigned(access)
		if err != nil {
			return "", err
		}
		if len(s.Types) > 1 && s.Types[1].Kind == KindChar {
			str, err := readCString(access, v)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("0x%x %q", v, str), nil
		}
		return fmt.Sprintf("0x%x", v), nil

	case head.Kind == KindStruct || head.Kind == KindUnion:
		return formatAggregate(s, access, head)

	case head.Kind == KindArray:
		return formatArray(s, access, head)

	case head.Kind == KindBool:
		v, err := s.ToUnsigned(access)
		if err != nil {
			return "", err
		}
		if v != 0 {
			return typeOfPrefix(s) + "true", nil
		}
		return typeOfPrefix(s) + "false", nil

	case s.IsUnsigned:
		v, err := s.ToUnsigned(access)
		if err != nil {
			return "", err
		}
		return typeOfPrefix(s) + fmt.Sprintf("%d", v), nil

	default:
		v, err := s.ToSigned(access)
		if err != nil {
			return "", err
		}
		return typeOfPrefix(s) + fmt.Sprintf("%d", v), nil
	}
}

// typeOfPrefix renders the `(typeOf) ` parenthetical spec.md §4.7 prepends
// to non-pointer, non-array, non-struct values.
func typeOfPrefix(s *SymbolDescriptor) string {
	return "(" + TypeString(s.Types, s.IsUnsigned) + ") "
}

// maxCStringLen bounds readCString against a corrupt or unterminated
// pointer target; a real debuggee segment is never this long a single
// string literal in practice, and this keeps a stray pointer from reading
// forever.
const maxCStringLen = 4096

// readCString reads bytes starting at addr until a NUL or maxCStringLen,
// for pointer-to-char formatting (spec.md §4.7).
func readCString(access DebugAccess, addr uint64) (string, error) {
	var b strings.Builder
	for i := uint64(0); i < maxCStringLen; i++ {
		c, err := access.ReadByte(addr + i)
		if err != nil {
			return "", wrapHostErr(err, "")
		}
		if c == 0 {
			break
		}
		b.WriteByte(c)
	}
	return b.String(), nil
}

// formatAggregate renders a STRUCT/UNION value as `Tag{ m1 = ..., m2 = ..., }`
// (spec.md §4.7), looking up each member through DebugAccess.MemberInfo at
// the aggregate's own storage address in declaration order.
func formatAggregate(s *SymbolDescriptor, access DebugAccess, head CType) (string, error) {
	names, err := access.MemberNames(head)
	if err != nil {
		return "", err
	}
	baseAddr, ok, err := s.elementAddress(access)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", newErr(ErrNotAnLvalue, s.Name, "cannot format a struct/union with no storage address")
	}
	tag := "struct"
	if head.Kind == KindUnion {
		tag = "union"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s{ ", tag, head.Name)
	for _, name := range names {
		fieldType, fieldUnsigned, offset, err := access.MemberInfo(head, name)
		if err != nil {
			return "", err
		}
		member := &SymbolDescriptor{Types: TypeStack{fieldType}, IsUnsigned: fieldUnsigned, HasAddress: true, Address: baseAddr + offset}
		text, err := Format(member, access)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "%s = %s, ", name, text)
	}
	b.WriteString("}")
	return b.String(), nil
}

// formatArray renders an ARRAY value as `[e0, e1, ...]` (spec.md §4.7),
// reading each element by dereferencing at successive offsets rather than
// through Index, since an array descriptor's own elementAddress already
// gives the base without a redundant Add.
func formatArray(s *SymbolDescriptor, access DebugAccess, head CType) (string, error) {
	baseAddr, ok, err := s.elementAddress(access)
	if !ok {
		if err != nil {
			return "", err
		}
		return "", newErr(ErrNotAnLvalue, s.Name, "cannot format an array with no storage address")
	}
	elemStack := s.Types.Stripped()
	elemSize := itemSize(elemStack, access, 0)

	var b strings.Builder
	b.WriteString("[")
	for i := uint64(0); i < head.Size; i++ {
		elem := &SymbolDescriptor{Types: elemStack, IsUnsigned: s.IsUnsigned, HasAddress: true, Address: baseAddr + i*elemSize}
		text, err := Format(elem, access)
		if err != nil {
			return "", err
		}
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(text)
	}
	b.WriteString("]")
	return b.String(), nil
}
