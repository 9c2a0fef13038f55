package cdbgexpr

import "github.com/Rbel12b/CdbgExpr/internal/evalx"

// numeric is the intermediate, fully-decoded representation of one operand
// used by the binary-operator dispatch below: exactly one of the three
// views is meaningful, selected by isFloat/isUnsigned, mirroring the
// signed/unsigned/float split spec.md §4.2 calls for instead of funneling
// everything through a single int64 the way the teacher's 32-bit-only
// vm/vm.go arithmetic helpers do.
type numeric struct {
	isFloat    bool
	f          float64
	isUnsigned bool
	u          uint64
	s          int64
}

func symbolToNumeric(s *SymbolDescriptor, access DebugAccess) (numeric, error) {
	head := s.Types.Head()
	switch {
	case head.Kind == KindDouble:
		v, err := s.ToDouble(access)
		return numeric{isFloat: true, f: v}, err
	case head.Kind == KindFloat:
		v, err := s.ToFloat(access)
		return numeric{isFloat: true, f: float64(v)}, err
	case s.IsUnsigned || head.Kind == KindPointer:
		v, err := s.ToUnsigned(access)
		return numeric{isUnsigned: true, u: v}, err
	default:
		v, err := s.ToSigned(access)
		return numeric{s: v}, err
	}
}

// numericToSymbol builds a fresh rvalue descriptor of promoted carrying n's
// value, truncated to width bytes (promoted's declared width as reported
// by the host).
func numericToSymbol(n numeric, promoted CType, promotedUnsigned bool, width uint8) *SymbolDescriptor {
	switch {
	case promoted.Kind == KindDouble:
		return immediateFromDouble(n.asFloat())
	case promoted.Kind == KindFloat:
		return immediateFromFloat(float32(n.asFloat()))
	case promotedUnsigned:
		return immediateFromUnsignedWidth(promoted, n.asUnsigned(), width)
	default:
		return immediateFromSigned(promoted, width, n.asSigned())
	}
}

func immediateFromUnsignedWidth(t CType, v uint64, width uint8) *SymbolDescriptor {
	if width > 0 && width < 8 {
		v &= (uint64(1) << (width * 8)) - 1
	}
	return &SymbolDescriptor{Types: TypeStack{t}, IsUnsigned: true, Immediate: v}
}

func (n numeric) asFloat() float64 {
	if n.isFloat {
		return n.f
	}
	if n.isUnsigned {
		return float64(n.u)
	}
	return float64(n.s)
}

func (n numeric) asUnsigned() uint64 {
	if n.isFloat {
		return uint64(n.f)
	}
	if n.isUnsigned {
		return n.u
	}
	return uint64(n.s)
}

func (n numeric) asSigned() int64 {
	if n.isFloat {
		return int64(n.f)
	}
	if n.isUnsigned {
		return int64(n.u)
	}
	return n.s
}

func (n numeric) isZero() bool {
	if n.isFloat {
		return n.f == 0
	}
	if n.isUnsigned {
		return n.u == 0
	}
	return n.s == 0
}

// binaryNumeric implements the common "promote both operands, compute,
// build a fresh descriptor of the promoted type" shape shared by
// arithmetic and bitwise operators.
func (s *SymbolDescriptor) binaryNumeric(access DebugAccess, rhs *SymbolDescriptor, combine func(a, b numeric) numeric) (*SymbolDescriptor, error) {
	promoted := promoteType(s.Types.Head(), rhs.Types.Head(), access)
	promotedUnsigned := resultIsUnsigned(s, rhs)

	a, err := symbolToNumeric(s, access)
	if err != nil {
		return nil, err
	}
	b, err := symbolToNumeric(rhs, access)
	if err != nil {
		return nil, err
	}

	result := combine(a, b)
	width := access.TypeSize(promoted)
	return numericToSymbol(result, promoted, promotedUnsigned, width), nil
}

// resultIsUnsigned implements spec.md §4.7's "resultIsSigned = leftSigned
// || rightSigned" the other way around: the combined result is unsigned
// only when BOTH operands are unsigned, since a signed operand on either
// side makes the result signed. Floating operands are never unsigned
// regardless of either side's flag (promoteType already routes them to
// DOUBLE before this matters).
func resultIsUnsigned(s, rhs *SymbolDescriptor) bool {
	if s.Types.Head().Kind.IsFloating() || rhs.Types.Head().Kind.IsFloating() {
		return false
	}
	return s.IsUnsigned && rhs.IsUnsigned
}

// pointerOperand reports whether s's head type is POINTER or ARRAY (array
// decays to pointer arithmetic too, per C semantics).
func pointerOperand(s *SymbolDescriptor) bool {
	k := s.Types.Head().Kind
	return k == KindPointer || k == KindArray
}

// Add implements `+` (spec.md §4.6): pointer+integer scales the integer by
// the pointee's itemSize and produces a new pointer; integer+pointer is
// symmetric; otherwise it is ordinary promoted addition.
func (s *SymbolDescriptor) Add(access DebugAccess, rhs *SymbolDescriptor) (*SymbolDescriptor, error) {
	switch {
	case pointerOperand(s) && !pointerOperand(rhs):
		return addPointerAndInt(access, s, rhs, +1)
	case pointerOperand(rhs) && !pointerOperand(s):
		return addPointerAndInt(access, rhs, s, +1)
	default:
		return s.binaryNumeric(access, rhs, func(a, b numeric) numeric {
			if a.isFloat || b.isFloat {
				return numeric{isFloat: true, f: a.asFloat() + b.asFloat()}
			}
			if a.isUnsigned || b.isUnsigned {
				return numeric{isUnsigned: true, u: a.asUnsigned() + b.asUnsigned()}
			}
			return numeric{s: a.asSigned() + b.asSigned()}
		})
	}
}

// Sub implements `-` (spec.md §4.6): pointer-integer scales like Add;
// pointer-pointer yields an element-count difference (LONG LONG, signed).
func (s *SymbolDescriptor) Sub(access DebugAccess, rhs *SymbolDescriptor) (*SymbolDescriptor, error) {
	if pointerOperand(s) && pointerOperand(rhs) {
		elemSize := itemSize(s.Types, access, 1)
		if elemSize == 0 {
			elemSize = 1
		}
		left, err := pointerBase(access, s)
		if err != nil {
			return nil, err
		}
		right, err := pointerBase(access, rhs)
		if err != nil {
			return nil, err
		}
		diff := (int64(left) - int64(right)) / int64(elemSize)
		return immediateFromSigned(CType{Kind: KindLongLong}, 8, diff), nil
	}
	if pointerOperand(s) && !pointerOperand(rhs) {
		return addPointerAndInt(access, s, rhs, -1)
	}
	return s.binaryNumeric(access, rhs, func(a, b numeric) numeric {
		if a.isFloat || b.isFloat {
			return numeric{isFloat: true, f: a.asFloat() - b.asFloat()}
		}
		if a.isUnsigned || b.isUnsigned {
			return numeric{isUnsigned: true, u: a.asUnsigned() - b.asUnsigned()}
		}
		return numeric{s: a.asSigned() - b.asSigned()}
	})
}

func addPointerAndInt(access DebugAccess, ptr, offset *SymbolDescriptor, sign int64) (*SymbolDescriptor, error) {
	elemSize := itemSize(ptr.Types, access, 1)
	if elemSize == 0 {
		elemSize = 1
	}
	base, err := pointerBase(access, ptr)
	if err != nil {
		return nil, err
	}
	n, err := offset.ToSigned(access)
	if err != nil {
		return nil, err
	}
	newAddr := uint64(int64(base) + sign*n*int64(elemSize))
	types := ptr.Types
	if types.Head().Kind == KindArray {
		// An array operand decays to a pointer to its first element.
		types = types.Stripped().WithPointer()
	}
	return &SymbolDescriptor{Types: types, Immediate: newAddr}, nil
}

// pointerBase returns the address a pointer-arithmetic operand stands for:
// a POINTER's stored value, or the storage address an ARRAY decays to (an
// rvalue ARRAY carries that address in Immediate).
func pointerBase(access DebugAccess, s *SymbolDescriptor) (uint64, error) {
	if s.Types.Head().Kind != KindArray {
		return s.ToUnsigned(access)
	}
	addr, ok, err := s.elementAddress(access)
	if err != nil || !ok {
		return s.Immediate, err
	}
	return addr, nil
}

// Mul implements `*` (spec.md §4.6).
func (s *SymbolDescriptor) Mul(access DebugAccess, rhs *SymbolDescriptor) (*SymbolDescriptor, error) {
	return s.binaryNumeric(access, rhs, func(a, b numeric) numeric {
		if a.isFloat || b.isFloat {
			return numeric{isFloat: true, f: a.asFloat() * b.asFloat()}
		}
		if a.isUnsigned || b.isUnsigned {
			return numeric{isUnsigned: true, u: a.asUnsigned() * b.asUnsigned()}
		}
		return numeric{s: a.asSigned() * b.asSigned()}
	})
}

// Div implements `/` (spec.md §4.6). Integer division by zero is
// DivisionByZero; floating division by zero follows IEEE-754 (±Inf/NaN),
// matching the host's own floating-point unit rather than erroring.
func (s *SymbolDescriptor) Div(access DebugAccess, rhs *SymbolDescriptor) (*SymbolDescriptor, error) {
	rn, err := symbolToNumeric(rhs, access)
	if err != nil {
		return nil, err
	}
	if !rn.isFloat && rn.isZero() {
		return nil, newErr(ErrDivisionByZero, s.Name, "division by zero")
	}
	// Unlike Add/Sub/Mul, the quotient itself (not just its stored type)
	// depends on signed vs. unsigned division, so the decision must follow
	// resultIsUnsigned rather than each operand's own flag.
	divUnsigned := resultIsUnsigned(s, rhs)
	return s.binaryNumeric(access, rhs, func(a, b numeric) numeric {
		if a.isFloat || b.isFloat {
			return numeric{isFloat: true, f: a.asFloat() / b.asFloat()}
		}
		if divUnsigned {
			return numeric{isUnsigned: true, u: a.asUnsigned() / b.asUnsigned()}
		}
		return numeric{s: a.asSigned() / b.asSigned()}
	})
}

// Mod implements `%` (spec.md §4.6, OQ-4): always computed as unsigned
// modulo, even when both operands are signed — a deliberate simplification
// over C's implementation-defined signed-remainder rounding, recorded as
// OQ-4.
func (s *SymbolDescriptor) Mod(access DebugAccess, rhs *SymbolDescriptor) (*SymbolDescriptor, error) {
	rn, err := symbolToNumeric(rhs, access)
	if err != nil {
		return nil, err
	}
	if rn.isZero() {
		return nil, newErr(ErrDivisionByZero, s.Name, "modulo by zero")
	}
	promoted := promoteType(s.Types.Head(), rhs.Types.Head(), access)
	if promoted.Kind.IsFloating() {
		return nil, newErr(ErrType, s.Name, "modulo is not defined for floating operands")
	}
	ln, err := symbolToNumeric(s, access)
	if err != nil {
		return nil, err
	}
	width := access.TypeSize(promoted)
	result := ln.asUnsigned() % rn.asUnsigned()
	return immediateFromUnsignedWidth(promoted, result, width), nil
}

// Shl/Shr implement `<<`/`>>` (spec.md §4.6): the result type is the left
// operand's own type (not the promoted type); the right operand is used
// only as a shift count.
func (s *SymbolDescriptor) Shl(access DebugAccess, rhs *SymbolDescriptor) (*SymbolDescriptor, error) {
	return s.shift(access, rhs, func(v uint64, n uint) uint64 { return v << n })
}

func (s *SymbolDescriptor) Shr(access DebugAccess, rhs *SymbolDescriptor) (*SymbolDescriptor, error) {
	if !s.IsUnsigned {
		signedVal, err := s.ToSigned(access)
		if err != nil {
			return nil, err
		}
		n, err := rhs.ToUnsigned(access)
		if err != nil {
			return nil, err
		}
		shifted := signedVal >> evalx.Clamp(n, 0, 63)
		width := access.TypeSize(s.Types.Head())
		return immediateFromSigned(s.Types.Head(), width, shifted), nil
	}
	return s.shift(access, rhs, func(v uint64, n uint) uint64 { return v >> n })
}

func (s *SymbolDescriptor) shift(access DebugAccess, rhs *SymbolDescriptor, op func(uint64, uint) uint64) (*SymbolDescriptor, error) {
	v, err := s.ToUnsigned(access)
	if err != nil {
		return nil, err
	}
	n, err := rhs.ToUnsigned(access)
	if err != nil {
		return nil, err
	}
	width := access.TypeSize(s.Types.Head())
	result := op(v, evalx.Clamp(uint(n), 0, 63))
	return immediateFromUnsignedWidth(s.Types.Head(), result, width), nil
}

// bitwiseOp implements `&`/`^`/`|` (spec.md §4.6): always integer,
// promoted the same as arithmetic.
func (s *SymbolDescriptor) bitwiseOp(access DebugAccess, rhs *SymbolDescriptor, op func(a, b uint64) uint64) (*SymbolDescriptor, error) {
	promoted := promoteType(s.Types.Head(), rhs.Types.Head(), access)
	if promoted.Kind.IsFloating() {
		return nil, newErr(ErrType, s.Name, "bitwise operators require integer operands")
	}
	a, err := s.ToUnsigned(access)
	if err != nil {
		return nil, err
	}
	b, err := rhs.ToUnsigned(access)
	if err != nil {
		return nil, err
	}
	width := access.TypeSize(promoted)
	return immediateFromUnsignedWidth(promoted, op(a, b), width), nil
}

func (s *SymbolDescriptor) BitAnd(access DebugAccess, rhs *SymbolDescriptor) (*SymbolDescriptor, error) {
	return s.bitwiseOp(access, rhs, func(a, b uint64) uint64 { return a & b })
}

func (s *SymbolDescriptor) BitOr(access DebugAccess, rhs *SymbolDescriptor) (*SymbolDescriptor, error) {
	return s.bitwiseOp(access, rhs, func(a, b uint64) uint64 { return a | b })
}

func (s *SymbolDescriptor) BitXor(access DebugAccess, rhs *SymbolDescriptor) (*SymbolDescriptor, error) {
	return s.bitwiseOp(access, rhs, func(a, b uint64) uint64 { return a ^ b })
}

// compare implements the six relational/equality operators uniformly: they
// all produce a BOOL descriptor holding 0 or 1.
func (s *SymbolDescriptor) compare(access DebugAccess, rhs *SymbolDescriptor, cmp func(a, b numeric) bool) (*SymbolDescriptor, error) {
	a, err := symbolToNumeric(s, access)
	if err != nil {
		return nil, err
	}
	b, err := symbolToNumeric(rhs, access)
	if err != nil {
		return nil, err
	}
	if cmp(a, b) {
		return immediateFromUnsignedWidth(CType{Kind: KindBool}, 1, 1), nil
	}
	return immediateFromUnsignedWidth(CType{Kind: KindBool}, 0, 1), nil
}

// compareNumeric returns -1/0/1 per spec.md §4.7's comparison rule:
// operands compared as floats if either is float; else as signed if either
// is signed; else as unsigned. Integer comparisons use exact int64/uint64
// arithmetic rather than a lossy float64 intermediate.
func compareNumeric(a, b numeric) int {
	switch {
	case a.isFloat || b.isFloat:
		x, y := a.asFloat(), b.asFloat()
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		default:
			return 0
		}
	case a.isUnsigned && b.isUnsigned:
		x, y := a.asUnsigned(), b.asUnsigned()
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		default:
			return 0
		}
	default:
		x, y := a.asSigned(), b.asSigned()
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		default:
			return 0
		}
	}
}

func (s *SymbolDescriptor) Lt(access DebugAccess, rhs *SymbolDescriptor) (*SymbolDescriptor, error) {
	return s.compare(access, rhs, func(a, b numeric) bool { return compareNumeric(a, b) < 0 })
}

func (s *SymbolDescriptor) Gt(access DebugAccess, rhs *SymbolDescriptor) (*SymbolDescriptor, error) {
	return s.compare(access, rhs, func(a, b numeric) bool { return compareNumeric(a, b) > 0 })
}

func (s *SymbolDescriptor) Le(access DebugAccess, rhs *SymbolDescriptor) (*SymbolDescriptor, error) {
	return s.compare(access, rhs, func(a, b numeric) bool { return compareNumeric(a, b) <= 0 })
}

func (s *SymbolDescriptor) Ge(access DebugAccess, rhs *SymbolDescriptor) (*SymbolDescriptor, error) {
	return s.compare(access, rhs, func(a, b numeric) bool { return compareNumeric(a, b) >= 0 })
}

func (s *SymbolDescriptor) Eq(access DebugAccess, rhs *SymbolDescriptor) (*SymbolDescriptor, error) {
	return s.compare(access, rhs, func(a, b numeric) bool { return compareNumeric(a, b) == 0 })
}

func (s *SymbolDescriptor) Ne(access DebugAccess, rhs *SymbolDescriptor) (*SymbolDescriptor, error) {
	return s.compare(access, rhs, func(a, b numeric) bool { return compareNumeric(a, b) != 0 })
}

// LogAnd/LogOr implement `&&`/`||` (spec.md §4.6, OQ-3): deliberately
// non-short-circuiting. The AST evaluator always evaluates both operands
// before calling these (see ast.go), so side effects on the right-hand
// operand always occur, unlike C.
func (s *SymbolDescriptor) LogAnd(access DebugAccess, rhs *SymbolDescriptor) (*SymbolDescriptor, error) {
	a, err := symbolToNumeric(s, access)
	if err != nil {
		return nil, err
	}
	b, err := symbolToNumeric(rhs, access)
	if err != nil {
		return nil, err
	}
	result := uint64(0)
	if !a.isZero() && !b.isZero() {
		result = 1
	}
	return immediateFromUnsignedWidth(CType{Kind: KindBool}, result, 1), nil
}

func (s *SymbolDescriptor) LogOr(access DebugAccess, rhs *SymbolDescriptor) (*SymbolDescriptor, error) {
	a, err := symbolToNumeric(s, access)
	if err != nil {
		return nil, err
	}
	b, err := symbolToNumeric(rhs, access)
	if err != nil {
		return nil, err
	}
	result := uint64(0)
	if !a.isZero() || !b.isZero() {
		result = 1
	}
	return immediateFromUnsignedWidth(CType{Kind: KindBool}, result, 1), nil
}

// UnaryMinus/UnaryPlus/Not/BitNot implement the unary operators (spec.md
// §4.6). Unary `+` is a no-op beyond integer promotion-by-copy.
func (s *SymbolDescriptor) UnaryMinus(access DebugAccess) (*SymbolDescriptor, error) {
	n, err := symbolToNumeric(s, access)
	if err != nil {
		return nil, err
	}
	head := s.Types.Head()
	width := access.TypeSize(head)
	switch {
	case n.isFloat:
		if head.Kind == KindDouble {
			return immediateFromDouble(-n.f), nil
		}
		return immediateFromFloat(float32(-n.f)), nil
	case s.IsUnsigned:
		return immediateFromUnsignedWidth(head, uint64(-int64(n.u)), width), nil
	default:
		return immediateFromSigned(head, width, -n.s), nil
	}
}

// UnaryPlus implements `+x`, a pure copy: it reads the current value
// through storage and returns it as a fresh rvalue of the same type.
func (s *SymbolDescriptor) UnaryPlus(access DebugAccess) (*SymbolDescriptor, error) {
	bits, err := s.readBackingBits(access)
	if err != nil {
		return nil, err
	}
	return &SymbolDescriptor{Types: s.Types, IsUnsigned: s.IsUnsigned, Immediate: bits}, nil
}

// Not implements `!x`: logical negation, always produces a BOOL 0 or 1.
func (s *SymbolDescriptor) Not(access DebugAccess) (*SymbolDescriptor, error) {
	n, err := symbolToNumeric(s, access)
	if err != nil {
		return nil, err
	}
	result := uint64(0)
	if n.isZero() {
		result = 1
	}
	return immediateFromUnsignedWidth(CType{Kind: KindBool}, result, 1), nil
}

// BitNot implements `~x`: bitwise complement, preserving the operand's own
// integer type and width.
func (s *SymbolDescriptor) BitNot(access DebugAccess) (*SymbolDescriptor, error) {
	head := s.Types.Head()
	if head.Kind.IsFloating() {
		return nil, newErr(ErrType, s.Name, "bitwise complement requires an integer operand")
	}
	bits, err := s.ToUnsigned(access)
	if err != nil {
		return nil, err
	}
	width := access.TypeSize(head)
	return immediateFromUnsignedWidth(head, ^bits, width), nil
}
