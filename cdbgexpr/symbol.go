package cdbgexpr

import "math"

// SymbolDescriptor is a typed value bound to zero or one storage location
// (spec.md §3.3). Every evaluation step, arithmetic included, produces a
// fresh SymbolDescriptor rather than mutating an existing one (spec.md
// §3.4) — the same value-semantics the teacher's vm.go abandoned in favor
// of in-place register mutation, but required here because a single AST
// can reference the same sub-expression's result more than once conceptually
// (e.g. in error messages) without the evaluator re-deriving storage.
//
// Exactly one storage kind applies at a time, in priority order: register
// list, stack-relative offset, absolute address, immediate literal
// (spec.md §3.3). A descriptor with none of the first three set is an
// rvalue: it carries its value directly in Immediate and IsLvalue reports
// false.
type SymbolDescriptor struct {
	Types      TypeStack
	IsUnsigned bool
	Name       string
	Scope      Scope

	// Regs holds one register ID per byte of the value, least-significant
	// byte first, when the value lives in the register file.
	Regs []uint8

	// StackOffset is relative to DebugAccess.StackPointer() when HasStack.
	StackOffset int64
	HasStack    bool

	// Address is an absolute memory address when HasAddress.
	Address    uint64
	HasAddress bool

	// Immediate carries the raw backing bits (zero-extended into the
	// uint64 container) when the descriptor is a pure rvalue. Reads of an
	// lvalue never consult it: they always go through DebugAccess, per
	// spec.md §5's "paused, consistent snapshot" model. Assign records the
	// bits it wrote here on the descriptor it returns.
	Immediate uint64
}

// IsLvalue reports whether the descriptor names a storage location that
// can be written back through Assign/AddressOf.
func (s *SymbolDescriptor) IsLvalue() bool {
	return len(s.Regs) > 0 || s.HasStack || s.HasAddress
}

// byteWidth returns the backing width of the descriptor's full type, per
// spec.md §4.2's itemSize.
func (s *SymbolDescriptor) byteWidth(access DebugAccess) uint64 {
	return itemSize(s.Types, access, 0)
}

// readBackingBits reads the descriptor's storage, in priority order
// registers > stack > address > immediate, zero-extending into a uint64
// regardless of the type's signedness (spec.md §3.3, §4.7). Multi-byte
// values are assembled little-endian, matching the teacher's
// uint32FromBytes helper in vm/vm.go generalized to variable width.
func (s *SymbolDescriptor) readBackingBits(access DebugAccess) (uint64, error) {
	width := s.byteWidth(access)
	if width == 0 || width > 8 {
		return 0, newErr(ErrType, s.Name, "unsupported backing width %d", width)
	}

	switch {
	case len(s.Regs) > 0:
		var bits uint64
		for i, reg := range s.Regs {
			b, err := access.ReadRegister(reg)
			if err != nil {
				return 0, wrapHostErr(err, s.Name)
			}
			bits |= uint64(b) << (8 * uint(i))
		}
		return bits, nil

	case s.HasStack:
		sp, err := access.StackPointer()
		if err != nil {
			return 0, wrapHostErr(err, s.Name)
		}
		addr := uint64(int64(sp) + s.StackOffset)
		return readBytesLE(access, addr, width, s.Name)

	case s.HasAddress:
		return readBytesLE(access, s.Address, width, s.Name)

	default:
		return s.Immediate, nil
	}
}

func readBytesLE(access DebugAccess, addr uint64, width uint64, tok string) (uint64, error) {
	var bits uint64
	for i := uint64(0); i < width; i++ {
		b, err := access.ReadByte(addr + i)
		if err != nil {
			return 0, wrapHostErr(err, tok)
		}
		bits |= uint64(b) << (8 * i)
	}
	return bits, nil
}

// writeBackingBits writes bits back through the descriptor's storage kind.
// It fails with NotAnLvalue if the descriptor has no storage.
func (s *SymbolDescriptor) writeBackingBits(access DebugAccess, bits uint64) error {
	width := s.byteWidth(access)

	switch {
	case len(s.Regs) > 0:
		for i, reg := range s.Regs {
			b := uint8(bits >> (8 * uint(i)))
			if err := access.WriteRegister(reg, b); err != nil {
				return wrapHostErr(err, s.Name)
			}
		}
		return nil

	case s.HasStack:
		sp, err := access.StackPointer()
		if err != nil {
			return wrapHostErr(err, s.Name)
		}
		addr := uint64(int64(sp) + s.StackOffset)
		return writeBytesLE(access, addr, width, bits, s.Name)

	case s.HasAddress:
		return writeBytesLE(access, s.Address, width, bits, s.Name)

	default:
		return newErr(ErrNotAnLvalue, s.Name, "cannot assign to an rvalue")
	}
}

func writeBytesLE(access DebugAccess, addr uint64, width uint64, bits uint64, tok string) error {
	for i := uint64(0); i < width; i++ {
		b := uint8(bits >> (8 * i))
		if err := access.WriteByte(addr+i, b); err != nil {
			return wrapHostErr(err, tok)
		}
	}
	return nil
}

// signExtend sign-extends the low byteWidth*8 bits of bits into a full
// int64. Raw backing bits are always read zero-extended (readBackingBits),
// so a signed sub-64-bit type (e.g. a signed char holding 0xFF, meaning -1)
// must be explicitly sign-extended before any signed arithmetic or
// int64 cast — a bare int64(bits) would silently yield 255 instead of -1.
func signExtend(bits uint64, byteWidth uint8) int64 {
	if byteWidth == 0 || byteWidth >= 8 {
		return int64(bits)
	}
	shift := 64 - byteWidth*8
	return int64(bits<<shift) >> shift
}

// ToUnsigned projects the descriptor to its raw unsigned 64-bit
// representation (spec.md §4.7's four projections). Floating types are
// bit-reinterpreted, not converted: a DOUBLE of 1.0 projects to the
// unsigned pattern of its IEEE-754 bits, not to the integer 1.
func (s *SymbolDescriptor) ToUnsigned(access DebugAccess) (uint64, error) {
	bits, err := s.readBackingBits(access)
	if err != nil {
		return 0, err
	}
	return bits, nil
}

// ToSigned projects the descriptor to a sign-extended int64, per the
// type's declared width and signedness.
func (s *SymbolDescriptor) ToSigned(access DebugAccess) (int64, error) {
	bits, err := s.readBackingBits(access)
	if err != nil {
		return 0, err
	}
	width := uint8(s.byteWidth(access))
	if s.IsUnsigned {
		return int64(bits), nil
	}
	return signExtend(bits, width), nil
}

// ToFloat bit-reinterprets the descriptor's backing bits as an IEEE-754
// binary32, per spec.md §4.7. Callers must only call this when the
// descriptor's head type is FLOAT.
func (s *SymbolDescriptor) ToFloat(access DebugAccess) (float32, error) {
	bits, err := s.readBackingBits(access)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(uint32(bits)), nil
}

// ToDouble bit-reinterprets the descriptor's backing bits as an IEEE-754
// binary64. Callers must only call this when the descriptor's head type is
// DOUBLE.
func (s *SymbolDescriptor) ToDouble(access DebugAccess) (float64, error) {
	bits, err := s.readBackingBits(access)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(bits), nil
}

// immediateFromUnsigned builds a pure-rvalue descriptor of the given type
// carrying raw bits (already masked to the type's width by the caller).
func immediateFromUnsigned(t CType, isUnsigned bool, bits uint64) *SymbolDescriptor {
	return &SymbolDescriptor{Types: TypeStack{t}, IsUnsigned: isUnsigned, Immediate: bits}
}

// immediateFromSigned builds a pure-rvalue descriptor from a signed value,
// truncating to width bytes before storing (two's complement, little bits
// kept).
func immediateFromSigned(t CType, width uint8, v int64) *SymbolDescriptor {
	bits := uint64(v)
	if width < 8 {
		bits &= (uint64(1) << (width * 8)) - 1
	}
	return &SymbolDescriptor{Types: TypeStack{t}, Immediate: bits}
}

// immediateFromFloat builds a pure-rvalue FLOAT descriptor from its bit
// pattern.
func immediateFromFloat(v float32) *SymbolDescriptor {
	return &SymbolDescriptor{Types: TypeStack{{Kind: KindFloat}}, Immediate: uint64(math.Float32bits(v))}
}

// immediateFromDouble builds a pure-rvalue DOUBLE descriptor from its bit
// pattern.
func immediateFromDouble(v float64) *SymbolDescriptor {
	return &SymbolDescriptor{Types: TypeStack{{Kind: KindDouble}}, Immediate: math.Float64bits(v)}
}

// Assign writes rhs's value through s's storage and returns a fresh
// descriptor reflecting the stored value, per spec.md §4.6. s must be an
// lvalue; rhs is converted to s's type first.
func (s *SymbolDescriptor) Assign(access DebugAccess, rhs *SymbolDescriptor) (*SymbolDescriptor, error) {
	if !s.IsLvalue() {
		return nil, newErr(ErrNotAnLvalue, s.Name, "left-hand side of assignment is not an lvalue")
	}
	converted, err := convertTo(access, rhs, s.Types.Head(), s.IsUnsigned)
	if err != nil {
		return nil, err
	}
	if err := s.writeBackingBits(access, converted); err != nil {
		return nil, err
	}
	result := *s
	result.Immediate = converted
	return &result, nil
}

// convertTo converts rhs's current value to the raw backing-bit
// representation of target, truncating/reinterpreting per spec.md §4.5's
// assignment-conversion rules: float/double source converts numerically
// into an integer target (and vice versa), not bit-for-bit, since a plain
// assignment is not a reinterpret-cast.
func convertTo(access DebugAccess, rhs *SymbolDescriptor, target CType, targetUnsigned bool) (uint64, error) {
	width := uint8(uint64FromSize(access.TypeSize(target)))
	rhsHead := rhs.Types.Head()

	switch {
	case target.Kind == KindDouble:
		var f float64
		var err error
		switch {
		case rhsHead.Kind == KindDouble:
			f, err = rhs.ToDouble(access)
		case rhsHead.Kind == KindFloat:
			var f32 float32
			f32, err = rhs.ToFloat(access)
			f = float64(f32)
		case rhs.IsUnsigned:
			var u uint64
			u, err = rhs.ToUnsigned(access)
			f = float64(u)
		default:
			var i int64
			i, err = rhs.ToSigned(access)
			f = float64(i)
		}
		if err != nil {
			return 0, err
		}
		return math.Float64bits(f), nil

	case target.Kind == KindFloat:
		var f float32
		var err error
		switch {
		case rhsHead.Kind == KindDouble:
			var f64 float64
			f64, err = rhs.ToDouble(access)
			f = float32(f64)
		case rhsHead.Kind == KindFloat:
			f, err = rhs.ToFloat(access)
		case rhs.IsUnsigned:
			var u uint64
			u, err = rhs.ToUnsigned(access)
			f = float32(u)
		default:
			var i int64
			i, err = rhs.ToSigned(access)
			f = float32(i)
		}
		if err != nil {
			return 0, err
		}
		return uint64(math.Float32bits(f)), nil

	default:
		var bits uint64
		if rhsHead.Kind.IsFloating() {
			var f float64
			var err error
			if rhsHead.Kind == KindDouble {
				f, err = rhs.ToDouble(access)
			} else {
				var f32 float32
				f32, err = rhs.ToFloat(access)
				f = float64(f32)
			}
			if err != nil {
				return 0, err
			}
			if targetUnsigned {
				bits = uint64(f)
			} else {
				bits = uint64(int64(f))
			}
		} else {
			v, err := rhs.ToUnsigned(access)
			if err != nil {
				return 0, err
			}
			bits = v
		}
		if width < 8 {
			bits &= (uint64(1) << (width * 8)) - 1
		}
		return bits, nil
	}
}

func uint64FromSize(sz uint8) uint64 {
	return uint64(sz)
}

// Dereference applies unary `*` (spec.md §4.6). For a POINTER head, it
// reads the pointer's value as an address and returns a new lvalue
// descriptor of the stripped type at that address. For an ARRAY head it
// decays instead of reading: the array's own storage address becomes the
// element address without any memory access, per OQ-2 (an array that is
// itself an rvalue, e.g. the result of a prior dereference, still decays
// to the address of its first element rather than erroring).
func (s *SymbolDescriptor) Dereference(access DebugAccess) (*SymbolDescriptor, error) {
	head := s.Types.Head()
	switch head.Kind {
	case KindPointer:
		addr, err := s.ToUnsigned(access)
		if err != nil {
			return nil, err
		}
		return &SymbolDescriptor{
			Types:      s.Types.Stripped(),
			IsUnsigned: s.IsUnsigned,
			HasAddress: true,
			Address:    addr,
		}, nil

	case KindArray:
		addr, ok, err := s.elementAddress(access)
		if err != nil {
			return nil, err
		}
		if !ok {
			// An rvalue array carries its decayed address in Immediate.
			addr = s.Immediate
		}
		stripped := s.Types.Stripped()
		if stripped.Head().Kind == KindArray {
			// Array-of-array: the decayed result is itself still an array,
			// which per OQ-2 decays to an rvalue address rather than an
			// lvalue — only the innermost dereference actually reads
			// through to an addressable element.
			return &SymbolDescriptor{
				Types:     stripped,
				Immediate: addr,
			}, nil
		}
		return &SymbolDescriptor{
			Types:      stripped,
			IsUnsigned: s.IsUnsigned,
			HasAddress: true,
			Address:    addr,
		}, nil

	default:
		return nil, newErr(ErrType, s.Name, "cannot dereference a %s", head.Kind)
	}
}

// elementAddress computes the storage address an ARRAY-typed descriptor
// decays to. An array descriptor is only ever backed by an absolute
// address or a stack offset (spec.md's storage model has no array-in-
// register case); ok is false otherwise.
func (s *SymbolDescriptor) elementAddress(access DebugAccess) (uint64, bool, error) {
	switch {
	case s.HasAddress:
		return s.Address, true, nil
	case s.HasStack:
		sp, err := access.StackPointer()
		if err != nil {
			return 0, false, wrapHostErr(err, s.Name)
		}
		return uint64(int64(sp) + s.StackOffset), true, nil
	default:
		return 0, false, nil
	}
}

// AddressOf applies unary `&` (spec.md §4.6). s must be an lvalue backed
// by a stack offset or absolute address; registers have no address
// (InvalidAddress is returned for those, matching a register-only value
// having no place in the debuggee's address space).
func (s *SymbolDescriptor) AddressOf(access DebugAccess) (*SymbolDescriptor, error) {
	if !s.IsLvalue() {
		return nil, newErr(ErrNotAnLvalue, s.Name, "cannot take the address of an rvalue")
	}
	addr, ok, err := s.elementAddress(access)
	if err != nil {
		return nil, err
	}
	if !ok {
		addr = access.InvalidAddress()
	}
	return &SymbolDescriptor{
		Types:     s.Types.WithPointer(),
		Immediate: addr,
	}, nil
}

// Member applies `.`/`->` (spec.md §4.6). owner must resolve (after an
// implicit dereference for `->`) to a STRUCT/UNION head type; the field's
// type and offset come from DebugAccess.MemberInfo.
func (s *SymbolDescriptor) Member(access DebugAccess, name string, arrow bool) (*SymbolDescriptor, error) {
	base := s
	if arrow {
		deref, err := s.Dereference(access)
		if err != nil {
			return nil, err
		}
		base = deref
	}

	head := base.Types.Head()
	if head.Kind != KindStruct && head.Kind != KindUnion {
		return nil, newErr(ErrType, name, "member access on non-struct/union type %s", head.Kind)
	}

	fieldType, fieldUnsigned, offset, err := access.MemberInfo(head, name)
	if err != nil {
		return nil, wrapMemberErr(err, name)
	}

	baseAddr, ok, err := base.elementAddress(access)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, newErr(ErrNotAnLvalue, name, "cannot access a member of a value with no storage address")
	}

	return &SymbolDescriptor{
		Types:      TypeStack{fieldType},
		IsUnsigned: fieldUnsigned,
		Name:       name,
		Scope:      Scope{Kind: ScopeStruct, Name: name},
		HasAddress: true,
		Address:    baseAddr + offset,
	}, nil
}

func wrapMemberErr(err error, name string) error {
	if err == nil {
		return nil
	}
	return newErr(ErrMemberNotFound, name, "%v", err)
}

// Index applies `a[b]` (spec.md §4.6), defined as `*(a + b)`: b is scaled
// by the pointee/element size and added to a's address, matching Add's
// pointer-arithmetic path, then the result is dereferenced.
func (s *SymbolDescriptor) Index(access DebugAccess, idx *SymbolDescriptor) (*SymbolDescriptor, error) {
	sum, err := s.Add(access, idx)
	if err != nil {
		return nil, err
	}
	return sum.Dereference(access)
}
