package cdbgexpr

import "sort"

// testAccess is a minimal in-package DebugAccess used by symbol_test.go
// and arithmetic_test.go; internal/fixture's richer YAML-driven Access is
// exercised separately (fixture_test.go, external package, to avoid an
// import cycle since fixture imports cdbgexpr).
type testAccess struct {
	mem       map[uint64]uint8
	regs      map[uint8]uint8
	sp        uint64
	sizes     map[CTypeKind]uint8
	ptrSize   uint8
	structs   map[string]map[string]struct {
		typ      CType
		unsigned bool
		offset   uint64
	}
}

func newTestAccess() *testAccess {
	return &testAccess{
		mem:     make(map[uint64]uint8),
		regs:    make(map[uint8]uint8),
		ptrSize: 8,
		sizes: map[CTypeKind]uint8{
			KindBool: 1, KindChar: 1, KindShort: 2, KindInt: 4,
			KindLong: 8, KindLongLong: 8, KindFloat: 4, KindDouble: 8,
		},
	}
}

func (a *testAccess) LookupSymbol(name string) (*SymbolDescriptor, error) {
	return nil, newErr(ErrUndefinedSymbol, name, "not declared in test harness")
}

func (a *testAccess) ReadByte(addr uint64) (uint8, error) { return a.mem[addr], nil }

func (a *testAccess) WriteByte(addr uint64, v uint8) error {
	a.mem[addr] = v
	return nil
}

func (a *testAccess) ReadRegister(id uint8) (uint8, error) { return a.regs[id], nil }

func (a *testAccess) WriteRegister(id uint8, v uint8) error {
	a.regs[id] = v
	return nil
}

func (a *testAccess) StackPointer() (uint64, error) { return a.sp, nil }

func (a *testAccess) InvalidAddress() uint64 { return ^uint64(0) }

func (a *testAccess) TypeSize(t CType) uint8 {
	if t.Kind == KindPointer {
		return a.ptrSize
	}
	if sz, ok := a.sizes[t.Kind]; ok {
		return sz
	}
	return 0
}

func (a *testAccess) MemberNames(owner CType) ([]string, error) {
	fields, ok := a.structs[owner.Name]
	if !ok {
		return nil, newErr(ErrMemberNotFound, owner.Name, "struct %q not registered", owner.Name)
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (a *testAccess) MemberInfo(owner CType, member string) (CType, bool, uint64, error) {
	fields, ok := a.structs[owner.Name]
	if !ok {
		return CType{}, false, 0, newErr(ErrMemberNotFound, member, "struct %q not registered", owner.Name)
	}
	f, ok := fields[member]
	if !ok {
		return CType{}, false, 0, newErr(ErrMemberNotFound, member, "no such member")
	}
	return f.typ, f.unsigned, f.offset, nil
}

func (a *testAccess) setBytesLE(addr uint64, width int, bits uint64) {
	for i := 0; i < width; i++ {
		a.mem[addr+uint64(i)] = uint8(bits >> (8 * uint(i)))
	}
}
