package cdbgexpr

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestParseTypeStringLongFolding(t *testing.T) {
	stack, unsigned, err := ParseTypeString("unsigned long long")
	require.NoError(t, err)
	require.True(t, unsigned)
	require.Len(t, stack, 1)
	require.Equal(t, KindLongLong, stack[0].Kind)

	stack, unsigned, err = ParseTypeString("long long")
	require.NoError(t, err)
	require.False(t, unsigned)
	require.Len(t, stack, 1)
	require.Equal(t, KindLongLong, stack[0].Kind)

	stack, unsigned, err = ParseTypeString("unsigned int")
	require.NoError(t, err)
	require.True(t, unsigned)
	require.Equal(t, KindInt, stack[0].Kind)
}

func TestParseTypeStringTripleLongErrors(t *testing.T) {
	_, _, err := ParseTypeString("long long long")
	require.Error(t, err)
	require.ErrorIs(t, err, ErrType)
}

func TestParseTypeStringPointer(t *testing.T) {
	stack, _, err := ParseTypeString("* int")
	require.NoError(t, err)
	want := TypeStack{{Kind: KindPointer}, {Kind: KindInt}}
	if diff := cmp.Diff(want, stack); diff != "" {
		t.Errorf("TypeStack mismatch (-want +got):\n%s", diff)
	}
}

func TestParseTypeStringStructTag(t *testing.T) {
	stack, _, err := ParseTypeString("Point")
	require.NoError(t, err)
	require.Len(t, stack, 1)
	require.Equal(t, KindStruct, stack[0].Kind)
	require.Equal(t, "Point", stack[0].Name)
}

func TestValidateTypeStackRejectsTrailingPointer(t *testing.T) {
	err := validateTypeStack(TypeStack{{Kind: KindPointer}})
	require.Error(t, err)
}

func TestValidateTypeStackRejectsStructNotLast(t *testing.T) {
	err := validateTypeStack(TypeStack{{Kind: KindStruct, Name: "P"}, {Kind: KindInt}})
	require.Error(t, err)
}

type fakeAccess struct{ sizes map[CTypeKind]uint8 }

func (f fakeAccess) LookupSymbol(string) (*SymbolDescriptor, error) { return nil, ErrUndefinedSymbol }
func (f fakeAccess) ReadByte(uint64) (uint8, error)                 { return 0, nil }
func (f fakeAccess) WriteByte(uint64, uint8) error                  { return nil }
func (f fakeAccess) ReadRegister(uint8) (uint8, error)              { return 0, nil }
func (f fakeAccess) WriteRegister(uint8, uint8) error               { return nil }
func (f fakeAccess) StackPointer() (uint64, error)                  { return 0, nil }
func (f fakeAccess) InvalidAddress() uint64                         { return ^uint64(0) }
func (f fakeAccess) MemberInfo(CType, string) (CType, bool, uint64, error) {
	return CType{}, false, 0, ErrMemberNotFound
}
func (f fakeAccess) MemberNames(CType) ([]string, error) {
	return nil, ErrMemberNotFound
}
func (f fakeAccess) TypeSize(t CType) uint8 {
	if sz, ok := f.sizes[t.Kind]; ok {
		return sz
	}
	return 4
}

func TestPromoteTypeFloatBeatsInt(t *testing.T) {
	access := fakeAccess{sizes: map[CTypeKind]uint8{KindInt: 4, KindDouble: 8}}
	result := promoteType(CType{Kind: KindInt}, CType{Kind: KindDouble}, access)
	require.Equal(t, KindDouble, result.Kind)
}

func TestPromoteTypeLargerWidthWins(t *testing.T) {
	access := fakeAccess{sizes: map[CTypeKind]uint8{KindInt: 4, KindLongLong: 8}}
	result := promoteType(CType{Kind: KindInt}, CType{Kind: KindLongLong}, access)
	require.Equal(t, KindLongLong, result.Kind)
}

func TestItemSizeArray(t *testing.T) {
	access := fakeAccess{sizes: map[CTypeKind]uint8{KindInt: 4}}
	stack := TypeStack{{Kind: KindArray, Size: 10}, {Kind: KindInt}}
	require.Equal(t, uint64(40), itemSize(stack, access, 0))
}
