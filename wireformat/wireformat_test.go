package wireformat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeParamsRoundTrip(t *testing.T) {
	t.Parallel()

	params := []Param{
		{Type: ValueTypeI32, Value: func() [16]byte { var v [16]byte; v[0] = 42; return v }()},
		{Type: ValueTypeI64, Value: func() [16]byte { var v [16]byte; v[0] = 7; v[7] = 1; return v }()},
	}

	encoded := EncodeParams(params)
	require.Len(t, encoded, len(params)*ParamRecordSize)

	decoded, err := DecodeParams(encoded)
	require.NoError(t, err)
	assert.Equal(t, params, decoded)
}

func TestDecodeParamsRejectsBadLength(t *testing.T) {
	t.Parallel()

	_, err := DecodeParams(make([]byte, ParamRecordSize+1))
	require.Error(t, err)
	var decodeErr *ErrDecodeParams
	require.ErrorAs(t, err, &decodeErr)
}

func TestDecodeParamsRejectsUnknownTag(t *testing.T) {
	t.Parallel()

	raw := make([]byte, ParamRecordSize)
	raw[0] = 0xFF
	_, err := DecodeParams(raw)
	require.Error(t, err)
}

func TestParamAccessors(t *testing.T) {
	t.Parallel()

	i32 := Param{Type: ValueTypeI32, Value: [16]byte{0xD2, 0x04, 0x00, 0x00}}
	assert.Equal(t, int32(1234), i32.I32())

	i64 := Param{Type: ValueTypeI64, Value: [16]byte{0x01}}
	assert.Equal(t, int64(1), i64.I64())
}

func TestPackUnpackPtrLen(t *testing.T) {
	t.Parallel()

	ptr, length := UnpackPtrLen(PackPtrLen(0x1000, 42))
	assert.Equal(t, uint32(0x1000), ptr)
	assert.Equal(t, uint32(42), length)
}

func TestErrorDetailError(t *testing.T) {
	t.Parallel()

	e := &ErrorDetail{Kind: "semver", Message: "bad version"}
	assert.Equal(t, "semver: bad version", e.Error())

	var nilErr *ErrorDetail
	assert.Empty(t, nilErr.Error())
}
