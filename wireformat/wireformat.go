// Package wireformat defines the host<->guest wire formats used by the
// lunatic-style process host-call surface: the packed parameter records
// `spawn`/`inherit_spawn` read out of guest memory, the packed ptr/len
// convention, and a structured error payload type.
// These types and codecs must remain stable since they define the ABI
// contract between the runtime and compiled Wasm guests.
package wireformat

import "fmt"

// ValueType tags a packed spawn parameter record. Values match the
// WebAssembly value-type encoding so guests can reuse the constants emitted
// by their own toolchain.
type ValueType byte

const (
	// ValueTypeI32 tags a 32-bit integer parameter.
	ValueTypeI32 ValueType = 0x7F
	// ValueTypeI64 tags a 64-bit integer parameter.
	ValueTypeI64 ValueType = 0x7E
	// ValueTypeV128 tags a 128-bit vector parameter.
	ValueTypeV128 ValueType = 0x7B
)

// ParamRecordSize is the size in bytes of one packed spawn parameter: a
// one-byte type tag followed by a little-endian u128, truncated for
// narrower types.
const ParamRecordSize = 17

// Param is a single decoded spawn/inherit_spawn argument.
type Param struct {
	Type ValueType
	// Value holds the argument as a little-endian u128; I32/I64 values are
	// stored in the low-order bytes.
	Value [16]byte
}

// I32 returns the parameter interpreted as a 32-bit integer.
func (p Param) I32() int32 {
	return int32(uint32(p.Value[0]) | uint32(p.Value[1])<<8 | uint32(p.Value[2])<<16 | uint32(p.Value[3])<<24) //nolint:gosec // G115: narrowing a value already validated by DecodeParams
}

// I64 returns the parameter interpreted as a 64-bit integer.
func (p Param) I64() int64 {
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(p.Value[i]) << (8 * i)
	}
	return int64(v) //nolint:gosec // G115: narrowing a value already validated by DecodeParams
}

// V128 returns the raw 16-byte vector value.
func (p Param) V128() [16]byte {
	return p.Value
}

// ErrDecodeParams indicates the packed parameter region could not be decoded.
type ErrDecodeParams struct {
	Reason string
}

func (e *ErrDecodeParams) Error() string {
	return fmt.Sprintf("wireformat: invalid spawn parameter encoding: %s", e.Reason)
}

// DecodeParams parses a packed array of ParamRecordSize-byte records: byte 0
// of each record is the type tag, bytes 1..17 are the little-endian u128
// value. Any other tag, or a length not a multiple of ParamRecordSize, is an
// error - the host-call surface turns this into a trap.
func DecodeParams(raw []byte) ([]Param, error) {
	if len(raw)%ParamRecordSize != 0 {
		return nil, &ErrDecodeParams{Reason: fmt.Sprintf("length %d is not a multiple of %d", len(raw), ParamRecordSize)}
	}

	count := len(raw) / ParamRecordSize
	params := make([]Param, count)
	for i := 0; i < count; i++ {
		record := raw[i*ParamRecordSize : (i+1)*ParamRecordSize]
		tag := ValueType(record[0])
		switch tag {
		case ValueTypeI32, ValueTypeI64, ValueTypeV128:
		default:
			return nil, &ErrDecodeParams{Reason: fmt.Sprintf("record %d has unsupported type tag 0x%02X", i, byte(tag))}
		}

		var value [16]byte
		copy(value[:], record[1:])
		params[i] = Param{Type: tag, Value: value}
	}
	return params, nil
}

// EncodeParams packs params into the wire format DecodeParams understands.
// Exposed for tests and for guest-side SDK parity.
func EncodeParams(params []Param) []byte {
	out := make([]byte, len(params)*ParamRecordSize)
	for i, p := range params {
		out[i*ParamRecordSize] = byte(p.Type)
		copy(out[i*ParamRecordSize+1:(i+1)*ParamRecordSize], p.Value[:])
	}
	return out
}

// PackPtrLen packs a guest-memory pointer and length into a single u64, the
// convention used to return (ptr, len) pairs from an out-pointer write
// without a second out-parameter.
func PackPtrLen(ptr, length uint32) uint64 {
	return (uint64(ptr) << 32) | uint64(length)
}

// UnpackPtrLen reverses PackPtrLen.
func UnpackPtrLen(packed uint64) (ptr, length uint32) {
	ptr = uint32(packed >> 32) //nolint:gosec // G115: packed format stores 32-bit values
	length = uint32(packed)    //nolint:gosec // G115: packed format stores 32-bit values
	return ptr, length
}

// ErrorDetail is a structured error payload: a kind plus a message. The
// runtime's host calls do not produce it; a recoverable host-call failure
// stores the Go error it registers in the calling process's error table.
type ErrorDetail struct {
	Message string `json:"message"`
	// Kind classifies the recoverable error: "semver", "compile",
	// "missing-entry", "registry", "plugin".
	Kind string `json:"kind"`
}

func (e *ErrorDetail) Error() string {
	if e == nil {
		return ""
	}
	if e.Kind != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return e.Message
}
