package hostcall

import (
	"unicode/utf8"

	"github.com/lunatic-rt/lunatic-go/internal/trap"
	"github.com/tetratelabs/wazero/api"
)

// readBytes reads len bytes at ptr from mod's linear memory, panicking with
// a trap.Trap on any out-of-bounds access (invariant 4, §3: a guest cannot
// read or write memory outside its declared instance memory).
func readBytes(mod api.Module, source string, ptr, length uint32) []byte {
	buf, ok := mod.Memory().Read(ptr, length)
	if !ok {
		panic(trap.New(trap.KindMemoryOOB, source))
	}
	out := make([]byte, len(buf))
	copy(out, buf)
	return out
}

// readString reads len bytes at ptr and validates them as UTF-8, panicking
// with a trap.Trap on either an out-of-bounds read or invalid UTF-8 (§4.I).
func readString(mod api.Module, source string, ptr, length uint32) string {
	buf := readBytes(mod, source, ptr, length)
	if !utf8.Valid(buf) {
		panic(trap.New(trap.KindInvalidUTF8, source))
	}
	return string(buf)
}

// writeBytes writes data at ptr into mod's linear memory, panicking with a
// trap.Trap if the write would fall outside the instance's memory.
func writeBytes(mod api.Module, source string, ptr uint32, data []byte) {
	if !mod.Memory().Write(ptr, data) {
		panic(trap.New(trap.KindMemoryOOB, source))
	}
}

// writeUint64 writes v as little-endian at ptr.
func writeUint64(mod api.Module, source string, ptr uint32, v uint64) {
	if !mod.Memory().WriteUint64Le(ptr, v) {
		panic(trap.New(trap.KindMemoryOOB, source))
	}
}

// writeUUID writes id's 16 raw bytes at ptr, matching the u128_ptr
// convention used by the `id` host call.
func writeUUID(mod api.Module, source string, ptr uint32, id [16]byte) {
	writeBytes(mod, source, ptr, id[:])
}
