package process

// buildNoopModule hand-encodes a minimal Wasm binary exporting a one-page
// "memory" and a zero-arg, zero-result "_start" function whose body is
// empty, the same encode-by-hand approach alfred-ai's wasm plugin tests use
// (no .wat toolchain, per SPEC_FULL.md's test-tooling section).
func buildNoopModule() []byte {
	return []byte{
		0x00, 0x61, 0x73, 0x6d, // magic: \0asm
		0x01, 0x00, 0x00, 0x00, // version 1

		// Type section: 1 type, () -> ()
		0x01, 0x04,
		0x01,             // 1 type
		0x60, 0x00, 0x00, // func, 0 params, 0 results

		// Function section: 1 function of type 0
		0x03, 0x02,
		0x01, 0x00,

		// Memory section: 1 memory, min=1 page, no max
		0x05, 0x03,
		0x01, 0x00, 0x01,

		// Export section: "memory" -> memory 0, "_start" -> func 0
		0x07, 0x13,
		0x02,
		0x06, 'm', 'e', 'm', 'o', 'r', 'y', 0x02, 0x00,
		0x06, '_', 's', 't', 'a', 'r', 't', 0x00, 0x00,

		// Code section: 1 body, empty (no locals, just `end`)
		0x0a, 0x04,
		0x01, 0x02, 0x00, 0x0b,
	}
}
