// Command lunatic hosts sandboxed WebAssembly processes.
package main

func main() {
	Execute()
}
