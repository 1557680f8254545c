// Package typedesc renders type descriptors as the short mnemonics used by
// the host (I4, BSTR, PTR, ...). Decoding never fails: unknown tags become a
// diagnostic placeholder and unresolvable user-defined references fall back
// to their tag mnemonic.
package typedesc
