// Package axionvm is the Axion VM's stable public surface: an opaque
// VM handle plus methods, mirroring the "opaque handle + functions"
// foreign-interface shape a C ABI would expose, realized idiomatically
// as a Go type. Internals (tier machine, dispatch loop, bigint/tensor
// arithmetic) live under internal/ and are never imported by hosts
// directly — only this package's exported surface is meant to be
// depended on from outside the module, the same split the
// vybium-starks-vm example repo uses between its internal engine and
// its pkg/vybium-starks-vm wrapper.
package axionvm
