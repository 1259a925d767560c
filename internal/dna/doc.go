// Package dna provides the foundational value types shared by the cadnano2 core.
//
// This package contains type definitions only. Every other internal package may
// import dna; dna imports nothing internal. The helix collaborator contract
// (HelixContext, PartHandle) lives here so the connectivity engine can depend on
// it without importing the helix aggregate that implements it.
//
// Key conventions:
//   - Strand types, link states and identifiers marshal as text so they read
//     naturally in YAML scenarios and JSON output
//   - A helix number is only unique within its part; a base's identity for
//     crossover purposes is the (part id, helix number) pair
package dna
