// Package harness runs connectivity scenarios against a session.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: crossover_roundtrip
//	description: "Install a crossover and undo it"
//	session: s-crossover            # optional fixed session id
//	parts:
//	  - id: p0
//	    helices:
//	      - {number: 0, length: 4}
//	      - {number: 1, length: 4}
//	steps:
//	  - {op: connect_strand, part: p0, helix: 0, index: 0, end: 3}
//	  - op: crossover
//	    part: p0
//	    helix: 0
//	    index: 3
//	    to: {helix: 1, strand: scaffold, index: 3}
//	  - {op: set_3p, part: p0, helix: 0, index: 1, to: {helix: 0, index: 1}, expect_error: EDIT_FAILED}
//	assertions:
//	  - {type: state, at: {helix: 0, index: 0}, expect: five_prime_end}
//	  - {type: crossover, at: {helix: 0, index: 3}, crossover: true}
//	  - {type: render, at: {helix: 1, index: 3}, expect: "_0"}
//	  - {type: neighbor, at: {helix: 0, index: 3}, end: 3p, neighbor: {helix: 1, index: 3}}
//	  - {type: strand, at: {helix: 0, index: 2}, length: 5, circular: false}
//	  - {type: invariants}
//
// Steps are session commands plus an optional expect_error code. A step
// without expect_error must succeed. Locators with no part use the first part
// of the scenario.
//
// # Assertion Types
//
//   - state: the base's link state (empty, five_prime_end, three_prime_end, interior)
//   - crossover: whether the base is a crossover
//   - render: the base's two-symbol rendering
//   - neighbor: the base's 5p or 3p neighbor, or none
//   - strand: length and circularity of the oligo through the base
//   - invariants: the whole design passes Verify
//
// # Determinism
//
// Every run uses a fresh session with a fixed id, a DeterministicClock and an
// in-memory journal. After the steps the journal is replayed into a second
// session and its diagram must match, so every scenario also checks replay.
package harness
