// Package vhelix is the owning-helix aggregate of the cadnano2 core.
//
// A Design owns every base of every helix in one pool, so crossovers may join
// helices of different parts. Parts group virtual helices; a VirtualHelix owns a
// scaffold row and a staple row of bases and is the only code that can mutate
// their links. Everything outside the package reads bases through the Base view.
//
// # Mutation
//
// Every VirtualHelix mutation returns an *Edit: the undo tokens of the engine
// calls it made, in order. Undo replays them last to first, atomically, and
// fails with ErrTokenConflict (changing nothing) if any node they touched has
// since been re-linked. Edits are undone in reverse order of creation; the
// session package keeps that stack.
//
// # Direction
//
// Helices follow cadnano's parity rule: on an even helix the scaffold runs 5' to
// 3' with ascending index and the staple runs the other way; odd helices are the
// reverse. ConnectStrand uses this to link a range in 5' to 3' order.
//
// # Concurrency
//
// A Design is not safe for concurrent use. It is driven by one command layer.
package vhelix
