// Package motionlink coordinates a motion-executing robot cell with a
// remote register server over a tiny fixed-frame TCP protocol.
//
// The remote side exposes integer registers addressed by a one-byte
// selector; every exchange is a single 8-byte request frame and a single
// 8-byte response frame on a fresh connection. On top of that sit three
// pieces:
//
//   - Client: one-shot command sessions, the two-step write handshake and
//     the read-then-release query.
//   - Dispatcher: the poll-and-dispatch loop. It waits on a ready-flag
//     register, fetches the pending job index, rotates a per-job slot
//     among three motion variants, runs the job through an Executor and
//     re-arms the gate register.
//   - Server and VarTable: the register server, for the job-source side
//     and for end-to-end tests.
//
// The arm subpackage provides a feetech-servo backed Executor that plays
// pre-programmed pose routines; cmd/motiond and cmd/varserverd are the
// corresponding daemons.
package motionlink
