// Package session implements both halves of the side-terminal protocol.
//
// A parent session spawns a viewer child, then waits on a private rendezvous
// for the child to report which device pair it claimed. From then on the
// parent writes display data to the pair's write end and the child relays
// every byte to its sink until it reads the shutdown byte.
//
// Failure never escalates across the process boundary. A child that cannot
// claim a pair reports "no channel" and exits; the parent answers every such
// condition, including handshake timeouts and mid-stream write errors, by
// routing output to its default device. Callers consequently never branch on
// channel health.
//
// There is no forced-kill path in the protocol itself: a parent that never
// closes its channel leaves the child blocked on its read loop. The demo CLI
// papers over that with launcher.Instance.Stop, but library users own the
// close.
package session
