// Package procmesh is a process-calculus runtime: a framework for
// composing fixed-topology networks of concurrent reactive workers
// ("processes") that communicate exclusively via typed channels.
//
// # Architecture
//
// A [Builder] describes a network of processes and channels. [Validate]
// checks it for topology and connectivity invariants and produces a
// [Def], or rejects it with a [DefError]. [NewSession] turns a [Def] into
// a live [Session]: one goroutine per process, each driven by a run loop
// selected by the process's [Kind] ([Isochronous], [Mesochronous],
// [Anisochronous], or [Asynchronous]). [Session.Run] spawns the
// goroutines, waits for all of them to finish, and returns a map of
// per-process results.
//
// Processes exchange messages over channel topologies ([Simplex],
// [Sink], [Source]), obtained as [Sourcepoint] (producer) and [Endpoint]
// (consumer) handles. Sends never block; receives report Delivered,
// Empty, or Disconnected.
//
// Sessions chain into a [Program]: a state machine whose nodes are modes
// (sessions) and whose transitions carry per-process state forward via
// continuations, built with [ValidateProgram] and driven with
// [Program.Run] or one [Program.Step] at a time.
//
// # Logging
//
// The runtime logs through a [Logger] (a
// github.com/joeycumines/logiface logger over the
// github.com/joeycumines/stumpy event backend by default). Configure it
// with [WithLogger]; the zero value falls back to a disabled logger, so
// logging is opt-in.
//
// # Thread Safety
//
// Each process owns its mutable fields exclusively; its goroutine is the
// sole mutator. Channels are the only legal cross-goroutine data path.
// [Session] and [Program] never touch a running process's state directly.
package procmesh
