/*
Package operation implements the concurrent sort: walking a source tree,
copying every regular file into a per-extension folder and collecting outcomes.

	+-------------+      +-------------+      +-------------+
	|   Walker    | ---> | Dispatcher  | ---> |   Copier    |
	| (discovery) |      | (bounded    |      | (one file)  |
	+-------------+      |  pool)      |      +------+------+
	                     +------+------+             |
	                            |             classify → mkdir →
	                     status.Manager       resolve → write
	                      (outcomes)

🎯 Purpose:
- Checks the source exists and creates the destination before anything runs
- Locks the destination so two runs never sort into it at once
- Copies files concurrently, never more than MaxConcurrentCopies at a time
- Turns every per-file failure into an outcome instead of stopping the run

🔄 Flow:
1. prepare validates both roots (PreconditionError on failure)
2. The walker lazily yields files; unreadable subdirectories become warnings
3. The dispatcher hands each file to the copier as soon as a slot frees up
4. The copier claims a free name and writes through a temp file
5. The run finishes once every discovered file has an outcome

⚡ Collisions:
Names are suffixed before the extension: a.txt, a_1.txt, a_2.txt. With
SerializeCollisions set, the probe and the create happen under one latch per
(category dir, base name), so same-named files copied at once never share a
destination.

🔍 Example:

	op, err := operation.New(operation.Options{
		Source:      "/data/inbox",
		Destination: "/data/sorted",
		Atomic:      true,
		Sink:        logger,
	})
	summary, err := op.Sort(ctx)
*/
package operation
