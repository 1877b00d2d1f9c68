/*
Package status tracks what happened to every file in a sort run.

	            +-------------+
	            |   Status    |
	            | (Outcomes)  |
	            +------+------+
	                   |
	      +-----------+-----------+
	      |                       |
	+-----+-----+           +----+----+
	|  Manager  |           | Format  |
	| (Summary) |           | (UI/UX) |
	+-----------+           +---------+

🎯 Purpose:
- Defines the terminal Outcome of one copy attempt
- Defines the error kinds of a run (CopyError, TraversalWarning, PreconditionError)
- Aggregates outcomes from concurrent copies into a Summary
- Formats outcomes for the console

🔄 Flow:
1. The dispatcher records each discovered file
2. Each copy attempt produces exactly one Outcome
3. Skipped subtrees are recorded as TraversalWarning values
4. The runner reads the Summary once every attempt has finished

📝 Design Philosophy:
Per-file and per-subtree failures are values, not control flow. Nothing in
this package aborts a run; only a PreconditionError returned by the runner does.
*/
package status
