/*
Package config manages configuration parsing and validation for extsort.

	            +-------------+
	            |   Config    |
	            | (Settings)  |
	            +------+------+
	                   |
	      +-----------+------+------+-----------+
	      |                  |             |           |
	+-----+-----+      +----+----+   +----+---+  +----+---+
	|   YAML    |      |   HCL   |   |  JSON  |  |  TOML  |
	| Parser    |      | Parser  |   | Parser |  | Parser |
	+-----------+      +---------+   +--------+  +--------+

🎯 Purpose:
- Loads an optional config file, picking the parser by extension
- Layers the file on top of Default()
- Validates roots, worker count and exclude patterns

🔄 Flow:
1. Default() provides the baseline
2. Load decodes a file on top of it
3. The CLI applies positional args and flags
4. Validate resolves paths and fills the worker default

Keys: source, destination, max_concurrent_copies, exclude,
serialize_collisions, atomic, log_file.
*/
package config
