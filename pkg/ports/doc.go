/*
Package ports defines the interfaces between the waterjug core and its adapters.

# Key Interfaces

  - Solver: the engine as seen by the HTTP and MCP adapters.
  - SessionStore: persists playback snapshots (memory, file, redis, sqlite).
  - DistributedLocker: serialises access to a session across instances.
  - PuzzleCatalog: named puzzles (the Loam-backed catalog).

RunSessionStoreContract is a shared test suite every SessionStore adapter runs.
*/
package ports
