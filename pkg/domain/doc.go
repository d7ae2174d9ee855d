/*
Package domain contains the core domain models of the water jug solver.

It defines the vertices of the search graph, the fixed production rule catalog
used to explain transitions, and the serialisable playback snapshot. This
package is kept pure and free of external dependencies like I/O or
persistence, following Hexagonal Architecture principles.

# Key Entities

  - JugState: An immutable (jug1, jug2) pair. Comparable, so it can key maps.
  - Capacities: The fixed sizes of both jugs for one search.
  - Problem: Capacities plus the target amount.
  - Solution: The shortest path of states found by the search engine.
  - Rule: One of the 12 production rules (R1..R12) shown to the user.
  - Playback: The persisted cursor over a Solution (session state).
*/
package domain
