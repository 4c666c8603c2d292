/*
Package domain contains the core domain models of the knock-knock dialogue.

It defines the content table the dialogue is scripted from, the fixed set of
dialogue states, and the sentinel errors shared by the engine and its hosts.
This package is kept pure and free of I/O.

# Key Entities

  - Entry: One setup/punchline pair.
  - Table: The immutable, ordered content a session is scripted from.
  - DialogueState: The current position of a session in the dialogue.
  - Snapshot: A read-only view of an engine, for logs, hooks and tests.
*/
package domain
