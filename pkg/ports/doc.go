/*
Package ports defines the contracts between the arbor dispatch engine and the code around it.

Components implement the capability interfaces; the engine implements Dispatcher and hands
it to components during delivery. Driven ports decouple the engine from frame allocation
and from cross-process session locking.

# Key Interfaces

  - Component: A static-tree node that creates State and accepts Messages.
  - Container: The optional aspect exposing ordered children and handling bubbled Events.
  - Parent: The optional aspect used for upward traversal and state-depth accounting.
  - Dispatcher: The routing protocol seen by components during a delivery.
  - FrameSource: Allocates Frame identities (in-process counter or a shared sequence).
  - DistributedLocker: Serializes dispatches to one session across replicas.
*/
package ports
