/*
Package domain contains the core data model of the arbor dispatch engine.

It defines the directives that travel through the component tree and the per-context
data nodes the engine materializes alongside it. This package is kept pure and free of
I/O, following the same hexagonal split as the rest of the module.

# Key Entities

  - Message: A top-down directive with a type tag and a multicast flag.
  - Event: A bottom-up notification with a type tag.
  - State: A per-context node paired with a Component at a tree position.
  - Frame: An identity token marking one atomic batch of message processing.
  - LifecycleHooks: Callbacks for observing deliveries, materializations and events.
*/
package domain
