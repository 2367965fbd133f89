/*
Package arbor is a stateful message-dispatch engine for trees of components.

A program declares a static tree of Components once. Arbor then routes Messages down
that tree and Events up it, keeping a parallel tree of States: one per visited
component position, created on first visit and reused afterwards.

# Concept

Components decide where a message goes next. A container typically relays it one level
down: to the child named by the next segment of the route, or to every child when the
message is multicast. Fan-out never skips a level, so a grandchild hears a multicast only
if its parent relays it. Events travel the other way, from a component to its parents,
each of which sees its own State while handling it.

All messages processed as one batch share a Frame. A State can ask whether the current
delivery is the first one it sees in the batch.

# Key Features

  - Explicit dispatch stack: the current (State, Component) pair and the route are
    restored after every delivery, whether it succeeded, failed or panicked.
  - Lazy State trees with multi-level parents that interpose auxiliary States.
  - Name-addressed calls tracked by a context-scoped cursor (package callctx).
  - Lifecycle hooks for logging, metrics and tracing.

# Usage

	root := dsl.New("app").
		Leaf("header").
		Branch("body", func(b *dsl.Builder) {
			b.Leaf("list").Leaf("footer")
		}).
		MustBuild()

	eng, err := arbor.New(root)
	if err != nil {
		log.Fatal(err)
	}

	state, _ := eng.NewRootState()
	ctx := context.Background()

	// Every child of the root hears it; branches relay it on by default.
	_ = eng.Dispatch(ctx, state, domain.NewMulticast("refresh", nil))

	// Only app/body/list.
	_ = eng.Dispatch(ctx, state, domain.NewMessage("select", 3), 1, 0)
*/
package arbor
