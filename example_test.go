package arbor_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/dsl"
	"github.com/aretw0/arbor/pkg/node"
	"github.com/aretw0/arbor/pkg/ports"
)

func printer(ctx context.Context, d ports.Dispatcher, m domain.Message) error {
	fmt.Printf("%s got %s at %v\n", d.Component().ID(), m.Type, d.State().Path())
	return nil
}

// ExampleNew shows a multicast relayed through the tree, a routed message and a named call.
func ExampleNew() {
	root := dsl.New("app").
		Leaf("header", node.OnMessage(printer)).
		Branch("body", func(b *dsl.Builder) {
			b.Leaf("list", node.OnMessage(printer))
		}).
		MustBuild()

	eng, err := arbor.New(root)
	if err != nil {
		log.Fatal(err)
	}
	state, err := eng.NewRootState()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	if err := eng.Dispatch(ctx, state, domain.NewMulticast("refresh", nil)); err != nil {
		log.Fatal(err)
	}
	if err := eng.Dispatch(ctx, state, domain.NewMessage("select", 3), 1, 0); err != nil {
		log.Fatal(err)
	}
	if err := eng.Call(ctx, state, domain.NewMessage("focus", nil), "body", "list"); err != nil {
		log.Fatal(err)
	}
	// Output:
	// header got refresh at [0]
	// list got refresh at [1 0]
	// list got select at [1 0]
	// list got focus at [1 0]
}
