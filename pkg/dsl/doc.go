/*
Package dsl provides a fluent builder for component trees.

It lets developers declare a tree of node.Branch and node.Leaf components in Go, with
children bound in declaration order and parent back-pointers set, instead of calling
node.Bind by hand. Build validates the result.

Example usage:

	root, err := dsl.New("app").
		Leaf("header").
		Branch("body", func(b *dsl.Builder) {
			b.Leaf("list", node.OnMessage(onList)).
				Leaf("footer")
		}, node.WithStateDepth(2)).
		Build()
	if err != nil {
		log.Fatal(err)
	}

	eng, err := arbor.New(root)
*/
package dsl
