/*
Package node provides ready-made Components for building static trees.

Two variants cover the capability set: Leaf is a plain Component, Branch adds both the
Container and Parent aspects. Behavior is supplied as functions, so hosts and tests can
assemble trees without declaring new types.

	root := node.NewBranch("root")
	form := node.NewBranch("form", node.OnMessage(node.Relay))
	node.Bind(root, form)
	node.Bind(form, node.NewLeaf("name"), node.NewLeaf("email"))
*/
package node
