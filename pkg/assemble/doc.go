// Package assemble builds the render-ready description of a canvas node.
//
// [Assembler.Assemble] is the single construction entry point: it decodes
// the node's configuration, derives display lines and a header title,
// computes the node height and lays out its ports. The result is an
// immutable [Spec] recomputed from scratch on every call; nothing is cached.
//
//	a := assemble.New()
//	spec, err := a.Assemble(ctx, assemble.Request{
//	    ID: "n1", X: 120, Y: 80,
//	    Data: assemble.RequestData{NodeType: "sms", Config: node.Config{"smsTemplate": "欢迎"}},
//	})
package assemble
