// Package aossindex synthesizes CloudFormation templates that provision
// vector search indexes inside AWS OpenSearch Serverless collections.
//
// A Stack accumulates constructs; NewVectorIndex registers the custom
// resource, the data access policy, and the dependency edges for one index.
// The actual index management happens in an external Lambda handler invoked
// through CloudFormation's custom-resource lifecycle; this package only
// emits the resource graph.
//
//	stack, _ := aossindex.NewStack("search", aossindex.WithDescription("vector search"))
//	col, _ := aossindex.ExternalCollection("articles", "https://abc123.us-east-1.aoss.amazonaws.com")
//	_, err := aossindex.NewVectorIndex(stack, "ArticlesIndex", aossindex.Props{
//		Collection:  col,
//		IndexName:   "articles-v1",
//		VectorField: "embedding",
//		Dimensions:  1536,
//	})
//	tpl, err := stack.Synth()
package aossindex
