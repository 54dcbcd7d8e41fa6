// Package sdk provides a Go client for the aossindex registry API.
//
// The client synthesizes CloudFormation templates for vector indexes in
// OpenSearch Serverless collections and manages named stacks in the
// registry:
//
//	client, _ := sdk.New("http://localhost:8080", sdk.WithAPIKey("secret"))
//	res, _ := client.Synth(ctx, sdk.SynthRequest{
//	    Collection: sdk.Collection{Name: "articles", Endpoint: "https://xyz.us-east-1.aoss.amazonaws.com"},
//	    Indexes: []sdk.Index{{
//	        Name:        "articles-v1",
//	        VectorField: "embedding",
//	        Dimensions:  1024,
//	    }},
//	})
//	fmt.Println(string(res.Template))
//
// Stack operations use optimistic concurrency: Replace requires the
// revision returned by a previous Get or Create, and fails with
// ErrRevisionConflict when the stack changed underneath.
package sdk
