package aossindex

import "github.com/stackmesh/aossindex/internal/domain/index"

// IndexOption configures optional knobs of a vector index.
type IndexOption func(*indexConfig)

type indexConfig struct {
	opts []index.Option
}

// WithEngine sets the k-NN engine (default faiss).
func WithEngine(e Engine) IndexOption {
	return func(c *indexConfig) {
		c.opts = append(c.opts, index.WithEngine(index.Engine(e)))
	}
}

// WithSpaceType sets the distance metric (default l2).
func WithSpaceType(s SpaceType) IndexOption {
	return func(c *indexConfig) {
		c.opts = append(c.opts, index.WithSpaceType(index.SpaceType(s)))
	}
}

// WithMethod sets the ANN method (default hnsw).
func WithMethod(m Method) IndexOption {
	return func(c *indexConfig) {
		c.opts = append(c.opts, index.WithMethod(index.Method(m)))
	}
}

// WithMethodParams sets m and ef_construction. Zero values keep defaults.
func WithMethodParams(m, efConstruction int) IndexOption {
	return func(c *indexConfig) {
		c.opts = append(c.opts, index.WithMethodParams(m, efConstruction))
	}
}

// WithEFSearch sets the ef_search query-time parameter (default 512).
func WithEFSearch(ef int) IndexOption {
	return func(c *indexConfig) {
		c.opts = append(c.opts, index.WithEFSearch(ef))
	}
}

// WithShards sets the primary shard count (default 2).
func WithShards(n int) IndexOption {
	return func(c *indexConfig) {
		c.opts = append(c.opts, index.WithShards(n))
	}
}

// WithReplicas sets the replica count (default 0).
func WithReplicas(n int) IndexOption {
	return func(c *indexConfig) {
		c.opts = append(c.opts, index.WithReplicas(n))
	}
}

// WithSettings passes custom index settings through to the handler verbatim.
func WithSettings(settings map[string]any) IndexOption {
	return func(c *indexConfig) {
		c.opts = append(c.opts, index.WithSettings(settings))
	}
}

// StackOption configures a Stack at creation.
type StackOption func(*stackConfig)

type stackConfig struct {
	description  string
	serviceToken string
	principal    string
	codeS3Bucket string
	codeS3Key    string
}

// WithDescription sets the template description.
func WithDescription(desc string) StackOption {
	return func(c *stackConfig) { c.description = desc }
}

// WithProviderCode points the in-stack provider Lambda at a handler bundle
// in S3. Without it, templates carry a placeholder handler and are not
// deployable as-is.
func WithProviderCode(s3Bucket, s3Key string) StackOption {
	return func(c *stackConfig) {
		c.codeS3Bucket = s3Bucket
		c.codeS3Key = s3Key
	}
}

// WithServiceToken reuses an existing custom-resource provider instead of
// declaring one in the stack. The principal ARN is granted index access in
// the synthesized policies.
func WithServiceToken(tokenARN, principalARN string) StackOption {
	return func(c *stackConfig) {
		c.serviceToken = tokenARN
		c.principal = principalARN
	}
}
