package synth

import (
	"fmt"

	"github.com/stackmesh/aossindex/internal/domain/resource"
)

// Logical IDs of the shared custom-resource provider.
const (
	ProviderRoleID     = "OpenSearchIndexProviderRole"
	ProviderFunctionID = "OpenSearchIndexProviderFunction"
)

// Provider code defaults (Python on-event handler, 10 minute timeout).
const (
	defaultRuntime    = "python3.12"
	defaultHandler    = "index.on_event"
	defaultTimeoutSec = 600
	defaultMemoryMB   = 512
)

// placeholderHandler is emitted as inline code when no bundle location is
// configured. The template synthesizes and validates, but deploying it
// requires pointing Code at a real handler bundle first.
const placeholderHandler = `def on_event(event, context):
    raise NotImplementedError("index handler bundle not configured")
`

// ProviderCode locates the Lambda handler bundle for the in-stack provider.
type ProviderCode struct {
	S3Bucket   string
	S3Key      string
	Runtime    string
	Handler    string
	TimeoutSec int
	MemoryMB   int
}

func (c *ProviderCode) applyDefaults() {
	if c.Runtime == "" {
		c.Runtime = defaultRuntime
	}
	if c.Handler == "" {
		c.Handler = defaultHandler
	}
	if c.TimeoutSec <= 0 {
		c.TimeoutSec = defaultTimeoutSec
	}
	if c.MemoryMB <= 0 {
		c.MemoryMB = defaultMemoryMB
	}
}

// providerRefs is what a vector index construct needs from the provider:
// a ServiceToken value and the principal for access policy grants.
type providerRefs struct {
	serviceToken any
	principal    string
	roleID       string
	functionID   string
}

func (p providerRefs) inStack() bool { return p.functionID != "" }

// ensureProvider returns the shared provider, creating the IAM role and
// Lambda function resources on first use. One provider per stack; every
// index construct in the stack reuses it. Caller must hold b.mu.
func (b *Builder) ensureProvider() (providerRefs, error) {
	if b.cfg.ServiceToken != "" {
		return providerRefs{
			serviceToken: b.cfg.ServiceToken,
			principal:    b.cfg.Principal,
		}, nil
	}

	if b.prov.functionID != "" {
		return b.prov, nil
	}

	refs := providerRefs{
		serviceToken: resource.GetAtt(ProviderFunctionID, "Arn"),
		roleID:       ProviderRoleID,
		functionID:   ProviderFunctionID,
	}

	role, err := resource.New(ProviderRoleID, TypeIAMRole, providerRoleProperties())
	if err != nil {
		return providerRefs{}, fmt.Errorf("build provider role: %w", err)
	}
	fn, err := resource.New(ProviderFunctionID, TypeLambdaFunction, providerFunctionProperties(b.cfg.Code))
	if err != nil {
		return providerRefs{}, fmt.Errorf("build provider function: %w", err)
	}

	if err := b.g.Add(role); err != nil {
		return providerRefs{}, err
	}
	if err := b.g.Add(fn); err != nil {
		return providerRefs{}, err
	}
	if err := b.g.AddEdge(ProviderFunctionID, ProviderRoleID); err != nil {
		return providerRefs{}, err
	}

	b.prov = refs
	return refs, nil
}

func providerRoleProperties() map[string]any {
	return map[string]any{
		"AssumeRolePolicyDocument": map[string]any{
			"Version": "2012-10-17",
			"Statement": []any{
				map[string]any{
					"Effect":    "Allow",
					"Principal": map[string]any{"Service": "lambda.amazonaws.com"},
					"Action":    "sts:AssumeRole",
				},
			},
		},
		"ManagedPolicyArns": []any{
			"arn:aws:iam::aws:policy/service-role/AWSLambdaBasicExecutionRole",
		},
		"Policies": []any{
			map[string]any{
				"PolicyName": "OpenSearchServerlessAccess",
				"PolicyDocument": map[string]any{
					"Version": "2012-10-17",
					"Statement": []any{
						map[string]any{
							"Effect":   "Allow",
							"Action":   []any{"aoss:APIAccessAll"},
							"Resource": "*",
						},
					},
				},
			},
		},
	}
}

func providerFunctionProperties(code ProviderCode) map[string]any {
	props := map[string]any{
		"Description": "Custom resource handler managing OpenSearch Serverless vector indexes",
		"Handler":     code.Handler,
		"Runtime":     code.Runtime,
		"Timeout":     code.TimeoutSec,
		"MemorySize":  code.MemoryMB,
		"Role":        resource.GetAtt(ProviderRoleID, "Arn"),
	}
	if code.S3Bucket != "" {
		props["Code"] = map[string]any{"S3Bucket": code.S3Bucket, "S3Key": code.S3Key}
	} else {
		props["Code"] = map[string]any{"ZipFile": placeholderHandler}
	}
	return props
}
