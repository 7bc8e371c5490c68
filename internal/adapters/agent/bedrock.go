package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/types"
	"github.com/aws/smithy-go"

	"github.com/taskrelay/taskrelay/internal/domain"
)

// noCompletionText is returned verbatim when the response envelope carries no
// completion stream. A soft-fail, not an error, so one malformed envelope
// never takes the conversation down.
const noCompletionText = "No completion in response"

type Options struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	AgentID         string
	AgentAliasID    string
}

// invokeAPI is the slice of the Bedrock Agent Runtime client we use.
type invokeAPI interface {
	InvokeAgent(
		ctx context.Context,
		params *bedrockagentruntime.InvokeAgentInput,
		optFns ...func(*bedrockagentruntime.Options),
	) (*bedrockagentruntime.InvokeAgentOutput, error)
}

// BedrockClient implements domain.AgentClient against Bedrock Agent Runtime.
type BedrockClient struct {
	runtime      invokeAPI
	agentID      string
	agentAliasID string
}

// NewBedrockClient builds the runtime client with static credentials. The
// client is read-only after construction and safe to reuse across
// sequential invocations.
func NewBedrockClient(ctx context.Context, opts Options) (*BedrockClient, error) {
	if opts.AccessKeyID == "" || opts.SecretAccessKey == "" {
		return nil, &domain.GatewayConnectError{Err: errors.New("access key material is required")}
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(opts.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, &domain.GatewayConnectError{Err: fmt.Errorf("loading aws config: %w", err)}
	}

	return &BedrockClient{
		runtime:      bedrockagentruntime.NewFromConfig(awsCfg),
		agentID:      opts.AgentID,
		agentAliasID: opts.AgentAliasID,
	}, nil
}

// Invoke issues one agent invocation and accumulates the completion stream
// into a single trimmed reply.
func (c *BedrockClient) Invoke(
	ctx context.Context,
	sessionID domain.SessionID,
	inputText string,
) (*domain.AgentReply, error) {
	out, err := c.runtime.InvokeAgent(ctx, &bedrockagentruntime.InvokeAgentInput{
		AgentId:      aws.String(c.agentID),
		AgentAliasId: aws.String(c.agentAliasID),
		SessionId:    aws.String(string(sessionID)),
		InputText:    aws.String(inputText),
	})
	if err != nil {
		return nil, classifyInvokeError(err)
	}

	stream := out.GetStream()
	if stream == nil {
		return &domain.AgentReply{Text: noCompletionText}, nil
	}
	defer stream.Close()

	text, decodeFailures := collectCompletion(stream.Events())

	// A failure of the stream itself fails the invocation; per-event decode
	// failures above never do.
	if err := stream.Err(); err != nil {
		return nil, classifyInvokeError(err)
	}

	return &domain.AgentReply{
		Text:           text,
		DecodeFailures: decodeFailures,
	}, nil
}

// collectCompletion consumes the event stream to exhaustion. Only
// chunk-shaped events contribute text; anything else is skipped without
// comment. A chunk whose bytes are not valid UTF-8 is recorded as a
// StreamDecodeError and consumption continues.
func collectCompletion(events <-chan types.ResponseStream) (string, []error) {
	var full strings.Builder
	var failures []error

	i := -1
	for event := range events {
		i++
		chunk, ok := event.(*types.ResponseStreamMemberChunk)
		if !ok {
			continue
		}
		if chunk.Value.Bytes == nil {
			continue
		}
		if !utf8.Valid(chunk.Value.Bytes) {
			failures = append(failures, &domain.StreamDecodeError{
				EventIndex: i,
				Reason:     "chunk bytes are not valid UTF-8",
			})
			continue
		}
		full.Write(chunk.Value.Bytes)
	}

	return strings.TrimSpace(full.String()), failures
}

// classifyInvokeError separates remote-service failures, which carry a
// machine-readable code, from everything else.
func classifyInvokeError(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return &domain.RemoteServiceError{
			Code:    apiErr.ErrorCode(),
			Message: apiErr.ErrorMessage(),
		}
	}
	return &domain.UnclassifiedError{Err: err}
}
