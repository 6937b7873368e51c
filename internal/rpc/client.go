package rpc

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	apperrors "github.com/okito/dashboard/internal/platform/errors"
	"github.com/okito/dashboard/internal/platform/timeouts"
)

// Client is a typed client for the backend contract.
type Client struct {
	conn grpc.ClientConnInterface
}

// NewClient returns a client that issues calls over conn.
func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

// invoke performs one unary call bounded by the per-request timeout and
// maps status errors back to domain errors.
func (c *Client) invoke(ctx context.Context, method string, fields map[string]any) (*structpb.Struct, error) {
	if c == nil || c.conn == nil {
		return nil, apperrors.New(apperrors.CodeRPCUnavailable, "backend client is not configured")
	}
	req, err := newStruct(fields)
	if err != nil {
		return nil, err
	}
	callCtx, cancel := context.WithTimeout(ctx, timeouts.RPCRequest)
	defer cancel()
	resp := new(structpb.Struct)
	if err := c.conn.Invoke(callCtx, method, req, resp); err != nil {
		return nil, apperrors.FromStatus(err)
	}
	return resp, nil
}

// ListEvents returns the events of a project.
func (c *Client) ListEvents(ctx context.Context, projectID string) ([]Event, error) {
	resp, err := c.invoke(ctx, MethodListEvents, map[string]any{fieldProjectID: projectID})
	if err != nil {
		return nil, err
	}
	events, err := decodeList(listField(resp, fieldEvents), DecodeEvent)
	if err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}
	return events, nil
}

// GetAnalytics returns the analytics of a project for a period.
func (c *Client) GetAnalytics(ctx context.Context, projectID, period string) (AnalyticsResult, error) {
	resp, err := c.invoke(ctx, MethodGetAnalytics, map[string]any{fieldProjectID: projectID, fieldPeriod: period})
	if err != nil {
		return AnalyticsResult{}, err
	}
	result, err := DecodeAnalytics(resp)
	if err != nil {
		return AnalyticsResult{}, fmt.Errorf("decode analytics: %w", err)
	}
	return result, nil
}

// GetProjectDetails returns one project.
func (c *Client) GetProjectDetails(ctx context.Context, id string) (ProjectDetails, error) {
	resp, err := c.invoke(ctx, MethodGetProjectDetails, map[string]any{fieldID: id})
	if err != nil {
		return ProjectDetails{}, err
	}
	details, err := DecodeProjectDetails(resp)
	if err != nil {
		return ProjectDetails{}, fmt.Errorf("decode project details: %w", err)
	}
	return details, nil
}

// ListProjects returns the projects of the calling user.
func (c *Client) ListProjects(ctx context.Context) ([]Project, error) {
	resp, err := c.invoke(ctx, MethodListProjects, map[string]any{})
	if err != nil {
		return nil, err
	}
	return decodeList(listField(resp, fieldProjects), func(s *structpb.Struct) (Project, error) {
		return Project{ID: stringField(s, fieldID), Name: stringField(s, fieldName)}, nil
	})
}

// ListAPITokens returns the API tokens of a project.
func (c *Client) ListAPITokens(ctx context.Context, projectID string) ([]APIToken, error) {
	resp, err := c.invoke(ctx, MethodListAPITokens, map[string]any{fieldProjectID: projectID})
	if err != nil {
		return nil, err
	}
	tokens, err := decodeList(listField(resp, fieldTokens), DecodeAPIToken)
	if err != nil {
		return nil, fmt.Errorf("decode api tokens: %w", err)
	}
	return tokens, nil
}

// ListWebhooks returns the webhooks of a project.
func (c *Client) ListWebhooks(ctx context.Context, projectID string) ([]Webhook, error) {
	resp, err := c.invoke(ctx, MethodListWebhooks, map[string]any{fieldProjectID: projectID})
	if err != nil {
		return nil, err
	}
	webhooks, err := decodeList(listField(resp, fieldWebhooks), DecodeWebhook)
	if err != nil {
		return nil, fmt.Errorf("decode webhooks: %w", err)
	}
	return webhooks, nil
}

// GetWalletNonce requests a challenge for publicKey.
func (c *Client) GetWalletNonce(ctx context.Context, publicKey string) (WalletNonce, error) {
	publicKey = strings.TrimSpace(publicKey)
	if publicKey == "" {
		return WalletNonce{}, apperrors.New(apperrors.CodeWalletPublicKeyInvalid, "public key is required")
	}
	resp, err := c.invoke(ctx, MethodGetWalletNonce, map[string]any{fieldPublicKey: publicKey})
	if err != nil {
		return WalletNonce{}, err
	}
	timestamp, err := int64Field(resp, fieldTimestamp)
	if err != nil {
		return WalletNonce{}, fmt.Errorf("decode wallet nonce: %w", err)
	}
	return WalletNonce{Message: stringField(resp, fieldMessage), Timestamp: timestamp}, nil
}

// ConfirmWallet submits a signed challenge.
func (c *Client) ConfirmWallet(ctx context.Context, req ConfirmWalletRequest) (bool, error) {
	resp, err := c.invoke(ctx, MethodConfirmWallet, map[string]any{
		fieldPublicKey: req.PublicKey,
		fieldSignature: encodeIntList(req.Signature),
		fieldTimestamp: req.Timestamp,
	})
	if err != nil {
		return false, err
	}
	return boolField(resp, fieldSuccess), nil
}
