package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	apperrors "github.com/okito/dashboard/internal/platform/errors"
)

// Service names of the backend contract.
const (
	EventServiceName     = "okito.events.v1.EventService"
	AnalyticsServiceName = "okito.analytics.v1.AnalyticsService"
	ProjectServiceName   = "okito.project.v1.ProjectService"
	UserServiceName      = "okito.user.v1.UserService"
)

// Full method names of the backend contract.
const (
	MethodListEvents        = "/" + EventServiceName + "/ListEvents"
	MethodGetAnalytics      = "/" + AnalyticsServiceName + "/GetAnalytics"
	MethodGetProjectDetails = "/" + ProjectServiceName + "/GetProjectDetails"
	MethodListProjects      = "/" + ProjectServiceName + "/ListProjects"
	MethodListAPITokens     = "/" + ProjectServiceName + "/ListAPITokens"
	MethodListWebhooks      = "/" + ProjectServiceName + "/ListWebhooks"
	MethodGetWalletNonce    = "/" + UserServiceName + "/GetWalletNonce"
	MethodConfirmWallet     = "/" + UserServiceName + "/ConfirmWallet"
)

// EventServer serves project events.
type EventServer interface {
	ListEvents(ctx context.Context, projectID string) ([]Event, error)
}

// AnalyticsServer serves payment analytics.
type AnalyticsServer interface {
	GetAnalytics(ctx context.Context, projectID, period string) (AnalyticsResult, error)
}

// ProjectServer serves projects and their tables.
type ProjectServer interface {
	GetProjectDetails(ctx context.Context, id string) (ProjectDetails, error)
	ListProjects(ctx context.Context) ([]Project, error)
	ListAPITokens(ctx context.Context, projectID string) ([]APIToken, error)
	ListWebhooks(ctx context.Context, projectID string) ([]Webhook, error)
}

// UserServer serves the wallet verification handshake.
type UserServer interface {
	GetWalletNonce(ctx context.Context, publicKey string) (WalletNonce, error)
	ConfirmWallet(ctx context.Context, req ConfirmWalletRequest) (bool, error)
}

// Backend is the full contract.
type Backend interface {
	EventServer
	AnalyticsServer
	ProjectServer
	UserServer
}

// Register registers every service of the contract on s.
func Register(s grpc.ServiceRegistrar, backend Backend) {
	s.RegisterService(&eventServiceDesc, backend)
	s.RegisterService(&analyticsServiceDesc, backend)
	s.RegisterService(&projectServiceDesc, backend)
	s.RegisterService(&userServiceDesc, backend)
}

// unary adapts a typed Struct handler to a gRPC method handler. Domain
// errors are converted to status errors on the way out.
func unary[S any](fullMethod string, call func(ctx context.Context, srv S, req *structpb.Struct) (map[string]any, error)) grpc.MethodHandler {
	invoke := func(ctx context.Context, srv any, req *structpb.Struct) (any, error) {
		out, err := call(ctx, srv.(S), req)
		if err != nil {
			return nil, apperrors.HandleError(err)
		}
		return newStruct(out)
	}
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		req := new(structpb.Struct)
		if err := dec(req); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return invoke(ctx, srv, req)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		return interceptor(ctx, req, info, func(ctx context.Context, req any) (any, error) {
			return invoke(ctx, srv, req.(*structpb.Struct))
		})
	}
}

func requireField(req *structpb.Struct, key string, code apperrors.Code) (string, error) {
	value := stringField(req, key)
	if value == "" {
		return "", apperrors.WithMetadata(code, key+" is required", map[string]string{"Field": key})
	}
	return value, nil
}

var eventServiceDesc = grpc.ServiceDesc{
	ServiceName: EventServiceName,
	HandlerType: (*EventServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ListEvents",
			Handler: unary(MethodListEvents, func(ctx context.Context, srv EventServer, req *structpb.Struct) (map[string]any, error) {
				projectID, err := requireField(req, fieldProjectID, apperrors.CodeProjectIDRequired)
				if err != nil {
					return nil, err
				}
				events, err := srv.ListEvents(ctx, projectID)
				if err != nil {
					return nil, err
				}
				return map[string]any{fieldEvents: encodeList(events, EncodeEvent)}, nil
			}),
		},
	},
	Metadata: "okito/events/v1/events.proto",
}

var analyticsServiceDesc = grpc.ServiceDesc{
	ServiceName: AnalyticsServiceName,
	HandlerType: (*AnalyticsServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetAnalytics",
			Handler: unary(MethodGetAnalytics, func(ctx context.Context, srv AnalyticsServer, req *structpb.Struct) (map[string]any, error) {
				projectID, err := requireField(req, fieldProjectID, apperrors.CodeProjectIDRequired)
				if err != nil {
					return nil, err
				}
				period := stringField(req, fieldPeriod)
				if !ValidPeriod(period) {
					return nil, apperrors.WithMetadata(apperrors.CodeInvalidArgument, "period is invalid", map[string]string{"Field": fieldPeriod})
				}
				result, err := srv.GetAnalytics(ctx, projectID, period)
				if err != nil {
					return nil, err
				}
				return EncodeAnalytics(result), nil
			}),
		},
	},
	Metadata: "okito/analytics/v1/analytics.proto",
}

var projectServiceDesc = grpc.ServiceDesc{
	ServiceName: ProjectServiceName,
	HandlerType: (*ProjectServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetProjectDetails",
			Handler: unary(MethodGetProjectDetails, func(ctx context.Context, srv ProjectServer, req *structpb.Struct) (map[string]any, error) {
				id, err := requireField(req, fieldID, apperrors.CodeProjectIDRequired)
				if err != nil {
					return nil, err
				}
				details, err := srv.GetProjectDetails(ctx, id)
				if err != nil {
					return nil, err
				}
				return EncodeProjectDetails(details), nil
			}),
		},
		{
			MethodName: "ListProjects",
			Handler: unary(MethodListProjects, func(ctx context.Context, srv ProjectServer, _ *structpb.Struct) (map[string]any, error) {
				projects, err := srv.ListProjects(ctx)
				if err != nil {
					return nil, err
				}
				return map[string]any{fieldProjects: encodeList(projects, func(p Project) map[string]any {
					return map[string]any{fieldID: p.ID, fieldName: p.Name}
				})}, nil
			}),
		},
		{
			MethodName: "ListAPITokens",
			Handler: unary(MethodListAPITokens, func(ctx context.Context, srv ProjectServer, req *structpb.Struct) (map[string]any, error) {
				projectID, err := requireField(req, fieldProjectID, apperrors.CodeProjectIDRequired)
				if err != nil {
					return nil, err
				}
				tokens, err := srv.ListAPITokens(ctx, projectID)
				if err != nil {
					return nil, err
				}
				return map[string]any{fieldTokens: encodeList(tokens, EncodeAPIToken)}, nil
			}),
		},
		{
			MethodName: "ListWebhooks",
			Handler: unary(MethodListWebhooks, func(ctx context.Context, srv ProjectServer, req *structpb.Struct) (map[string]any, error) {
				projectID, err := requireField(req, fieldProjectID, apperrors.CodeProjectIDRequired)
				if err != nil {
					return nil, err
				}
				webhooks, err := srv.ListWebhooks(ctx, projectID)
				if err != nil {
					return nil, err
				}
				return map[string]any{fieldWebhooks: encodeList(webhooks, EncodeWebhook)}, nil
			}),
		},
	},
	Metadata: "okito/project/v1/project.proto",
}

var userServiceDesc = grpc.ServiceDesc{
	ServiceName: UserServiceName,
	HandlerType: (*UserServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetWalletNonce",
			Handler: unary(MethodGetWalletNonce, func(ctx context.Context, srv UserServer, req *structpb.Struct) (map[string]any, error) {
				publicKey, err := requireField(req, fieldPublicKey, apperrors.CodeWalletPublicKeyInvalid)
				if err != nil {
					return nil, err
				}
				nonce, err := srv.GetWalletNonce(ctx, publicKey)
				if err != nil {
					return nil, err
				}
				return map[string]any{
					fieldMessage:   nonce.Message,
					fieldTimestamp: nonce.Timestamp,
				}, nil
			}),
		},
		{
			MethodName: "ConfirmWallet",
			Handler: unary(MethodConfirmWallet, func(ctx context.Context, srv UserServer, req *structpb.Struct) (map[string]any, error) {
				publicKey, err := requireField(req, fieldPublicKey, apperrors.CodeWalletPublicKeyInvalid)
				if err != nil {
					return nil, err
				}
				timestamp, err := int64Field(req, fieldTimestamp)
				if err != nil {
					return nil, apperrors.Wrap(apperrors.CodeNonceInvalid, "timestamp is invalid", err)
				}
				ok, err := srv.ConfirmWallet(ctx, ConfirmWalletRequest{
					PublicKey: publicKey,
					Signature: decodeIntList(listField(req, fieldSignature)),
					Timestamp: timestamp,
				})
				if err != nil {
					return nil, err
				}
				return map[string]any{fieldSuccess: ok}, nil
			}),
		},
	},
	Metadata: "okito/user/v1/user.proto",
}
