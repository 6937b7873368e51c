package grpc

import (
	"context"
	"strings"

	"github.com/okito/dashboard/internal/platform/requestctx"
	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// UserIDHeader carries the signed-in dashboard user to the backend.
const UserIDHeader = "x-okito-user-id"

// WithUserID returns a context with user-id gRPC metadata when userID is non-empty.
func WithUserID(ctx context.Context, userID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return ctx
	}
	return metadata.AppendToOutgoingContext(ctx, UserIDHeader, userID)
}

// UserIDUnaryClientInterceptor forwards the request context user to every call.
func UserIDUnaryClientInterceptor() gogrpc.UnaryClientInterceptor {
	return func(
		ctx context.Context,
		method string,
		req any,
		reply any,
		cc *gogrpc.ClientConn,
		invoker gogrpc.UnaryInvoker,
		opts ...gogrpc.CallOption,
	) error {
		return invoker(WithUserID(ctx, requestctx.UserIDFromContext(ctx)), method, req, reply, cc, opts...)
	}
}

// UserIDUnaryServerInterceptor copies the user-id metadata into the request context.
func UserIDUnaryServerInterceptor() gogrpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, _ *gogrpc.UnaryServerInfo, handler gogrpc.UnaryHandler) (any, error) {
		if userID := userIDFromIncoming(ctx); userID != "" {
			ctx = requestctx.WithUserID(ctx, userID)
		}
		return handler(ctx, req)
	}
}

func userIDFromIncoming(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get(UserIDHeader)
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}
