package backend

import (
	"context"
	"net"
	"testing"

	apperrors "github.com/okito/dashboard/internal/platform/errors"
	platformgrpc "github.com/okito/dashboard/internal/platform/grpc"
	"github.com/okito/dashboard/internal/platform/requestctx"
	"github.com/okito/dashboard/internal/rpc"
	"github.com/okito/dashboard/internal/services/dashboard/wallet"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"
)

func startServer(t *testing.T, svc *Service) *rpc.Client {
	t.Helper()
	listener := bufconn.Listen(1 << 20)
	server := newServer(listener, svc)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Serve(ctx) }()
	t.Cleanup(func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("Serve() error = %v", err)
		}
	})

	opts := append(platformgrpc.DefaultClientDialOptions(),
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return listener.DialContext(ctx)
		}),
	)
	conn, err := grpc.NewClient("passthrough:///bufnet", opts...)
	if err != nil {
		t.Fatalf("dial bufconn: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return rpc.NewClient(conn)
}

func TestServerPropagatesUser(t *testing.T) {
	t.Parallel()
	client := startServer(t, New(Seed{EventsPerProject: 3}, WithEmptyUser("newcomer")))

	projects, err := client.ListProjects(requestctx.WithUserID(context.Background(), "user-1"))
	if err != nil {
		t.Fatalf("ListProjects() error = %v", err)
	}
	if len(projects) == 0 {
		t.Fatal("ListProjects() returned no projects for a seeded user")
	}
	empty, err := client.ListProjects(requestctx.WithUserID(context.Background(), "newcomer"))
	if err != nil {
		t.Fatalf("ListProjects() error = %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("ListProjects() for empty user = %+v, want none", empty)
	}
}

func TestServerRoundTripsEvents(t *testing.T) {
	t.Parallel()
	svc := New(Seed{EventsPerProject: 5, Source: 3})
	client := startServer(t, svc)
	ctx := requestctx.WithUserID(context.Background(), "user-1")

	want, err := svc.ListEvents(ctx, "proj_storefront")
	if err != nil {
		t.Fatalf("ListEvents() error = %v", err)
	}
	got, err := client.ListEvents(ctx, "proj_storefront")
	if err != nil {
		t.Fatalf("client ListEvents() error = %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("event count = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID != want[i].ID || got[i].Payment.Amount != want[i].Payment.Amount || !got[i].CreatedAt.Equal(want[i].CreatedAt) {
			t.Fatalf("event %d = %+v, want %+v", i, got[i], want[i])
		}
	}

	if _, err := client.ListEvents(ctx, "proj_missing"); !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Fatalf("ListEvents(missing) error = %v, want %s", err, apperrors.CodeNotFound)
	}
}

func TestServerWalletFlow(t *testing.T) {
	t.Parallel()
	client := startServer(t, New(Seed{}))
	ctx := requestctx.WithUserID(context.Background(), "user-1")
	signer := newSigner(t)

	var succeeded bool
	flow := wallet.NewFlow(client, wallet.OnSuccess(func() { succeeded = true }))
	if err := flow.Verify(ctx, wallet.Connection{Connected: true, PublicKey: signer.PublicKey(), Signer: signer}); err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if !succeeded || !flow.IsSuccess() {
		t.Fatalf("flow state = %v, want confirmed", flow.State())
	}

	details, err := client.GetProjectDetails(ctx, "proj_storefront")
	if err != nil {
		t.Fatalf("GetProjectDetails() error = %v", err)
	}
	if !details.WalletVerified || details.WalletAddress != signer.PublicKey() {
		t.Fatalf("details wallet = %q verified=%v", details.WalletAddress, details.WalletVerified)
	}
}
