package grpc_test

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/arthurdotwork/relay/internal/adapters/primary/grpc"
	"github.com/arthurdotwork/relay/internal/adapters/primary/grpc/relayv1"
	"github.com/arthurdotwork/relay/internal/adapters/secondary/store"
	"github.com/arthurdotwork/relay/internal/domain"
	"github.com/arthurdotwork/relay/internal/domain/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	grpcserver "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/reflection"
	reflectionv1 "google.golang.org/grpc/reflection/grpc_reflection_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/dynamicpb"
	"google.golang.org/protobuf/types/known/emptypb"
)

type harness struct {
	conn         *grpcserver.ClientConn
	client       relayv1.RelayServiceClient
	relayServer  *grpc.RelayServer
	relayService *domain.RelayService
}

func newHarness(t *testing.T, repository domain.Repository) *harness {
	t.Helper()

	messageStore := domain.NewMessageStore(repository)
	feed := domain.NewFeed(messageStore)
	relayService := domain.NewRelayService(messageStore, feed, nil)
	relayServer := grpc.NewRelayServer(relayService)

	srv := grpcserver.NewServer()
	relayv1.RegisterRelayServiceServer(srv, relayServer)
	reflection.Register(srv)

	lis := bufconn.Listen(1024 * 1024)
	go func() {
		_ = srv.Serve(lis)
	}()

	conn, err := grpcserver.NewClient("passthrough:///bufnet",
		grpcserver.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpcserver.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
		relayServer.Close()
		relayService.Close()
		srv.Stop()
	})

	return &harness{
		conn:         conn,
		client:       relayv1.NewRelayServiceClient(conn),
		relayServer:  relayServer,
		relayService: relayService,
	}
}

func recv(t *testing.T, stream relayv1.RelayService_SubscribeClient) *relayv1.ServerEvent {
	t.Helper()

	events := make(chan *relayv1.ServerEvent, 1)
	errs := make(chan error, 1)
	go func() {
		event, err := stream.Recv()
		if err != nil {
			errs <- err
			return
		}
		events <- event
	}()

	select {
	case event := <-events:
		return event
	case err := <-errs:
		t.Fatalf("stream.Recv: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for an event")
	}

	return nil
}

func TestRelayServer_Publish(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("it should return the stored message", func(t *testing.T) {
		h := newHarness(t, store.NewMemoryLog())

		resp, err := h.client.Publish(ctx, &relayv1.PublishRequest{Text: "hello", User: "alice"})
		require.NoError(t, err)
		require.Equal(t, uint64(1), resp.Message.Id)
		require.Equal(t, "hello", resp.Message.Text)
		require.Equal(t, "alice", resp.Message.User)
		require.False(t, resp.Message.Timestamp.IsZero())
	})

	t.Run("it should store the default user", func(t *testing.T) {
		h := newHarness(t, store.NewMemoryLog())

		resp, err := h.client.Publish(ctx, &relayv1.PublishRequest{Text: "hi"})
		require.NoError(t, err)
		require.Equal(t, domain.DefaultUser, resp.Message.User)
	})

	t.Run("it should return invalid argument for an empty text", func(t *testing.T) {
		h := newHarness(t, store.NewMemoryLog())

		_, err := h.client.Publish(ctx, &relayv1.PublishRequest{Text: "  "})
		require.Equal(t, codes.InvalidArgument, status.Code(err))
	})

	t.Run("it should return unavailable if the store fails", func(t *testing.T) {
		repository := mocks.NewMockRepository(t)
		repository.On("Append", mock.Anything, mock.Anything).Return(domain.Message{}, fmt.Errorf("error")).Once()

		h := newHarness(t, repository)

		_, err := h.client.Publish(ctx, &relayv1.PublishRequest{Text: "hello"})
		require.Equal(t, codes.Unavailable, status.Code(err))
	})
}

func TestRelayServer_History(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	h := newHarness(t, store.NewMemoryLog())

	for _, text := range []string{"one", "two", "three"} {
		_, err := h.client.Publish(ctx, &relayv1.PublishRequest{Text: text, User: "alice"})
		require.NoError(t, err)
	}

	t.Run("it should return the whole log", func(t *testing.T) {
		resp, err := h.client.History(ctx, &relayv1.HistoryRequest{})
		require.NoError(t, err)
		require.Len(t, resp.Messages, 3)
		require.Equal(t, "one", resp.Messages[0].Text)
		require.Equal(t, "three", resp.Messages[2].Text)
	})

	t.Run("it should return the messages after the given identifier", func(t *testing.T) {
		resp, err := h.client.History(ctx, &relayv1.HistoryRequest{AfterId: 2})
		require.NoError(t, err)
		require.Len(t, resp.Messages, 1)
		require.Equal(t, uint64(3), resp.Messages[0].Id)
	})

	t.Run("it should answer a stock protobuf client", func(t *testing.T) {
		descriptor := relayv1.File_relay_v1_relay_proto.Messages().ByName("HistoryResponse")
		resp := dynamicpb.NewMessage(descriptor)

		err := h.conn.Invoke(ctx, relayv1.RelayService_History_FullMethodName, &emptypb.Empty{}, resp)
		require.NoError(t, err)

		messages := resp.Get(descriptor.Fields().ByName("messages")).List()
		require.Equal(t, 3, messages.Len())

		last := messages.Get(2).Message()
		fields := last.Descriptor().Fields()
		require.Equal(t, uint64(3), last.Get(fields.ByName("id")).Uint())
		require.Equal(t, "three", last.Get(fields.ByName("text")).String())
		require.Equal(t, "alice", last.Get(fields.ByName("user")).String())
		require.NotZero(t, last.Get(fields.ByName("timestamp_unix_nano")).Int())
	})
}

func TestRelayServer_Reflection(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	h := newHarness(t, store.NewMemoryLog())

	t.Run("it should describe the relay service", func(t *testing.T) {
		stream, err := reflectionv1.NewServerReflectionClient(h.conn).ServerReflectionInfo(ctx)
		require.NoError(t, err)

		err = stream.Send(&reflectionv1.ServerReflectionRequest{
			MessageRequest: &reflectionv1.ServerReflectionRequest_FileContainingSymbol{
				FileContainingSymbol: "relay.v1.RelayService",
			},
		})
		require.NoError(t, err)

		resp, err := stream.Recv()
		require.NoError(t, err)
		require.NoError(t, stream.CloseSend())

		files := resp.GetFileDescriptorResponse().GetFileDescriptorProto()
		require.Len(t, files, 1)

		var file descriptorpb.FileDescriptorProto
		require.NoError(t, proto.Unmarshal(files[0], &file))
		require.Equal(t, "relay/v1/relay.proto", file.GetName())
		require.Len(t, file.GetService(), 1)

		methods := make([]protoreflect.Name, 0, 3)
		for _, m := range file.GetService()[0].GetMethod() {
			methods = append(methods, protoreflect.Name(m.GetName()))
		}
		require.Equal(t, []protoreflect.Name{"Publish", "History", "Subscribe"}, methods)
	})
}

func TestRelayServer_Subscribe(t *testing.T) {
	t.Parallel()

	t.Run("it should replay the log then stream new messages", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		h := newHarness(t, store.NewMemoryLog())

		_, err := h.client.Publish(ctx, &relayv1.PublishRequest{Text: "hello", User: "alice"})
		require.NoError(t, err)

		stream, err := h.client.Subscribe(ctx, &relayv1.SubscribeRequest{})
		require.NoError(t, err)

		require.Equal(t, "hello", recv(t, stream).Message.Text)

		_, err = h.client.Publish(ctx, &relayv1.PublishRequest{Text: "hi"})
		require.NoError(t, err)

		event := recv(t, stream)
		require.Equal(t, uint64(2), event.Message.Id)
		require.Equal(t, domain.DefaultUser, event.Message.User)
	})

	t.Run("it should resume after the given identifier", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		h := newHarness(t, store.NewMemoryLog())

		for _, text := range []string{"one", "two", "three"} {
			_, err := h.client.Publish(ctx, &relayv1.PublishRequest{Text: text})
			require.NoError(t, err)
		}

		stream, err := h.client.Subscribe(ctx, &relayv1.SubscribeRequest{AfterId: 2})
		require.NoError(t, err)

		require.Equal(t, "three", recv(t, stream).Message.Text)
	})

	t.Run("it should notify subscribers when the server closes", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		h := newHarness(t, store.NewMemoryLog())

		_, err := h.client.Publish(ctx, &relayv1.PublishRequest{Text: "hello"})
		require.NoError(t, err)

		stream, err := h.client.Subscribe(ctx, &relayv1.SubscribeRequest{})
		require.NoError(t, err)
		require.NotNil(t, recv(t, stream).Message)

		h.relayServer.Close()

		event := recv(t, stream)
		require.NotNil(t, event.ServerClosing)
	})

	t.Run("it should release the subscription when the client leaves", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())

		h := newHarness(t, store.NewMemoryLog())

		_, err := h.client.Publish(ctx, &relayv1.PublishRequest{Text: "hello"})
		require.NoError(t, err)

		stream, err := h.client.Subscribe(ctx, &relayv1.SubscribeRequest{})
		require.NoError(t, err)
		require.NotNil(t, recv(t, stream).Message)
		require.Equal(t, 1, h.relayService.Listeners())

		cancel()

		require.Eventually(t, func() bool {
			return h.relayService.Listeners() == 0
		}, 2*time.Second, 10*time.Millisecond)
	})
}
