package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/arthurdotwork/relay/internal/adapters/primary/grpc"
	"github.com/arthurdotwork/relay/internal/adapters/primary/grpc/relayv1"
	subscriber "github.com/arthurdotwork/relay/internal/adapters/primary/redis"
	"github.com/arthurdotwork/relay/internal/adapters/primary/web"
	"github.com/arthurdotwork/relay/internal/adapters/secondary/archive"
	"github.com/arthurdotwork/relay/internal/adapters/secondary/broadcaster"
	"github.com/arthurdotwork/relay/internal/adapters/secondary/store"
	"github.com/arthurdotwork/relay/internal/domain"
	"github.com/arthurdotwork/relay/internal/infrastructure/config"
	"github.com/arthurdotwork/relay/internal/infrastructure/log"
	"github.com/arthurdotwork/relay/internal/infrastructure/redis"
	"github.com/arthurdotwork/relay/internal/infrastructure/runner"
	"github.com/spf13/cobra"
	grpcserver "google.golang.org/grpc"
	"google.golang.org/grpc/reflection"
)

func Server(ctx context.Context, c *cobra.Command) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	log.Config(cfg.LogLevel, cfg.LogFormat)

	var redisClient *redis.Client
	if cfg.StoreBackend == config.BackendRedis {
		redisClient = redis.NewClient(cfg.RedisAddr)
		defer func() {
			if err := redisClient.Close(); err != nil {
				slog.ErrorContext(ctx, "error closing redis client", "error", err)
			}
		}()
	}

	repository, err := openRepository(cfg, redisClient)
	if err != nil {
		return fmt.Errorf("openRepository: %w", err)
	}
	defer func() {
		if err := repository.Close(); err != nil {
			slog.ErrorContext(ctx, "error closing repository", "error", err)
		}
	}()

	messageStore := domain.NewMessageStore(repository, domain.WithDefaultUser(cfg.DefaultUser))
	feed := domain.NewFeed(messageStore,
		domain.WithBufferSize(cfg.FeedBufferSize),
		domain.WithRetryInterval(cfg.FeedRetryInterval),
	)

	var announcer domain.Announcer
	if redisClient != nil {
		announcer = broadcaster.NewBroadcaster(redisClient, cfg.RedisChannel)
	}

	relayService := domain.NewRelayService(messageStore, feed, announcer)
	relayServer := grpc.NewRelayServer(relayService)

	srv := grpcserver.NewServer()
	relayv1.RegisterRelayServiceServer(srv, relayServer)
	reflection.Register(srv)

	httpSrv := web.NewServer(cfg.HTTPAddr(), web.Routes(relayService, web.Config{
		AllowedOrigins: cfg.Origins(),
		MaxMessageSize: cfg.WSMaxMessageSize,
	}))

	var archiver *domain.Archiver
	if cfg.ArchiveEnabled() {
		objects, err := archive.NewS3Store(ctx, archive.S3Config{
			Bucket:          cfg.ArchiveBucket,
			Region:          cfg.ArchiveRegion,
			Endpoint:        cfg.ArchiveEndpoint,
			RoleARN:         cfg.ArchiveRoleARN,
			AccessKeyID:     cfg.ArchiveAccessKeyID,
			SecretAccessKey: cfg.ArchiveSecretAccessKey,
		})
		if err != nil {
			return fmt.Errorf("archive.NewS3Store: %w", err)
		}

		archiver = domain.NewArchiver(feed, objects, domain.ArchiverConfig{
			Prefix:        cfg.ArchivePrefix,
			BatchSize:     cfg.ArchiveBatchSize,
			FlushInterval: cfg.ArchiveFlushInterval,
			MaxRetries:    cfg.ArchiveMaxRetries,
		})
	}

	r := runner.New(ctx)

	r.Go(func(ctx context.Context) error {
		lis, err := net.Listen("tcp", cfg.GRPCAddr())
		if err != nil {
			slog.ErrorContext(ctx, "error listening", "error", err)
			return fmt.Errorf("net.Listen: %w", err)
		}

		slog.InfoContext(ctx, "starting grpc server", "address", cfg.GRPCAddr())

		if err := srv.Serve(lis); err != nil && !errors.Is(err, grpcserver.ErrServerStopped) {
			slog.ErrorContext(ctx, "error serving", "error", err)
			return fmt.Errorf("srv.Serve: %w", err)
		}

		slog.DebugContext(ctx, "grpc server stopped")
		return nil
	})

	r.Go(func(ctx context.Context) error {
		slog.InfoContext(ctx, "starting http server", "address", cfg.HTTPAddr())

		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.ErrorContext(ctx, "error serving http", "error", err)
			return fmt.Errorf("httpSrv.ListenAndServe: %w", err)
		}

		slog.DebugContext(ctx, "http server stopped")
		return nil
	})

	if redisClient != nil {
		r.Go(func(ctx context.Context) error {
			sub := subscriber.NewSubscriber(redisClient, feed)
			if err := sub.Subscribe(ctx, cfg.RedisChannel); err != nil {
				slog.ErrorContext(ctx, "error subscribing", "error", err)
				return fmt.Errorf("sub.Subscribe: %w", err)
			}

			slog.DebugContext(ctx, "subscriber stopped")
			return nil
		})
	}

	if archiver != nil {
		r.Go(func(ctx context.Context) error {
			// the relay keeps serving when the archive is unreachable
			if err := archiver.Run(ctx); err != nil {
				slog.ErrorContext(ctx, "error running archiver", "error", err)
			}

			return nil
		})
	}

	r.Go(func(ctx context.Context) error {
		<-ctx.Done()
		slog.InfoContext(ctx, "initiating server shutdown")

		relayServer.Close()
		relayService.Close()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
		defer shutdownCancel()

		stopGRPC(shutdownCtx, srv)

		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(ctx, "error shutting down http server", "error", err)
		}

		return nil
	})

	if err := r.Wait(); err != nil {
		slog.ErrorContext(ctx, "error running server", "error", err)
		return fmt.Errorf("runner.Wait: %w", err)
	}

	slog.InfoContext(ctx, "server stopped")
	return nil
}

// stopGRPC drains open streams and forces the stop once ctx expires.
func stopGRPC(ctx context.Context, srv *grpcserver.Server) {
	stopped := make(chan struct{})
	go func() {
		srv.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-ctx.Done():
		slog.WarnContext(ctx, "graceful stop timed out, forcing")
		srv.Stop()
	}
}

func openRepository(cfg *config.Config, redisClient *redis.Client) (domain.Repository, error) {
	switch cfg.StoreBackend {
	case config.BackendBadger:
		repository, err := store.OpenBadgerLog(cfg.BadgerPath)
		if err != nil {
			return nil, fmt.Errorf("store.OpenBadgerLog: %w", err)
		}

		return repository, nil
	case config.BackendRedis:
		return store.NewRedisLog(redisClient, cfg.RedisKeyPrefix), nil
	default:
		return store.NewMemoryLog(), nil
	}
}
