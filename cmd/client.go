package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/arthurdotwork/relay/internal/adapters/primary/grpc/relayv1"
	"github.com/gookit/color"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
)

func Client(ctx context.Context, c *cobra.Command) error {
	addr, err := c.Flags().GetString("addr")
	if err != nil {
		return fmt.Errorf("flags.GetString: %w", err)
	}

	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("grpc.NewClient: %w", err)
	}
	defer conn.Close()

	client := relayv1.NewRelayServiceClient(conn)

	prompt := promptui.Prompt{Label: "Username (blank for anonymous)"}
	username, err := prompt.Run()
	if err != nil {
		return fmt.Errorf("prompt.Run: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stream, err := client.Subscribe(ctx, &relayv1.SubscribeRequest{})
	if err != nil {
		return fmt.Errorf("client.Subscribe: %w", err)
	}

	sink := make(chan error, 1)
	go receiveMessages(stream, sink)

	lines := make(chan error, 1)
	go func() {
		lines <- sendMessages(ctx, client, username)
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-sink:
		if err != nil {
			return fmt.Errorf("receiveMessages: %w", err)
		}

		return nil
	case err := <-lines:
		return err
	}
}

// sendMessages publishes every entered line until the prompt is interrupted.
func sendMessages(ctx context.Context, client relayv1.RelayServiceClient, username string) error {
	var pending string

	for {
		prompt := promptui.Prompt{
			Label:     "Message",
			Default:   pending,
			AllowEdit: true,
		}

		line, err := prompt.Run()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				return nil
			}

			return fmt.Errorf("prompt.Run: %w", err)
		}

		pending, err = submit(ctx, client, username, line)
		if err != nil {
			color.Red.Printf("message not sent: %s\n", status.Convert(err).Message())
		}
	}
}

// submit publishes line and returns what the prompt should offer next: the
// line itself when the relay refused it.
func submit(ctx context.Context, client relayv1.RelayServiceClient, username string, line string) (string, error) {
	if strings.TrimSpace(line) == "" {
		return "", nil
	}

	if _, err := client.Publish(ctx, &relayv1.PublishRequest{Text: line, User: username}); err != nil {
		return line, err
	}

	return "", nil
}

func receiveMessages(stream relayv1.RelayService_SubscribeClient, sink chan error) {
	for {
		event, err := stream.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				sink <- nil
				return
			}

			sink <- err
			return
		}

		switch {
		case event.ServerClosing != nil:
			fmt.Printf("Server is closing: %s\n", event.ServerClosing.Message)
			sink <- nil
			return
		case event.Message != nil:
			fmt.Println(renderLine(event.Message))
		default:
			sink <- fmt.Errorf("unknown event: %+v", event)
			return
		}
	}
}

func renderLine(message *relayv1.Message) string {
	timestamp := color.Gray.Sprintf("[%s]", message.Timestamp.Local().Format("15:04:05"))
	user := color.New(color.FgCyan, color.OpBold).Render(message.User)

	return fmt.Sprintf("%s %s: %s", timestamp, user, message.Text)
}
