package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/arthurdotwork/relay/internal/adapters/primary/grpc/relayv1"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

func History(ctx context.Context, c *cobra.Command) error {
	addr, err := c.Flags().GetString("addr")
	if err != nil {
		return fmt.Errorf("flags.GetString: %w", err)
	}

	after, err := c.Flags().GetUint64("after")
	if err != nil {
		return fmt.Errorf("flags.GetUint64: %w", err)
	}

	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("grpc.NewClient: %w", err)
	}
	defer conn.Close()

	resp, err := relayv1.NewRelayServiceClient(conn).History(ctx, &relayv1.HistoryRequest{AfterId: after})
	if err != nil {
		return fmt.Errorf("client.History: %w", err)
	}

	renderHistory(os.Stdout, resp.Messages)
	return nil
}

func renderHistory(w io.Writer, messages []*relayv1.Message) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Time", "User", "Text"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	for _, message := range messages {
		table.Append([]string{
			strconv.FormatUint(message.Id, 10),
			message.Timestamp.Local().Format("2006-01-02 15:04:05"),
			message.User,
			message.Text,
		})
	}

	table.Render()
}
