package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"MailDesk/internal/apperrors"
	"MailDesk/internal/models"
	"MailDesk/internal/workflow"
)

var campaignsCmd = &cobra.Command{
	Use:   "campaigns",
	Short: "List, inspect, delete and send campaigns",
}

var campaignsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List campaigns, newest first",
	Args:  cobra.NoArgs,
	RunE:  listCampaigns,
}

var campaignsShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show a campaign with its delivery analytics",
	Args:  cobra.ExactArgs(1),
	RunE:  showCampaign,
}

var campaignsDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a campaign",
	Args:  cobra.ExactArgs(1),
	RunE:  deleteCampaign,
}

var campaignsSendCmd = &cobra.Command{
	Use:   "send ID",
	Short: "Send a saved campaign",
	Long: `Sends a saved campaign to its recipients. With --test only the first
recipient receives it and the campaign stays a draft.`,
	Args: cobra.ExactArgs(1),
	RunE: sendCampaign,
}

var sendTest bool

func init() {
	campaignsSendCmd.Flags().BoolVar(&sendTest, "test", false, "Send a single test email")

	campaignsCmd.AddCommand(campaignsListCmd)
	campaignsCmd.AddCommand(campaignsShowCmd)
	campaignsCmd.AddCommand(campaignsDeleteCmd)
	campaignsCmd.AddCommand(campaignsSendCmd)
}

func listCampaigns(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	campaigns, err := remote.ListCampaigns(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(campaigns) == 0 {
		fmt.Fprintln(out, mutedStyle.Render("No campaigns yet. Run \"maildesk compose\" to create one."))
		return nil
	}

	rows := make([][]string, 0, len(campaigns))
	for _, c := range campaigns {
		rows = append(rows, []string{
			c.ID,
			c.Name,
			string(c.Status),
			fmt.Sprint(c.SentCount),
			percent(c.OpenRate),
			percent(c.ClickRate),
			c.CreatedAt.Format("2006-01-02"),
		})
	}
	renderTable(out, []string{"ID", "Name", "Status", "Sent", "Opens", "Clicks", "Created"}, rows)
	return nil
}

// showCampaign fetches the campaign and its analytics in parallel.
func showCampaign(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	var (
		c         *models.Campaign
		analytics *models.CampaignAnalytics
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		c, err = remote.GetCampaign(gctx, args[0])
		return err
	})
	g.Go(func() error {
		var err error
		analytics, err = remote.GetCampaignAnalytics(gctx, args[0])
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, headerStyle.Render(c.Name))
	fmt.Fprintf(out, "ID:       %s\n", c.ID)
	fmt.Fprintf(out, "Status:   %s\n", c.Status)
	fmt.Fprintf(out, "Subject:  %s\n", c.Subject)
	if c.CCEmail != nil && *c.CCEmail != "" {
		fmt.Fprintf(out, "CC:       %s\n", *c.CCEmail)
	}
	if c.BCCEmail != nil && *c.BCCEmail != "" {
		fmt.Fprintf(out, "BCC:      %s\n", *c.BCCEmail)
	}
	fmt.Fprintf(out, "Created:  %s\n\n", c.CreatedAt.Format("2006-01-02 15:04"))

	fmt.Fprintf(out, "Sent %d · Opened %d (%s) · Clicked %d (%s)\n",
		analytics.SentCount,
		analytics.OpenCount, percent(analytics.OpenRate),
		analytics.ClickCount, percent(analytics.ClickRate))

	if len(analytics.Logs) == 0 {
		return nil
	}

	rows := make([][]string, 0, len(analytics.Logs))
	for _, l := range analytics.Logs {
		rows = append(rows, []string{l.Email, string(l.Status), l.SentAt.Format("2006-01-02 15:04")})
	}
	fmt.Fprintln(out)
	renderTable(out, []string{"Recipient", "Status", "Sent at"}, rows)
	return nil
}

func deleteCampaign(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	out := cmd.OutOrStdout()
	err := remote.DeleteCampaign(ctx, args[0])
	switch {
	case apperrors.IsNotFound(err):
		fmt.Fprintf(out, "%s %s (already removed)\n", warningStyle.Render("Not found"), args[0])
		return nil
	case err != nil:
		return err
	}

	fmt.Fprintf(out, "%s %s\n", successStyle.Render("Deleted"), args[0])
	return nil
}

func sendCampaign(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	outcome, err := workflow.Dispatch(ctx, remote, args[0], sendTest)
	if err != nil {
		return err
	}

	printOutcome(cmd.OutOrStdout(), outcome)
	return nil
}
