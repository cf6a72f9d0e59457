package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show dashboard statistics",
	Args:  cobra.NoArgs,
	RunE:  showStats,
}

const barWidth = 30

func showStats(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	stats, err := remote.GetDashboardStats(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	s := stats.Stats
	fmt.Fprintln(out, headerStyle.Render("Overview"))
	fmt.Fprintf(out, "Emails sent:  %d\n", s.TotalSent)
	fmt.Fprintf(out, "Contacts:     %d\n", s.TotalContacts)
	fmt.Fprintf(out, "Open rate:    %s\n", percent(s.OpenRate))
	fmt.Fprintf(out, "Click rate:   %s\n", percent(s.ClickRate))
	fmt.Fprintf(out, "Bounce rate:  %s\n\n", percent(s.BounceRate))

	if len(stats.ChartData) > 0 {
		peak := 1
		for _, p := range stats.ChartData {
			peak = max(peak, p.Sent)
		}

		fmt.Fprintln(out, headerStyle.Render("Last 7 days"))
		for _, p := range stats.ChartData {
			bar := strings.Repeat("█", p.Sent*barWidth/peak)
			fmt.Fprintf(out, "%s  %-*s %d sent, %d opened\n", p.Date, barWidth, bar, p.Sent, p.Opened)
		}
		fmt.Fprintln(out)
	}

	if len(stats.RecentCampaigns) == 0 {
		return nil
	}

	rows := make([][]string, 0, len(stats.RecentCampaigns))
	for _, c := range stats.RecentCampaigns {
		rows = append(rows, []string{c.Name, string(c.Status), percent(c.OpenRate), c.CreatedAt.Format("2006-01-02")})
	}
	fmt.Fprintln(out, headerStyle.Render("Recent campaigns"))
	renderTable(out, []string{"Name", "Status", "Opens", "Created"}, rows)
	return nil
}
