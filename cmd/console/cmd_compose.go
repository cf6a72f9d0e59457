package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"MailDesk/internal/campaign"
	"MailDesk/internal/tui"
	"MailDesk/internal/workflow"
)

var composeCmd = &cobra.Command{
	Use:   "compose [ID]",
	Short: "Create or edit a campaign",
	Long: `Opens the campaign wizard: details, content, preview, send. With an ID the
wizard edits that campaign instead of creating a new one.

With --batch the same steps run without a terminal UI:

  maildesk compose --batch --name "Spring" --prompt "announce our spring sale" --test`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCompose,
}

var (
	composeBatch   bool
	composeName    string
	composeSubject string
	composeFile    string
	composePrompt  string
	composeCC      string
	composeBCC     string
	composeTest    bool
	composeSend    bool
)

func init() {
	composeCmd.Flags().BoolVar(&composeBatch, "batch", false, "Run without the interactive wizard")
	composeCmd.Flags().StringVar(&composeName, "name", "", "Campaign name")
	composeCmd.Flags().StringVar(&composeSubject, "subject", "", "Subject line")
	composeCmd.Flags().StringVar(&composeFile, "content-file", "", "File holding the HTML content")
	composeCmd.Flags().StringVar(&composePrompt, "prompt", "", "Generate subject and content from this prompt")
	composeCmd.Flags().StringVar(&composeCC, "cc", "", "CC address")
	composeCmd.Flags().StringVar(&composeBCC, "bcc", "", "BCC address")
	composeCmd.Flags().BoolVar(&composeTest, "test", false, "Send a test email after saving")
	composeCmd.Flags().BoolVar(&composeSend, "send", false, "Send the campaign after saving")
	composeCmd.MarkFlagsMutuallyExclusive("test", "send")
}

func openSession(ctx context.Context, args []string) (*workflow.Session, error) {
	opts := workflow.Options{Provider: cfg.AIProvider, Log: log}
	if len(args) == 0 {
		return workflow.NewSession(remote, opts), nil
	}
	return workflow.OpenSession(ctx, remote, args[0], opts)
}

func runCompose(cmd *cobra.Command, args []string) error {
	if composeBatch {
		return runBatch(cmd, args)
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := context.WithCancel(parent)
	defer stop()

	session, err := openSession(ctx, args)
	if err != nil {
		return err
	}
	defer session.Close()

	_, err = tea.NewProgram(tui.New(ctx, session), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

// runBatch walks the workflow non-interactively: details, content
// (optionally generated), save, then an optional send.
func runBatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	session, err := openSession(ctx, args)
	if err != nil {
		return err
	}
	defer session.Close()

	var content string
	if composeFile != "" {
		data, err := os.ReadFile(composeFile)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", composeFile, err)
		}
		content = string(data)
	}

	flags := cmd.Flags()
	if err := session.Edit(func(d *campaign.Draft) {
		if flags.Changed("name") {
			d.Name = composeName
		}
		if flags.Changed("cc") {
			d.CCEmail = composeCC
		}
		if flags.Changed("bcc") {
			d.BCCEmail = composeBCC
		}
	}); err != nil {
		return err
	}
	if err := session.Next(); err != nil {
		return err
	}

	if composePrompt != "" {
		_ = session.Edit(func(d *campaign.Draft) { d.Prompt = composePrompt })
		if err := session.Generate(ctx); err != nil {
			return err
		}
	}
	// explicit values win over generated ones
	_ = session.Edit(func(d *campaign.Draft) {
		if flags.Changed("subject") {
			d.Subject = composeSubject
		}
		if composeFile != "" {
			d.Content = content
		}
	})

	if err := session.Save(ctx); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	st := session.State()
	fmt.Fprintf(out, "%s %s (%s)\n", successStyle.Render("Saved"), st.Draft.Name, st.CampaignID)
	log.Debug("batch compose saved", zap.String("campaign_id", st.CampaignID))

	if !composeTest && !composeSend {
		return nil
	}

	outcome, err := session.Send(ctx, composeTest)
	if err != nil {
		return err
	}
	printOutcome(out, outcome)
	return nil
}
