package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"MailDesk/internal/apperrors"
	"MailDesk/internal/models"
)

var contactsCmd = &cobra.Command{
	Use:   "contacts",
	Short: "List, add, delete and import contacts",
}

var contactsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List contacts, 25 per page",
	Args:  cobra.NoArgs,
	RunE:  listContacts,
}

var contactsAddCmd = &cobra.Command{
	Use:   "add EMAIL",
	Short: "Add a contact",
	Args:  cobra.ExactArgs(1),
	RunE:  addContact,
}

var contactsDeleteCmd = &cobra.Command{
	Use:   "delete ID...",
	Short: "Delete one or more contacts",
	Long: `Deletes each contact by id. A contact that no longer exists is reported
and skipped; it does not fail the command.`,
	Args: cobra.MinimumNArgs(1),
	RunE: deleteContacts,
}

var contactsImportCmd = &cobra.Command{
	Use:   "import FILE.csv",
	Short: "Import contacts from a CSV file",
	Long: `Uploads a CSV with a header row. Email, name and company columns are
recognised by common header spellings; rows without a valid email and
addresses that already exist are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: importContacts,
}

var (
	contactsPage   int
	contactsSearch string
	contactName    string
	contactCompany string
	contactTags    []string
)

const deleteWorkers = 4

func init() {
	contactsListCmd.Flags().IntVar(&contactsPage, "page", 1, "Page number")
	contactsListCmd.Flags().StringVar(&contactsSearch, "search", "", "Filter by email or name")

	contactsAddCmd.Flags().StringVar(&contactName, "name", "", "Contact name")
	contactsAddCmd.Flags().StringVar(&contactCompany, "company", "", "Company")
	contactsAddCmd.Flags().StringSliceVar(&contactTags, "tag", nil, "Tag (repeatable)")

	contactsCmd.AddCommand(contactsListCmd)
	contactsCmd.AddCommand(contactsAddCmd)
	contactsCmd.AddCommand(contactsDeleteCmd)
	contactsCmd.AddCommand(contactsImportCmd)
}

func listContacts(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	page, err := remote.ListContacts(ctx, contactsPage, contactsSearch)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(page.Items) == 0 {
		fmt.Fprintln(out, mutedStyle.Render("No contacts found."))
		return nil
	}

	rows := make([][]string, 0, len(page.Items))
	for _, c := range page.Items {
		rows = append(rows, []string{
			c.ID,
			c.Email,
			c.Name,
			c.Company,
			strings.Join(c.Tags, ", "),
			c.CreatedAt.Format("2006-01-02"),
		})
	}
	renderTable(out, []string{"ID", "Email", "Name", "Company", "Tags", "Created"}, rows)

	footer := fmt.Sprintf("Page %d · %d contacts", contactsPage, page.Count)
	if page.HasNext {
		footer += fmt.Sprintf(" · next: --page %d", contactsPage+1)
	}
	fmt.Fprintln(out, mutedStyle.Render(footer))
	return nil
}

func addContact(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	c, err := remote.CreateContact(ctx, models.ContactInput{
		Email:   args[0],
		Name:    contactName,
		Company: contactCompany,
		Tags:    contactTags,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", successStyle.Render("Added"), c.Email, c.ID)
	return nil
}

// deleteContacts removes ids concurrently and reports them in argument order.
func deleteContacts(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	results := make([]error, len(args))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(deleteWorkers)
	for i, id := range args {
		i, id := i, id
		g.Go(func() error {
			err := remote.DeleteContact(gctx, id)
			results[i] = err
			if err != nil && !apperrors.IsNotFound(err) {
				return err
			}
			return nil
		})
	}
	firstErr := g.Wait()

	out := cmd.OutOrStdout()
	for i, id := range args {
		switch err := results[i]; {
		case err == nil:
			fmt.Fprintf(out, "%s %s\n", successStyle.Render("Deleted"), id)
		case apperrors.IsNotFound(err):
			log.Debug("contact already gone", zap.String("contact_id", id))
			fmt.Fprintf(out, "%s %s (already removed)\n", warningStyle.Render("Not found"), id)
		default:
			fmt.Fprintf(out, "%s %s: %s\n", errorStyle.Render("Failed"), id, describe(err))
		}
	}
	return firstErr
}

func importContacts(cmd *cobra.Command, args []string) error {
	path := args[0]
	if !strings.EqualFold(filepath.Ext(path), ".csv") {
		return apperrors.NewValidation("file", "File must be a CSV")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	res, err := remote.ImportContacts(ctx, filepath.Base(path), data)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s imported %d, skipped %d\n",
		successStyle.Render("Import complete:"), res.Imported, res.Skipped)
	return nil
}
