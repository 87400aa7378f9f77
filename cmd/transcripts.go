package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/longkey1/askc/internal/askc/archive"
	"github.com/longkey1/askc/internal/askc/config"
	"github.com/spf13/cobra"
)

// transcriptStore opens the archive configured for the current user
func transcriptStore() (*archive.Store, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return archive.NewStore(cfg.TranscriptDir), nil
}

// confirm asks a y/N question on stdout
func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	var response string
	fmt.Scanln(&response)
	return response == "y" || response == "Y"
}

// transcriptsCmd represents the transcripts command
var transcriptsCmd = &cobra.Command{
	Use:     "transcripts",
	Aliases: []string{"tr"},
	Short:   "Manage saved transcripts",
	Long: `Manage saved chat transcripts including listing, viewing, and deleting them.

Transcripts are only written when you ask for it: /save or Ctrl+S during a chat,
or the --save flag of the chat and ask commands.`,
}

// transcriptsListCmd represents the transcripts list command
var transcriptsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved transcripts",
	Long:  `List saved transcripts sorted by most recently saved.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := transcriptStore()
		if err != nil {
			return err
		}
		records, err := store.List()
		if err != nil {
			return fmt.Errorf("listing transcripts: %w", err)
		}

		if len(records) == 0 {
			fmt.Println("No transcripts found.")
			fmt.Println("\nSave one with:")
			fmt.Println("  askc chat --save")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSAVED\tQUESTIONS\tMESSAGES\tNAME")
		fmt.Fprintln(w, "--\t-----\t---------\t--------\t----")
		for _, record := range records {
			name := record.Name
			if name == "" {
				name = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n",
				record.GetShortID(),
				record.SavedAt.Format("2006-01-02 15:04"),
				record.QuestionCount(),
				record.MessageCount(),
				name,
			)
		}
		w.Flush()

		fmt.Println("\nUse 'askc transcripts show <id>' to view a transcript.")
		return nil
	},
}

// transcriptsShowCmd represents the transcripts show command
var transcriptsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a saved transcript",
	Long: `Show a saved transcript with all of its messages.

The ID can be a short ID (minimum 4 characters), full UUID, or "latest" for the most recent transcript.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := transcriptStore()
		if err != nil {
			return err
		}
		record, err := store.Find(args[0])
		if err != nil {
			return fmt.Errorf("finding transcript: %w", err)
		}

		fmt.Printf("Transcript: %s\n", record.ID)
		if record.Name != "" {
			fmt.Printf("Name: %s\n", record.Name)
		}
		fmt.Printf("Endpoint: %s\n", record.Endpoint)
		fmt.Printf("Saved: %s\n", record.SavedAt.Format("2006-01-02 15:04:05"))
		fmt.Printf("Messages: %d\n", record.MessageCount())

		if len(record.Messages) == 0 {
			fmt.Println("\nNo messages in this transcript.")
			return nil
		}

		fmt.Println()
		for _, msg := range record.Messages {
			fmt.Printf("[%s] %s> %s\n", msg.CreatedAt.Format("15:04:05"), msg.Origin.Label(), msg.Text)
		}
		return nil
	},
}

// transcriptsDeleteCmd represents the transcripts delete command
var transcriptsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved transcript",
	Long: `Delete a saved transcript permanently.

The ID can be a short ID (minimum 4 characters), full UUID, or "latest" for the most recent transcript.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		store, err := transcriptStore()
		if err != nil {
			return err
		}
		record, err := store.Find(args[0])
		if err != nil {
			return fmt.Errorf("finding transcript: %w", err)
		}

		if !force && !confirm(fmt.Sprintf("Are you sure you want to delete transcript %s?", record.GetShortID())) {
			fmt.Println("Deletion cancelled.")
			return nil
		}

		if err := store.Delete(record.ID); err != nil {
			return fmt.Errorf("deleting transcript: %w", err)
		}
		fmt.Printf("Transcript %s deleted.\n", record.GetShortID())
		return nil
	},
}

// transcriptsRenameCmd represents the transcripts rename command
var transcriptsRenameCmd = &cobra.Command{
	Use:   "rename <id> <name>",
	Short: "Rename a saved transcript",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := transcriptStore()
		if err != nil {
			return err
		}
		record, err := store.Find(args[0])
		if err != nil {
			return fmt.Errorf("finding transcript: %w", err)
		}

		record.Name = args[1]
		if err := store.Save(record); err != nil {
			return fmt.Errorf("saving transcript: %w", err)
		}
		fmt.Printf("Transcript %s renamed to \"%s\".\n", record.GetShortID(), record.Name)
		return nil
	},
}

// transcriptsClearCmd represents the transcripts clear command
var transcriptsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete old transcripts",
	Long: `Delete saved transcripts permanently.

Use --before to delete transcripts saved before a date, or --all to delete every transcript.

Examples:
  askc transcripts clear --before 2025-01-01  # Saved before 2025-01-01
  askc transcripts clear --before 2025-06     # Saved before 2025-06-01
  askc transcripts clear --all                # Everything`,
	RunE: func(cmd *cobra.Command, args []string) error {
		beforeStr, _ := cmd.Flags().GetString("before")
		deleteAll, _ := cmd.Flags().GetBool("all")
		if beforeStr == "" && !deleteAll {
			return fmt.Errorf("either --before or --all is required")
		}

		store, err := transcriptStore()
		if err != nil {
			return err
		}
		records, err := store.List()
		if err != nil {
			return fmt.Errorf("listing transcripts: %w", err)
		}

		var targets []archive.Record
		prompt := fmt.Sprintf("Are you sure you want to delete all %d transcripts?", len(records))
		if deleteAll {
			targets = records
		} else {
			before, err := parseDate(beforeStr)
			if err != nil {
				return fmt.Errorf("parsing date: %w", err)
			}
			for _, record := range records {
				if record.SavedAt.Before(before) {
					targets = append(targets, record)
				}
			}
			prompt = fmt.Sprintf("Are you sure you want to delete %d transcripts saved before %s?",
				len(targets), before.Format("2006-01-02"))
		}

		if len(targets) == 0 {
			fmt.Println("No transcripts to delete.")
			return nil
		}
		if !confirm(prompt) {
			fmt.Println("Deletion cancelled.")
			return nil
		}

		deleted, failed := 0, 0
		for _, record := range targets {
			if err := store.Delete(record.ID); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to delete transcript %s: %v\n", record.GetShortID(), err)
				failed++
				continue
			}
			deleted++
		}

		fmt.Printf("Deleted %d transcripts", deleted)
		if failed > 0 {
			fmt.Printf(" (%d failed)", failed)
		}
		fmt.Println(".")
		return nil
	},
}

// parseDate parses YYYY-MM-DD, YYYY-MM or YYYY in local time
func parseDate(dateStr string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", "2006-01", "2006"} {
		if t, err := time.ParseInLocation(layout, dateStr, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date format: %s (use YYYY-MM-DD, YYYY-MM, or YYYY)", dateStr)
}

func init() {
	rootCmd.AddCommand(transcriptsCmd)
	transcriptsCmd.AddCommand(transcriptsListCmd)
	transcriptsCmd.AddCommand(transcriptsShowCmd)
	transcriptsCmd.AddCommand(transcriptsDeleteCmd)
	transcriptsCmd.AddCommand(transcriptsRenameCmd)
	transcriptsCmd.AddCommand(transcriptsClearCmd)

	transcriptsDeleteCmd.Flags().BoolP("force", "f", false, "Delete without confirmation")
	transcriptsClearCmd.Flags().String("before", "", "Delete transcripts saved before this date (YYYY-MM-DD, YYYY-MM, or YYYY)")
	transcriptsClearCmd.Flags().Bool("all", false, "Delete all transcripts")
}
