// Package main is the command-line variant of the place-search exporter:
// it runs a text search, paginates up to the page cap, and appends each page
// to a CSV file on disk as it arrives.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/placeseek/places-export/pkg/csvexport"
	"github.com/placeseek/places-export/pkg/logging"
	"github.com/placeseek/places-export/pkg/places"
	"github.com/placeseek/places-export/pkg/session"
)

// version is set at build time via ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   `places-export "query"`,
	Short: "Search Google Places and export the results as CSV",
	Long: `places-export runs a text search against the Google Places API, follows
continuation tokens for up to three pages (60 results), and appends each page
to a CSV file. The filename is derived from the query unless --output is given.

The API key is read from the GOOGLE_API_KEY environment variable.

Example:
  places-export "HVAC contractor in Fuquay-Varina, North Carolina" --pages 3`,
	Version: version,
	Args:    cobra.ExactArgs(1),
	RunE:    runExport,
}

func init() {
	rootCmd.Flags().Int("pages", session.MaxPages, "maximum number of pages to fetch (1-3)")
	rootCmd.Flags().String("output", "", "output CSV file (default: derived from the query)")
	rootCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
}

func runExport(cmd *cobra.Command, args []string) error {
	query := args[0]
	pages, _ := cmd.Flags().GetInt("pages")
	output, _ := cmd.Flags().GetString("output")
	logLevel, _ := cmd.Flags().GetString("log-level")

	logger := logging.Setup(logging.Config{
		Level:  logging.LogLevel(logLevel),
		Pretty: true,
		Output: os.Stderr,
	})

	if pages < 1 || pages > session.MaxPages {
		return fmt.Errorf("--pages must be between 1 and %d", session.MaxPages)
	}

	apiKey := os.Getenv("GOOGLE_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("GOOGLE_API_KEY environment variable is required")
	}

	client, err := places.New(places.DefaultConfig(apiKey))
	if err != nil {
		return err
	}
	manager := session.NewManager(client, session.NewMemoryStore())

	ctx := cmd.Context()

	sess, err := manager.Start(ctx, query)
	if err != nil {
		if errors.Is(err, session.ErrNoResults) {
			fmt.Fprintln(os.Stderr, "No places found matching your search criteria")
			return nil
		}
		return err
	}

	if output == "" {
		output = sess.Filename
	}

	if err := csvexport.AppendFile(output, sess.Records); err != nil {
		return err
	}
	logger.Info().
		Str("filename", output).
		Int("records", len(sess.Records)).
		Msg("Saved first page")

	for sess.HasMore() && sess.PageCount < pages {
		logger.Info().Int("page", sess.PageCount+1).Msg("Fetching next page")

		var added []places.Record
		added, sess, err = manager.FetchNext(ctx, sess.ID)
		if err != nil {
			return err
		}
		if len(added) == 0 {
			logger.Info().Msg("No additional places found")
			break
		}

		if err := csvexport.AppendFile(output, added); err != nil {
			return err
		}
		logger.Info().
			Str("filename", output).
			Int("added", len(added)).
			Int("total", len(sess.Records)).
			Msg("Appended page")
	}

	if sess.PageCount >= session.MaxPages {
		logger.Info().Msg("Reached the upstream limit of 3 pages (60 results)")
	}

	fmt.Printf("Exported %d places to %s\n", len(sess.Records), output)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
