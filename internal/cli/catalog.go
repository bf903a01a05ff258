package cli

import (
	"fmt"
	"net/http"
	"time"

	"github.com/sidereusnuntius/gonovel/internal/catalog"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog [source]",
	Short: "Check a catalog and list its novels",
	Long: `Fetches the catalog from the given file or URL, or from the configured source when none is given, checks
it and prints a summary of its novels.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		source := cfg.CatalogSource
		if len(args) == 1 {
			source = args[0]
		}

		c, err := catalog.New(source, &http.Client{Timeout: 30 * time.Second}).Fetch(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s: %d novels\n\n", source, len(c.Novels))
		for _, n := range c.Novels {
			premium := 0
			for _, ch := range n.Chapters {
				if ch.Premium {
					premium++
				}
			}
			fmt.Fprintf(out, "%s | %s by %s | %d chapters (%d premium)\n", n.ID, n.Title, n.Author, len(n.Chapters), premium)
		}
		return nil
	},
}
