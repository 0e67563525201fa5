package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dxforge/dxmachine/pkg/store"
)

// putCmd represents the put command
var putCmd = &cobra.Command{
	Use:   "put <file>",
	Short: "Store a file as a compressed record",
	Long: `Store a file's contents in the local record store, compressed with
the configured codec. Prints the generated record id.

Example:
  dx put record.bin`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		id, err := s.Put(data)
		if err != nil {
			return fmt.Errorf("failed to store record: %w", err)
		}
		fmt.Printf("Stored %s (%d bytes) as %s\n", args[0], len(data), id)
		return nil
	},
}

func openStore() (*store.RecordStore, error) {
	c, err := codec()
	if err != nil {
		return nil, err
	}
	s, err := store.Open(cfg.DataDir, c)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return s, nil
}

func init() {
	rootCmd.AddCommand(putCmd)
}
