package cmd

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dxforge/dxmachine/pkg/compress"
)

var compressOutput string

// compressCmd represents the compress command
var compressCmd = &cobra.Command{
	Use:   "compress <file>",
	Short: "Compress a file chunk by chunk",
	Long: `Compress a file into a sequence of independently compressed chunks.

Each chunk is written as a length-prefixed frame:

  [frame length u32 LE][original size u32 LE][compressed bytes]

Example:
  dx compress data.bin -o data.dxz`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := codec()
		if err != nil {
			return err
		}

		in, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open input: %w", err)
		}
		defer in.Close()

		output := compressOutput
		if output == "" {
			output = args[0] + ".dxz"
		}

		sc := compress.NewStreamCompressor(c, cfg.ChunkSize())
		size, err := io.Copy(sc, in)
		if err != nil {
			return fmt.Errorf("failed to compress: %w", err)
		}
		chunks, err := sc.Finish()
		if err != nil {
			return fmt.Errorf("failed to compress: %w", err)
		}

		out, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}
		defer out.Close()

		w := bufio.NewWriter(out)
		total := 0
		for _, chunk := range chunks {
			frame := chunk.ToWire()
			var prefix [4]byte
			binary.LittleEndian.PutUint32(prefix[:], uint32(len(frame)))
			if _, err := w.Write(prefix[:]); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			if _, err := w.Write(frame); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			total += 4 + len(frame)
		}
		if err := w.Flush(); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}

		ratio := 1.0
		if size > 0 {
			ratio = float64(total) / float64(size)
		}
		fmt.Printf("Compressed %s (%d bytes) to %s (%d bytes, %d chunks, ratio %.3f)\n",
			args[0], size, output, total, len(chunks), ratio)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(compressCmd)
	compressCmd.Flags().StringVarP(&compressOutput, "output", "o", "", "Output file (default <input>.dxz)")
}
