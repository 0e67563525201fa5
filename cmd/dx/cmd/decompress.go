package cmd

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dxforge/dxmachine/pkg/compress"
)

var decompressOutput string

// decompressCmd represents the decompress command
var decompressCmd = &cobra.Command{
	Use:   "decompress <file>",
	Short: "Decompress a chunked file",
	Long: `Decompress a file produced by dx compress, reading length-prefixed
chunk frames until end of file.

Example:
  dx decompress data.dxz -o data.bin`,
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

		chunks, err := readChunks(bufio.NewReader(in), c)
		if err != nil {
			return fmt.Errorf("failed to read chunks: %w", err)
		}

		output := decompressOutput
		if output == "" {
			output = strings.TrimSuffix(args[0], ".dxz")
			if output == args[0] {
				output = args[0] + ".out"
			}
		}
		out, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}
		defer out.Close()

		size, err := io.Copy(out, compress.NewStreamDecompressor(chunks))
		if err != nil {
			return fmt.Errorf("failed to decompress: %w", err)
		}

		fmt.Printf("Decompressed %s to %s (%d bytes, %d chunks)\n", args[0], output, size, len(chunks))
		return nil
	},
}

func readChunks(r io.Reader, c compress.Codec) ([]*compress.Compressed, error) {
	var chunks []*compress.Compressed
	var prefix [4]byte
	for {
		if _, err := io.ReadFull(r, prefix[:]); err != nil {
			if errors.Is(err, io.EOF) {
				return chunks, nil
			}
			return nil, err
		}
		frame := make([]byte, binary.LittleEndian.Uint32(prefix[:]))
		if _, err := io.ReadFull(r, frame); err != nil {
			return nil, err
		}
		chunk, err := compress.FromWire(c, frame)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, chunk)
	}
}

func init() {
	rootCmd.AddCommand(decompressCmd)
	decompressCmd.Flags().StringVarP(&decompressOutput, "output", "o", "", "Output file (default strips .dxz)")
}
