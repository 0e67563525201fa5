package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dxforge/dxmachine/pkg/quantum"
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Inspect a record buffer or compressed container",
	Long: `Inspect a file: a serialized record buffer gets its header decoded
and validated; a dx compress container gets a per-chunk summary.

Example:
  dx inspect record.bin
  dx inspect data.dxz`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		hdr, err := quantum.ParseHeader(data)
		if err == nil {
			err = hdr.Validate()
		}
		if errors.Is(err, quantum.ErrBadMagic) {
			return inspectContainer(args[0], data)
		}
		if err != nil {
			return fmt.Errorf("not a record buffer: %w", err)
		}

		byteOrder := "big-endian"
		if hdr.LittleEndian() {
			byteOrder = "little-endian"
		}
		fmt.Printf("File:       %s\n", args[0])
		fmt.Printf("Type:       record buffer\n")
		fmt.Printf("Magic:      0x%04X\n", hdr.Magic)
		fmt.Printf("Version:    %d\n", hdr.Version)
		fmt.Printf("Flags:      0x%02X (%s)\n", hdr.Flags, byteOrder)
		fmt.Printf("Total size: %d bytes (%d after header)\n", len(data), len(data)-quantum.HeaderSize)
		return nil
	},
}

func inspectContainer(path string, data []byte) error {
	c, err := codec()
	if err != nil {
		return err
	}
	chunks, err := readChunks(bytes.NewReader(data), c)
	if err != nil || len(chunks) == 0 {
		return fmt.Errorf("not a record buffer or chunk container: %s", path)
	}

	var original, compressed int
	for _, chunk := range chunks {
		original += chunk.OriginalSize()
		compressed += chunk.CompressedSize()
	}
	ratio := 1.0
	if original > 0 {
		ratio = float64(compressed) / float64(original)
	}
	fmt.Printf("File:            %s\n", path)
	fmt.Printf("Type:            chunk container\n")
	fmt.Printf("Chunks:          %d\n", len(chunks))
	fmt.Printf("Original size:   %d bytes\n", original)
	fmt.Printf("Compressed size: %d bytes (ratio %.3f)\n", compressed, ratio)
	for i, chunk := range chunks {
		fmt.Printf("  chunk %3d: %d -> %d bytes\n", i, chunk.OriginalSize(), chunk.CompressedSize())
	}
	return nil
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
