/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dxforge/dxmachine/pkg/compress"
	"github.com/dxforge/dxmachine/pkg/config"
)

var (
	cfgFile string
	cfg     *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dx",
	Short: "dx - binary record toolkit",
	Long: `dx works with the dxmachine binary record format: compress and
decompress files chunk by chunk, inspect record buffers, and keep
compressed records in a local store.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			path = config.GetDefaultConfigPath()
		}
		if config.ConfigExists(path) {
			loaded, err := config.LoadConfig(path)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			cfg = loaded
		} else {
			cfg = config.DefaultConfig()
		}
		if name, _ := cmd.Flags().GetString("codec"); name != "" {
			cfg.Codec = name
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file path (default ~/.config/dx/config.yaml)")
	rootCmd.PersistentFlags().String("codec", "", fmt.Sprintf("Compression codec %v (default from config)", compress.Names()))
}

func codec() (compress.Codec, error) {
	return compress.ByName(cfg.Codec)
}
