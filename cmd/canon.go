package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eykd/sldview/internal/canon"
	"github.com/eykd/sldview/internal/sld"
)

// NewCanonCmd creates the canon subcommand.
func NewCanonCmd(io FileReader) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "canon <file.json>",
		Short:        "Print the canonical form of a JSON document",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, _ := cmd.Flags().GetBool("hash")

			data, err := io.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}
			// Numbers stay as json.Number so integers keep their exact digits.
			dec := json.NewDecoder(bytes.NewReader(data))
			dec.UseNumber()
			var v any
			if err := dec.Decode(&v); err != nil {
				return fmt.Errorf("decoding %s: %w", args[0], err)
			}

			if hash {
				fmt.Fprintln(cmd.OutOrStdout(), canon.Hash(v))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), canon.Serialize(v))
			return nil
		},
	}

	cmd.Flags().Bool("hash", false, "print the SHA-256 digest of the canonical form instead")

	return cmd
}

// NewFingerprintCmd creates the fingerprint subcommand.
func NewFingerprintCmd(io FileReader) *cobra.Command {
	return &cobra.Command{
		Use:          "fingerprint <geometry.json>",
		Short:        "Print the layout fingerprint of an automatic layout",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGeometry(io, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), sld.Fingerprint(g))
			return nil
		},
	}
}
