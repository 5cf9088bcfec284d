package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eykd/sldview/internal/sld"
	"github.com/eykd/sldview/internal/sld/overrides"
)

// NewOverridesCmd creates the overrides command group.
func NewOverridesCmd(io FileIO) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "overrides",
		Short: "Create, check and apply manual layout overrides",
		Args:  cobra.NoArgs,
	}
	cmd.AddCommand(newOverridesInitCmd(io))
	cmd.AddCommand(newOverridesCheckCmd(io))
	cmd.AddCommand(newOverridesApplyCmd(io))
	cmd.AddCommand(newOverridesRebaseCmd(io))
	return cmd
}

// loadOverrides reads and decodes an override document.
func loadOverrides(io FileReader, path string) (overrides.Document, error) {
	data, err := io.ReadFile(path)
	if err != nil {
		return overrides.Document{}, fmt.Errorf("reading %s: %w", path, err)
	}
	doc, err := overrides.Decode(data)
	if err != nil {
		return overrides.Document{}, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// loadGeometry reads an automatic layout.
func loadGeometry(io FileReader, path string) (sld.Geometry, error) {
	var g sld.Geometry
	if err := readJSON(io, path, &g); err != nil {
		return sld.Geometry{}, err
	}
	return g, nil
}

func newOverridesInitCmd(io FileIO) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:          "init <geometry.json> <overrides.json>",
		Short:        "Create an empty override document for the given automatic layout",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e := envFrom(cmd)
			geomPath, outPath := args[0], args[1]

			mode, _ := cmd.Flags().GetString("mode")
			if mode == "" {
				mode = e.cfg.Overrides.DefaultMode
			}
			if !isMode(overrides.Mode(mode)) {
				return fmt.Errorf("unknown mode %q (want automatic, manual or hybrid)", mode)
			}

			g, err := loadGeometry(io, geomPath)
			if err != nil {
				return err
			}

			exists, err := io.StatFile(outPath)
			if err != nil {
				return fmt.Errorf("checking %s: %w", outPath, err)
			}
			if exists && !force {
				return fmt.Errorf("%s already exists; use --force to overwrite", outPath)
			}

			fp := sld.Fingerprint(g)
			doc := overrides.New(overrides.Mode(mode), fp, overrides.NowUTC())
			if err := io.WriteFileAtomic(outPath, append(overrides.Encode(doc), '\n')); err != nil {
				return fmt.Errorf("writing %s: %w", outPath, err)
			}
			if exists {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning: overwriting existing "+sanitize(outPath))
			}
			e.log.Info("overrides created", "path", outPath, "mode", mode, "fingerprint", fp)
			fmt.Fprintln(cmd.OutOrStdout(), fp)
			return nil
		},
	}

	cmd.Flags().String("mode", "", "override mode: automatic, manual, hybrid (default from config)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing override document")

	return cmd
}

func isMode(m overrides.Mode) bool {
	for _, known := range overrides.Modes() {
		if m == known {
			return true
		}
	}
	return false
}

// errOverridesConflict is returned when a document references missing
// entities or holds non-finite numbers.
var errOverridesConflict = errors.New("overrides conflict with the current layout")

// errOverridesStale is returned by apply when the document was authored
// against another layout and --allow-stale was not given.
var errOverridesStale = errors.New("overrides were authored against a different layout")

func newOverridesCheckCmd(io FileIO) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "check <overrides.json> <geometry.json>",
		Short:        "Report whether an override document still fits the automatic layout",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := envFrom(cmd).log
			jsonMode, _ := cmd.Flags().GetBool("json")

			doc, err := loadOverrides(io, args[0])
			if err != nil {
				return err
			}
			g, err := loadGeometry(io, args[1])
			if err != nil {
				return err
			}

			report := overrides.Check(doc, g)
			log.Info("overrides checked", "status", string(report.Status), "issues", len(report.Issues))

			if jsonMode {
				if err := writeJSON(cmd, report); err != nil {
					return err
				}
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "status: %s\n", report.Status)
				printIssues(cmd.OutOrStdout(), report.Issues)
			}

			switch report.Status {
			case overrides.StatusConflict:
				return errOverridesConflict
			case overrides.StatusStale:
				fmt.Fprintln(cmd.ErrOrStderr(), "warning: "+errOverridesStale.Error()+"; run 'sldv overrides rebase' to reconcile")
			}
			return nil
		},
	}

	cmd.Flags().Bool("json", false, "output the status report as JSON")

	return cmd
}

func newOverridesApplyCmd(io FileIO) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "apply <overrides.json> <geometry.json>",
		Short:        "Merge an override document into the automatic layout",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := envFrom(cmd).log
			allowStale, _ := cmd.Flags().GetBool("allow-stale")

			doc, err := loadOverrides(io, args[0])
			if err != nil {
				return err
			}
			g, err := loadGeometry(io, args[1])
			if err != nil {
				return err
			}

			report := overrides.Check(doc, g)
			switch report.Status {
			case overrides.StatusConflict:
				printIssues(cmd.ErrOrStderr(), report.Issues)
				return errOverridesConflict
			case overrides.StatusStale:
				if !allowStale {
					return fmt.Errorf("%w; run 'sldv overrides rebase' or pass --allow-stale", errOverridesStale)
				}
				log.Warn("applying stale overrides", "stored", doc.BaseFingerprint)
			}

			effective := overrides.ApplyMode(g, &doc)
			log.Info("overrides applied",
				"mode", string(doc.Mode),
				"nodes", len(doc.Nodes),
				"edges", len(doc.Edges),
				"labels", len(doc.Labels),
			)
			return writeJSON(cmd, effective)
		},
	}

	cmd.Flags().Bool("allow-stale", false, "apply overrides authored against a different layout")

	return cmd
}

func newOverridesRebaseCmd(io FileIO) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "rebase <overrides.json> <geometry.json>",
		Short:        "Drop dangling overrides and adopt the current layout fingerprint",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := envFrom(cmd).log
			outPath, _ := cmd.Flags().GetString("out")
			if outPath == "" {
				outPath = args[0]
			}

			doc, err := loadOverrides(io, args[0])
			if err != nil {
				return err
			}
			g, err := loadGeometry(io, args[1])
			if err != nil {
				return err
			}

			fp := sld.Fingerprint(g)
			rebased, dropped := overrides.Rebase(doc, sld.IDsOf(g), fp, overrides.NowUTC())
			if err := io.WriteFileAtomic(outPath, append(overrides.Encode(rebased), '\n')); err != nil {
				return fmt.Errorf("writing %s: %w", outPath, err)
			}

			if len(dropped) > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "dropped %d override(s):\n", len(dropped))
				printIssues(cmd.ErrOrStderr(), dropped)
			}
			log.Info("overrides rebased", "path", outPath, "from", doc.BaseFingerprint, "to", fp, "dropped", len(dropped))
			fmt.Fprintln(cmd.OutOrStdout(), fp)
			return nil
		},
	}

	cmd.Flags().String("out", "", "write the rebased document here instead of in place")

	return cmd
}
