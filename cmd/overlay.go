package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/eykd/sldview/internal/overlay"
)

// NewOverlayCmd creates the overlay command group.
func NewOverlayCmd(io FileReader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "overlay",
		Short: "Build and resolve analysis overlays",
		Args:  cobra.NoArgs,
	}
	cmd.AddCommand(newOverlayAdaptCmd(io))
	cmd.AddCommand(newOverlayResolveCmd(io))
	return cmd
}

func viewNames() string {
	names := make([]string, 0, len(overlay.Views()))
	for _, v := range overlay.Views() {
		names = append(names, string(v))
	}
	return strings.Join(names, ", ")
}

func newOverlayAdaptCmd(io FileReader) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "adapt <result.json>",
		Short:        "Convert an analysis result into an overlay payload",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := envFrom(cmd).log
			view, _ := cmd.Flags().GetString("view")
			interpPath, _ := cmd.Flags().GetString("interpretation")

			var result overlay.AnalysisResult
			if err := readJSON(io, args[0], &result); err != nil {
				return err
			}

			var interp *overlay.Interpretation
			if interpPath != "" {
				interp = &overlay.Interpretation{}
				if err := readJSON(io, interpPath, interp); err != nil {
					return err
				}
			}

			payload, err := overlay.Adapt(overlay.View(view), result, interp)
			if err != nil {
				return err
			}
			log.Info("overlay adapted",
				"view", view,
				"run_id", payload.RunID,
				"elements", len(payload.Elements),
			)
			return writeJSON(cmd, payload)
		},
	}

	cmd.Flags().String("view", string(overlay.ViewNodalVoltage), "overlay view: "+viewNames())
	cmd.Flags().String("interpretation", "", "findings file produced by the analysis backend")

	return cmd
}

func newOverlayResolveCmd(io FileReader) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "resolve <payload.json> <symbols.json>",
		Short:        "Resolve an overlay payload against the rendered diagram symbols",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := envFrom(cmd).log
			withSummary, _ := cmd.Flags().GetBool("summary")

			var payload overlay.Payload
			if err := readJSON(io, args[0], &payload); err != nil {
				return err
			}
			var symbols []overlay.DiagramSymbol
			if err := readJSON(io, args[1], &symbols); err != nil {
				return err
			}

			for _, issue := range overlay.CheckPayload(payload) {
				log.Warn("payload violates producer contract",
					"code", string(issue.Code),
					"element_ref", sanitize(issue.ElementRef),
					"index", issue.Index,
				)
			}

			styles := overlay.Resolve(symbols, payload)
			summary := overlay.Summarize(styles)
			log.Info("overlay resolved",
				"run_id", payload.RunID,
				"symbols", len(symbols),
				"elements", len(payload.Elements),
				"matched", summary.Total,
				"dropped", len(payload.Elements)-summary.Total,
			)

			if withSummary {
				return writeJSON(cmd, resolveOutput{RunID: payload.RunID, Styles: styles, Summary: summary})
			}
			return writeJSON(cmd, styles)
		},
	}

	cmd.Flags().Bool("summary", false, "wrap the style map with run id and per-state counts")

	return cmd
}

// resolveOutput is the --summary output of overlay resolve.
type resolveOutput struct {
	RunID   string           `json:"runId"`
	Styles  overlay.StyleMap `json:"styles"`
	Summary overlay.Summary  `json:"summary"`
}
