package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/vesselflow/ppe-engine/advisory"
	"github.com/vesselflow/ppe-engine/factory"
)

type adviseOptions struct {
	raw    bool
	dryRun bool
}

// AdviseCmd asks the AI Safety Advisor.
func AdviseCmd(opts *rootOptions) *cobra.Command {
	aopts := &adviseOptions{}

	cmd := &cobra.Command{
		Use:   "advise",
		Short: "Ask the AI Safety Advisor",
	}
	cmd.PersistentFlags().BoolVar(&aopts.raw, "raw", false, "print the answer without markdown rendering")
	cmd.PersistentFlags().BoolVar(&aopts.dryRun, "dry-run", false, "print the prompt instead of calling the model")

	cmd.AddCommand(&cobra.Command{
		Use:   "insights <query>",
		Short: "Analyze PPE history, spot trends, suggest compliance improvements",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			a, err := opts.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			history := a.records.Snapshot()
			if aopts.dryRun {
				fmt.Fprint(cmd.OutOrStdout(), advisory.BuildInsightsPrompt(history, query))
				return nil
			}

			gen, err := factory.NewGenerator(cmd.Context(), a.cfg.Advisor, a.logger)
			if err != nil {
				return err
			}
			client := advisory.NewClient(gen, advisory.WithLogger(a.logger.Named("advisory")))
			return printAnswer(cmd.OutOrStdout(), client.GetSafetyInsights(cmd.Context(), history, query), aopts.raw)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "task <description>",
		Short: "List the PPE a maritime task requires",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task := strings.Join(args, " ")
			if aopts.dryRun {
				fmt.Fprint(cmd.OutOrStdout(), advisory.BuildRequirementPrompt(task))
				return nil
			}

			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			logger, err := factory.NewLogger(cfg.Log)
			if err != nil {
				return err
			}
			defer logger.Sync()

			gen, err := factory.NewGenerator(cmd.Context(), cfg.Advisor, logger)
			if err != nil {
				return err
			}
			client := advisory.NewClient(gen, advisory.WithLogger(logger.Named("advisory")))
			return printAnswer(cmd.OutOrStdout(), client.PredictPPERequirement(cmd.Context(), task), aopts.raw)
		},
	})

	return cmd
}

// printAnswer renders markdown for the terminal unless raw is set. If the
// renderer fails the plain text is printed.
func printAnswer(w io.Writer, answer string, raw bool) error {
	if !raw {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(80),
		)
		if err == nil {
			if out, err := renderer.Render(answer); err == nil {
				_, err = fmt.Fprint(w, out)
				return err
			}
		}
	}
	_, err := fmt.Fprintln(w, answer)
	return err
}
