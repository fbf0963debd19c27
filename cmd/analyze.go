package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/competitor-cli/internal/model"
	"github.com/sells-group/competitor-cli/internal/pipeline"
	"github.com/sells-group/competitor-cli/internal/report"
)

var (
	analyzeURL         string
	analyzeDescription string
	analyzeOutDir      string
	analyzeFormat      string
	analyzeNoRender    bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Research the competitors of a company",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if analyzeFormat != formatJSON && analyzeFormat != formatYAML {
			return eris.Errorf("unknown format %q (want json or yaml)", analyzeFormat)
		}

		p, err := initPipeline(cfg)
		if err != nil {
			return err
		}

		styled := isStderrTTY()
		n := newTermNotifier(os.Stderr, styled)
		res, err := p.Run(ctx, model.Seed{URL: analyzeURL, Description: analyzeDescription}, n)
		if err != nil {
			return eris.Wrap(err, "analyze")
		}

		if res.State == pipeline.StateDone {
			printResult(res, isStdoutTTY() && !analyzeNoRender)
		}

		if analyzeOutDir != "" {
			paths, err := writeOutputs(analyzeOutDir, analyzeFormat, res)
			if err != nil {
				return err
			}
			for _, path := range paths {
				n.Info("Wrote " + path)
			}
		}

		zap.L().Info("analyze complete",
			zap.String("run_id", res.RunID),
			zap.String("state", string(res.State)),
			zap.Int("competitors", len(res.Records)),
			zap.Int("failures", len(res.Failures)),
			zap.Float64("cost_usd", res.Cost.Total),
		)
		return nil
	},
}

func printResult(res *pipeline.Result, render bool) {
	styled := isStdoutTTY()
	fmt.Println(heading("Competitor Comparison", styled))
	fmt.Println(res.Table.Markdown())
	fmt.Println(heading("Competitor Details", styled))
	fmt.Println(report.DetailsMarkdown(res.Details))
	fmt.Println(heading("Analysis Report", styled))
	if render {
		fmt.Print(renderMarkdown(res.Report.Text))
		return
	}
	fmt.Println(res.Report.Text)
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeURL, "url", "", "company website URL")
	analyzeCmd.Flags().StringVar(&analyzeDescription, "description", "", "short company description")
	analyzeCmd.Flags().StringVar(&analyzeOutDir, "out-dir", "", "directory for result, XLSX and markdown files")
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", formatJSON, "result file format: json or yaml")
	analyzeCmd.Flags().BoolVar(&analyzeNoRender, "no-analysis-render", false, "print the analysis report as raw markdown")
	rootCmd.AddCommand(analyzeCmd)
}
