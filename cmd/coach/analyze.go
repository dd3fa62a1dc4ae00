package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/coach/internal/coach"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	var (
		text  string
		files []string
		opts  coach.AnalyzeOptions
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Score a text on the five communication dimensions",
		Long: `Score a text on clarity, vocal control, presence, persuasion and
boundary setting. Pass --record to keep the sample and --track to feed the
scores into the progression state.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			texts, err := collectTexts(cmd, text, files)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			svc, closeAll, err := a.openService(ctx)
			if err != nil {
				return err
			}
			defer closeAll()

			out, err := svc.AnalyzeBatch(ctx, texts, opts)
			if err != nil {
				return err
			}
			if len(out) == 1 {
				return render(cmd.OutOrStdout(), a.output, out[0])
			}
			return render(cmd.OutOrStdout(), a.output, out)
		},
	}

	f := cmd.Flags()
	f.StringVar(&text, "text", "", "text to analyze")
	f.StringSliceVar(&files, "file", nil, "file whose contents to analyze (repeatable)")
	f.StringVar(&opts.Modality, "modality", "email-formal", "email-formal, email-casual, slack, sms, presentation or conversation")
	f.BoolVarP(&opts.Verbose, "verbose", "v", false, "include diagnostic counts")
	f.BoolVar(&opts.Record, "record", false, "store the text and its scores as a sample")
	f.BoolVar(&opts.Track, "track", false, "apply the scores to the progression state")
	return cmd
}

func collectTexts(cmd *cobra.Command, text string, files []string) ([]string, error) {
	var texts []string
	if cmd.Flags().Changed("text") {
		texts = append(texts, text)
	}
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		texts = append(texts, string(data))
	}
	if len(texts) == 0 {
		return nil, invalidArgs("analyze requires --text or --file")
	}
	return texts, nil
}
