package main

import (
	"github.com/spf13/cobra"
)

func newStateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Inspect and update the training state",
	}
	cmd.AddCommand(
		newStateLoadCmd(a),
		newStateUpdateCmd(a),
		newStateWeakestCmd(a),
		newStateArchiveCmd(a),
		newStateHistoryCmd(a),
		newStateResetCmd(a),
	)
	return cmd
}

func newStateLoadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "load",
		Short: "Print the full training document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, closeAll, err := a.openService(ctx)
			if err != nil {
				return err
			}
			defer closeAll()

			st, err := svc.State(ctx)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), a.output, st)
		},
	}
}

func newStateUpdateCmd(a *app) *cobra.Command {
	var (
		dimension string
		score     float64
		modality  string
	)

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Record a new score for one dimension",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if dimension == "" || !cmd.Flags().Changed("score") {
				return invalidArgs("update requires --dimension and --score")
			}

			ctx := cmd.Context()
			svc, closeAll, err := a.openService(ctx)
			if err != nil {
				return err
			}
			defer closeAll()

			report, err := svc.Update(ctx, dimension, score, modality)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), a.output, report)
		},
	}

	f := cmd.Flags()
	f.StringVar(&dimension, "dimension", "", "clarity, vocal_control, presence, persuasion or boundary_setting")
	f.Float64Var(&score, "score", 0, "new score (0-10)")
	f.StringVar(&modality, "modality", "email-formal", "modality the score came from")
	return cmd
}

func newStateWeakestCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "weakest",
		Short: "Print the lowest-scoring dimension with a baseline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, closeAll, err := a.openService(ctx)
			if err != nil {
				return err
			}
			defer closeAll()

			w, err := svc.Weakest(ctx)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), a.output, w)
		},
	}
}

func newStateArchiveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "archive",
		Short: "Append a snapshot of the state to this month's history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, closeAll, err := a.openService(ctx)
			if err != nil {
				return err
			}
			defer closeAll()

			entry, err := svc.Archive(ctx)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), a.output, map[string]any{
				"message":     "State archived to history",
				"month":       entry.Month,
				"archived_at": entry.ArchivedAt,
			})
		},
	}
}

func newStateHistoryCmd(a *app) *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List the snapshots archived in a month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, closeAll, err := a.openService(ctx)
			if err != nil {
				return err
			}
			defer closeAll()

			entries, err := svc.History(ctx, month)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), a.output, entries)
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "month as YYYY-MM (default: current month)")
	return cmd
}

func newStateResetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete the live training document (history is kept)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, closeAll, err := a.openService(ctx)
			if err != nil {
				return err
			}
			defer closeAll()

			if err := svc.Reset(ctx); err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), a.output, map[string]string{"message": "State reset"})
		},
	}
}
