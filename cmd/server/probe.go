package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-dialogue/internal/llm"
	"github.com/KirkDiggler/rpg-dialogue/internal/pkg/clock"
)

var probeTimeout time.Duration

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Check which generation backends are reachable",
	RunE:  runProbe,
}

func init() {
	probeCmd.Flags().DurationVar(&probeTimeout, "timeout", 10*time.Second, "overall probe timeout")
}

func runProbe(cmd *cobra.Command, args []string) error {
	r, err := newRouter(cfg, clock.New())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), probeTimeout)
	defer cancel()
	r.RefreshAvailability(ctx)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "BACKEND\tPRIORITY\tMODEL\tSTATE\tERROR")

	available := 0
	for _, st := range r.Status(ctx) {
		if st.State == llm.StateAvailable {
			available++
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n", st.Name, st.Priority, st.Model, st.State, st.LastError)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\n%d available, preferred: %s\n", available, orNone(r.Preferred()))
	return nil
}
