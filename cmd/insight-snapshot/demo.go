package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theimaginaryfoundation/insight-snapshot/insight"
	"github.com/theimaginaryfoundation/insight-snapshot/insight/fileutils"
)

func newDemoCmd(a *app) *cobra.Command {
	var out outputOptions

	cmd := &cobra.Command{
		Use:   "demo [Conflict|Decision|Pressure]",
		Short: "Print a bundled demo snapshot (no API key required)",
		Long:  "Without an argument, lists the demo keys.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if len(args) == 0 {
				for _, key := range insight.DemoKeys() {
					r, _ := insight.Demo(key)
					fmt.Fprintf(w, "%-9s %-34s %s\n", key, r.Signal, fileutils.Truncate(r.Summary, 60))
				}
				return nil
			}
			if err := out.validate(); err != nil {
				return err
			}

			session := insight.NewSession(nil, insight.WithLogger(a.logger.Named("session")))
			session.SelectDemo(args[0])
			snap := session.Snapshot()
			if snap.State != insight.StateSuccess || snap.Result == nil {
				return usagef("unknown demo %q (choose one of %s)", args[0], strings.Join(insight.DemoKeys(), ", "))
			}
			return writeSnapshot(w, *snap.Result, out, a.cfg.WordWrap)
		},
	}
	bindOutputFlags(cmd, &out)
	return cmd
}
