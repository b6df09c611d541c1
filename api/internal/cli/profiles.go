package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func (a *app) profilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List feedback profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := a.setup()
			if err != nil {
				return err
			}
			svc := a.service(log.WithContext(cmd.Context()), cfg)
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tMODEL\tPRONUNCIATION\tDEFAULT")
			for _, name := range svc.ProfileNames() {
				p, _ := svc.Profile(name)
				def := ""
				if name == svc.DefaultProfile() {
					def = "*"
				}
				fmt.Fprintf(tw, "%s\t%s\t%v\t%s\n", p.Name, p.Model, p.PronunciationErrors, def)
			}
			return tw.Flush()
		},
	}
}
