package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/wael7705/khawam-pro-sub000/schema"
)

func stepsCmd() *cobra.Command {
	var (
		name   string
		family string
	)
	cmd := &cobra.Command{
		Use:   "steps <service-id>",
		Short: "Resolve the wizard steps of a service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := schema.Service{ID: args[0], Name: name, Family: family}
			res, err := eng.Steps(cmd.Context(), svc)
			if err != nil {
				return err
			}

			fmt.Printf("service: %s\norigin:  %s\n", svc.Key(), res.Origin)
			if res.Family != "" {
				fmt.Printf("family:  %s\n", res.Family)
			}
			if res.Err != nil {
				fmt.Printf("reason:  %v\n", res.Err)
			}

			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "#\tTYPE\tNAME\tCONFIG")
			for _, s := range res.Steps {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%v\n", s.Number, s.Type, s.Name, map[string]any(s.Config))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "service display name (used for family matching)")
	cmd.Flags().StringVar(&family, "family", "", "pin the service family")
	return cmd
}
