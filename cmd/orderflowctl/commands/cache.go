package commands

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	orderflow "github.com/wael7705/khawam-pro-sub000"
	"github.com/wael7705/khawam-pro-sub000/resume"
)

func cacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and maintain the wizard resume cache",
	}
	cmd.AddCommand(cacheShowCmd(), cacheListCmd(), cacheSweepCmd(), cachePurgeCmd(), cacheSignalCmd())
	return cmd
}

// entryView is the printed form of a snapshot.
type entryView struct {
	Service   string        `yaml:"service"`
	Snapshot  string        `yaml:"snapshot_id"`
	Step      int           `yaml:"step"`
	SavedAt   time.Time     `yaml:"saved_at"`
	Age       string        `yaml:"age"`
	Expired   bool          `yaml:"expired"`
	Quantity  int           `yaml:"quantity"`
	Colors    []string      `yaml:"colors,omitempty"`
	Customer  string        `yaml:"customer,omitempty"`
	Delivery  string        `yaml:"delivery"`
	FileHints []fileHintRow `yaml:"file_hints,omitempty"`
}

type fileHintRow struct {
	Name string `yaml:"name"`
	Size int64  `yaml:"size"`
}

func cacheShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <service>",
		Short: "Print the cached snapshot of a service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := eng.Resume()
			e, err := m.Peek(cmd.Context(), args[0])
			if errors.Is(err, orderflow.ErrEntryNotFound) {
				fmt.Printf("no snapshot for %q\n", args[0])
				return nil
			}
			if err != nil {
				return err
			}

			now := time.Now()
			v := entryView{
				Service:  e.ServiceName,
				Snapshot: e.ID.String(),
				Step:     e.Step,
				SavedAt:  e.Timestamp,
				Age:      now.Sub(e.Timestamp).Truncate(time.Second).String(),
				Expired:  e.Expired(now, m.TTL()),
				Quantity: e.Fields.Quantity,
				Colors:   e.Fields.Colors,
				Customer: e.Fields.Customer.Name,
				Delivery: string(e.Fields.Delivery.Type),
			}
			for _, h := range e.Fields.FileHints {
				v.FileHints = append(v.FileHints, fileHintRow{Name: h.Name, Size: h.Size})
			}

			enc := yaml.NewEncoder(os.Stdout)
			enc.SetIndent(2)
			if err := enc.Encode(v); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}

func cacheListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List services with a cached snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			keys, err := kv.Keys(cmd.Context(), resume.EntryKeyPrefix)
			if err != nil {
				return err
			}
			for _, k := range keys {
				fmt.Println(k[len(resume.EntryKeyPrefix):])
			}
			return nil
		},
	}
}

func cacheSweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Remove every expired or unreadable snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			n, err := eng.Foreground(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("removed %d snapshot(s)\n", n)
			return nil
		},
	}
}

func cachePurgeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "purge <service>",
		Short: "Remove the snapshot of a service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := eng.Resume().Purge(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("purged %q\n", args[0])
			return nil
		},
	}
}

func cacheSignalCmd() *cobra.Command {
	var reset bool
	cmd := &cobra.Command{
		Use:   "signal",
		Short: "Show or clear the pending reopen signal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m := eng.Resume()
			if reset {
				return m.ClearSignal(cmd.Context())
			}
			sig, err := m.ReadSignal(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("reopen:  %t\nservice: %s\n", sig.Reopen, sig.Service)
			return nil
		},
	}
	cmd.Flags().BoolVar(&reset, "clear", false, "remove the signal")
	return cmd
}
