package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"promoadmin/internal/pg"
	"promoadmin/internal/presentation"
	"promoadmin/internal/promotion"
)

type rootFlags struct {
	metaDir   string
	overrides string
	jsonOut   bool
}

func newRootCmd() *cobra.Command {
	f := &rootFlags{}
	root := &cobra.Command{
		Use:           "promoctl",
		Short:         "Inspect collection metadata and the offer customer schema",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&f.metaDir, "meta", "meta", "directory with collection declarations")
	root.PersistentFlags().StringVar(&f.overrides, "overrides", "meta/overrides.yaml", "overrides file keyed by configurationKey")
	root.PersistentFlags().BoolVar(&f.jsonOut, "json", false, "print JSON")

	root.AddCommand(newDescribeCmd(f), newLintCmd(f), newDDLCmd())
	return root
}

func newDescribeCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "describe [entity]",
		Short: "Print resolved collection descriptors",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := presentation.Load(f.metaDir, f.overrides)
			if err != nil {
				return err
			}
			var ds []presentation.CollectionDescriptor
			if len(args) == 1 {
				ds = reg.ForEntity(args[0])
			} else {
				ds = reg.All()
			}
			out := cmd.OutOrStdout()
			if f.jsonOut {
				return writeJSON(out, ds)
			}
			return printDescriptors(out, ds)
		},
	}
}

func printDescriptors(w io.Writer, ds []presentation.CollectionDescriptor) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ENTITY\tFIELD\tLABEL\tORDER\tADD\tDATASOURCE\tSECURITY\tFLAGS")
	for _, d := range ds {
		flags := ""
		if d.Metadata.Excluded {
			flags += "excluded "
		}
		if !d.Metadata.Mutable {
			flags += "readonly"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\t%s\t%s\n",
			d.Entity, d.Field, d.FriendlyName, d.Metadata.Order, d.Metadata.AddType,
			d.DataSource, d.Metadata.SecurityLevel, flags)
	}
	return tw.Flush()
}

func newLintCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "lint",
		Short: "Report questionable collection declarations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := presentation.Load(f.metaDir, f.overrides)
			if err != nil {
				return err
			}
			issues := reg.Lint()
			out := cmd.OutOrStdout()
			if f.jsonOut {
				return writeJSON(out, issues)
			}
			for _, it := range issues {
				fmt.Fprintf(out, "%s.%s: [%s] %s\n", it.Entity, it.Field, it.Code, it.Message)
			}
			if len(issues) == 0 {
				fmt.Fprintln(out, "no issues")
			}
			return nil
		},
	}
}

func newDDLCmd() *cobra.Command {
	var (
		unique   bool
		fks      bool
		onDelete string
	)
	cmd := &cobra.Command{
		Use:   "ddl",
		Short: "Print DDL for OFFER_CUSTOMER",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ddl, err := pg.GenerateDDL([]promotion.Mapping{promotion.OfferCustomerMapping}, pg.DDLOptions{
				UniquePairs: unique,
				ForeignKeys: fks,
				OnDelete:    pg.ParseOnDelete(onDelete),
			})
			if err != nil {
				return err
			}
			keys := make([]string, 0, len(ddl))
			for k := range ddl {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			out := cmd.OutOrStdout()
			for _, k := range keys {
				fmt.Fprintf(out, "-- %s\n%s\n", k, ddl[k])
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&unique, "unique-links", false, "add unique index on (offer, customer)")
	cmd.Flags().BoolVar(&fks, "foreign-keys", false, "add foreign keys to OFFER_CODE and CUSTOMER")
	cmd.Flags().StringVar(&onDelete, "on-delete", "restrict", "restrict|set_null|cascade")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
