package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"nextglide-backend/internal/sections"
)

func newSectionsCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sections",
		Short: "List and edit the dynamic sections of an offering",
	}
	cmd.AddCommand(
		newSectionsListCmd(opts),
		newSectionsAddCmd(opts),
		&cobra.Command{
			Use:   "remove <slug> <index>",
			Short: "Remove a section",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				idx, err := parseIndex("index", args[1])
				if err != nil {
					return err
				}
				return opts.edit(cmd, args[0], func(ed *sections.Editor) error {
					return ed.RemoveSection(idx)
				})
			},
		},
		&cobra.Command{
			Use:   "toggle <slug> <index>",
			Short: "Show a hidden section or hide a visible one",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				idx, err := parseIndex("index", args[1])
				if err != nil {
					return err
				}
				return opts.edit(cmd, args[0], func(ed *sections.Editor) error {
					return ed.ToggleVisibility(idx)
				})
			},
		},
		&cobra.Command{
			Use:   "title <slug> <index> <title>",
			Short: "Rename a section",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				idx, err := parseIndex("index", args[1])
				if err != nil {
					return err
				}
				return opts.edit(cmd, args[0], func(ed *sections.Editor) error {
					return ed.SetTitle(idx, args[2])
				})
			},
		},
		&cobra.Command{
			Use:   "layout <slug> <index> <full-width|grid-2|checklist|cards>",
			Short: "Change a section layout",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				idx, err := parseIndex("index", args[1])
				if err != nil {
					return err
				}
				return opts.edit(cmd, args[0], func(ed *sections.Editor) error {
					return ed.SetLayout(idx, sections.Layout(args[2]))
				})
			},
		},
	)
	return cmd
}

func newSectionsListCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list <slug>",
		Short: "Print the sections of an offering",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			s, err := opts.connect(ctx, false)
			if err != nil {
				return err
			}
			item, err := s.client.GetOffering(ctx, s.kind, args[0])
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "#\tTITLE\tLAYOUT\tVISIBLE\tFIELDS")
			for i, sec := range item.DynamicSections {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%t\t%d\n", i, sec.Title, sec.LayoutType, sec.Visible(), len(sec.Fields))
				for j, f := range sec.Fields {
					fmt.Fprintf(tw, "  %d.%d\t%s\t%s\t\t%s\n", i, j, f.Label, f.FieldType, describeValue(f.Value))
				}
			}
			return tw.Flush()
		},
	}
}

func newSectionsAddCmd(opts *globalOptions) *cobra.Command {
	var title, layout string
	cmd := &cobra.Command{
		Use:   "add <slug>",
		Short: "Append a section",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.edit(cmd, args[0], func(ed *sections.Editor) error {
				idx := ed.AddSection()
				if err := ed.SetTitle(idx, title); err != nil {
					return err
				}
				return ed.SetLayout(idx, sections.Layout(layout))
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "section title")
	cmd.Flags().StringVar(&layout, "layout", string(sections.LayoutFullWidth), "section layout")
	return cmd
}

func describeValue(v sections.Value) string {
	switch v.Kind() {
	case sections.KindList:
		return fmt.Sprintf("%q", v.Items())
	case sections.KindBool:
		return fmt.Sprintf("%t", v.Bool())
	default:
		return fmt.Sprintf("%q", v.Text())
	}
}
