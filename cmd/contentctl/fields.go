package main

import (
	"github.com/spf13/cobra"

	"nextglide-backend/internal/sections"
)

type fieldFlags struct {
	label     string
	fieldType string
	value     string
}

func (f *fieldFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.label, "label", "", "field label")
	cmd.Flags().StringVar(&f.fieldType, "type", "", "field type: text, textarea, array or boolean")
	cmd.Flags().StringVar(&f.value, "value", "", "value; arrays split on commas and newlines, booleans accept true/yes")
}

// apply sets the flags the user passed. A raw value is stored as text and
// then coerced to the field's final type.
func (f *fieldFlags) apply(cmd *cobra.Command, ed *sections.Editor, si, fi int) error {
	var patch sections.FieldPatch
	if cmd.Flags().Changed("label") {
		patch.Label = &f.label
	}
	if cmd.Flags().Changed("value") {
		v := sections.StringValue(f.value)
		patch.Value = &v
	}
	if err := ed.UpdateField(si, fi, patch); err != nil {
		return err
	}

	fieldType := ed.Sections()[si].Fields[fi].FieldType
	if cmd.Flags().Changed("type") {
		fieldType = sections.FieldType(f.fieldType)
	}
	if patch.Value == nil && !cmd.Flags().Changed("type") {
		return nil
	}
	return ed.UpdateField(si, fi, sections.FieldPatch{FieldType: &fieldType})
}

func newFieldsCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fields",
		Short: "Edit the fields of a section",
	}

	var addFlags fieldFlags
	add := &cobra.Command{
		Use:   "add <slug> <section>",
		Short: "Append a field to a section",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			si, err := parseIndex("section", args[1])
			if err != nil {
				return err
			}
			return opts.edit(cmd, args[0], func(ed *sections.Editor) error {
				fi, err := ed.AddField(si)
				if err != nil {
					return err
				}
				return addFlags.apply(cmd, ed, si, fi)
			})
		},
	}
	addFlags.bind(add)

	var setFlags fieldFlags
	set := &cobra.Command{
		Use:   "set <slug> <section> <field>",
		Short: "Change the label, type or value of a field",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			si, err := parseIndex("section", args[1])
			if err != nil {
				return err
			}
			fi, err := parseIndex("field", args[2])
			if err != nil {
				return err
			}
			return opts.edit(cmd, args[0], func(ed *sections.Editor) error {
				return setFlags.apply(cmd, ed, si, fi)
			})
		},
	}
	setFlags.bind(set)

	remove := &cobra.Command{
		Use:   "remove <slug> <section> <field>",
		Short: "Remove a field",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			si, err := parseIndex("section", args[1])
			if err != nil {
				return err
			}
			fi, err := parseIndex("field", args[2])
			if err != nil {
				return err
			}
			return opts.edit(cmd, args[0], func(ed *sections.Editor) error {
				return ed.RemoveField(si, fi)
			})
		},
	}

	cmd.AddCommand(add, set, remove)
	return cmd
}
