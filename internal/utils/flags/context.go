package flags

import (
	"github.com/spf13/cobra"

	"github.com/rsenna/gitopolis/internal/registry"
)

const (
	// TagFilterFlagName exposes the shared tag filter flag name.
	TagFilterFlagName = "tag"
	// TagFilterFlagShorthand provides the shorthand for the tag filter flag.
	TagFilterFlagShorthand = "t"
	// TagFilterFlagUsage describes the shared tag filter flag purpose.
	TagFilterFlagUsage = "Only include repos with this tag; comma-separated tags match any, repeated flags must all match"
	// DryRunFlagName exposes the shared dry-run flag name.
	DryRunFlagName = "dry-run"
	// DryRunFlagUsage describes the shared dry-run flag purpose.
	DryRunFlagUsage = "Preview operations without making changes"
	// LongFlagName exposes the shared long listing flag name.
	LongFlagName = "long"
	// LongFlagShorthand provides the shorthand for the long listing flag.
	LongFlagShorthand = "l"
	// LongFlagUsage describes the shared long listing flag purpose.
	LongFlagUsage = "Include tags and the primary remote URL"
)

// TagFilterFlagValues stores the raw tag filter flag occurrences.
type TagFilterFlagValues struct {
	Values []string
}

// Filter converts the flag occurrences into a registry tag filter.
func (values *TagFilterFlagValues) Filter() registry.TagFilter {
	if values == nil {
		return registry.TagFilter{}
	}
	return registry.ParseTagFilter(values.Values)
}

// BindTagFilterFlags attaches the repeatable tag filter flag to the provided command.
func BindTagFilterFlags(command *cobra.Command) *TagFilterFlagValues {
	values := &TagFilterFlagValues{}
	if command == nil {
		return values
	}
	command.Flags().StringArrayVarP(&values.Values, TagFilterFlagName, TagFilterFlagShorthand, nil, TagFilterFlagUsage)
	return values
}

// DryRunFlagValues stores the dry-run flag state.
type DryRunFlagValues struct {
	Enabled bool
}

// BindDryRunFlag attaches the dry-run flag to the provided command.
func BindDryRunFlag(command *cobra.Command) *DryRunFlagValues {
	values := &DryRunFlagValues{}
	if command == nil {
		return values
	}
	command.Flags().BoolVar(&values.Enabled, DryRunFlagName, false, DryRunFlagUsage)
	return values
}

// LongFlagValues stores the long listing flag state.
type LongFlagValues struct {
	Enabled bool
}

// BindLongFlag attaches the long listing flag to the provided command.
func BindLongFlag(command *cobra.Command) *LongFlagValues {
	values := &LongFlagValues{}
	if command == nil {
		return values
	}
	command.Flags().BoolVarP(&values.Enabled, LongFlagName, LongFlagShorthand, false, LongFlagUsage)
	return values
}
