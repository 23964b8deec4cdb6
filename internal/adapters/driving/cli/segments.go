package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var segmentsFind string

var segmentsCmd = &cobra.Command{
	Use:   "segments <file>",
	Short: "Print the segments of an interchange",
	Long: `Detects the dialect of a file and prints every segment with its
element indexes. With --find, prints only the positions where an element
equals the given value; useful for working out a partner's ship-from offset.`,
	Args: cobra.ExactArgs(1),
	RunE: runSegments,
}

func init() {
	segmentsCmd.Flags().StringVarP(&segmentsFind, "find", "f", "", "list positions of an element value")
	rootCmd.AddCommand(segmentsCmd)
}

func runSegments(cmd *cobra.Command, args []string) error {
	if inspector == nil {
		return unavailable("classification")
	}

	raw, err := readInterchange(args[0])
	if err != nil {
		return err
	}

	env, segments, err := inspector.Inspect(raw)
	if err != nil {
		return fmt.Errorf("inspect %s: %w", raw.Filename, err)
	}

	d := env.Delimiters
	cmd.Printf("%s, %d segments (segment %q, element %q, component %q)\n",
		titleStyle.Render(env.Dialect.String()), len(segments), d.Segment, d.Element, d.Component)

	if segmentsFind != "" {
		found := 0
		for i, seg := range segments {
			for j := 1; j < len(seg); j++ {
				if seg[j] == segmentsFind {
					cmd.Printf("segment %d (%s) element %d\n", i, seg.Tag(), j)
					found++
				}
			}
		}
		if found == 0 {
			cmd.Printf("%q not found\n", segmentsFind)
		}
		return nil
	}

	for i, seg := range segments {
		var b strings.Builder
		for j := 1; j < len(seg); j++ {
			fmt.Fprintf(&b, " %s%s", mutedStyle.Render(fmt.Sprintf("%d=", j)), seg[j])
		}
		cmd.Printf("%4d %s%s\n", i, seg.Tag(), b.String())
	}
	return nil
}
