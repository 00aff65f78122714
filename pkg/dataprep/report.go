package dataprep

import (
	"cmp"
	"fmt"
	"io"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// WriteFrequencyTable renders an inspection as an aligned text table.
// Values outside the accepted set are marked with "!".
func WriteFrequencyTable[T cmp.Ordered](w io.Writer, column string, in *Inspection[T]) error {
	p := message.NewPrinter(language.English)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "%s\tvalue_counts\tpercentage\t\t\n", column)
	for _, f := range in.Table {
		mark := ""
		if !f.Accepted {
			mark = "!"
		}
		p.Fprintf(tw, "%v\t%d\t%.1f%%\t%s\t\n", f.Value, f.Count, f.Percentage*100, mark)
	}
	p.Fprintf(tw, "total\t%d\t\t\t\n", in.Table.Total())
	return tw.Flush()
}
