package output

import (
	"bufio"
	"fmt"
	"io"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/daryltucker/pi-accuracy/internal/model"
)

// AnalysisHeader is the first line of an analysis text file.
const AnalysisHeader = "method, iterations, precision, max_digits"

// WriteAnalysis writes the summary in the plain analysis.txt layout: a header
// line followed by one space-separated line per row.
func WriteAnalysis(w io.Writer, rows []model.SummaryRow) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, AnalysisHeader)
	for _, r := range rows {
		fmt.Fprintln(bw, r.Method, r.Iterations, r.Precision, r.MaxDigits)
	}
	return bw.Flush()
}

// WriteTable renders rows for a terminal, grouping digits in large numbers.
func WriteTable(w io.Writer, rows []model.SummaryRow) error {
	p := message.NewPrinter(language.English)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)

	fmt.Fprintln(tw, "METHOD\tITERATIONS\tPRECISION\tMAX DIGITS\tWASTE\tWALLTIME\t")
	for _, r := range rows {
		p.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\t\n",
			r.Method, r.Iterations, r.Precision, r.MaxDigits, r.WasteDigits, r.Walltime)
	}
	return tw.Flush()
}
