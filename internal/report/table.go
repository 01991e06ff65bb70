package report

import (
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"
)

// WriteTable renders a human-readable summary of a batched run.
func WriteTable(w io.Writer, s *Summary) {
	table := tablewriter.NewWriter(w)
	table.Header("CHUNK", "ITEMS", "BYTES", "EXIT", "DURATION", "ERROR")

	for _, chunk := range s.Chunks {
		errText := chunk.Error
		if len(errText) > 40 {
			errText = errText[:37] + "..."
		}

		table.Append(
			fmt.Sprintf("%d", chunk.Index),
			fmt.Sprintf("%d", chunk.Items),
			fmt.Sprintf("%d", chunk.Bytes),
			fmt.Sprintf("%d", chunk.ExitCode),
			chunk.Duration.Round(time.Millisecond).String(),
			errText,
		)
	}

	table.Render()

	fmt.Fprintf(w, "\n%d items in %d invocations (limit %d bytes, %s)",
		s.ItemsTotal, len(s.Chunks), s.Limit, s.LimitSource)
	if s.ChunksFailed > 0 {
		fmt.Fprintf(w, ", %d FAILED", s.ChunksFailed)
	}
	fmt.Fprintln(w)
}
