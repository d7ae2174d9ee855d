package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the waterjug ASCII banner to w.
func PrintBanner(w io.Writer) {
	out := termenv.NewOutput(w)
	// Blue to teal, like water getting deeper.
	lines := []struct {
		text  string
		color string
	}{
		{`                 _              _             `, "#38bdf8"},
		{` __      ____ _| |_ ___ _ __  (_)_   _  __ _ `, "#22d3ee"},
		{` \ \ /\ / / _` + "`" + ` | __/ _ \ '__| | | | | |/ _` + "`" + ` |`, "#2dd4bf"},
		{`  \ V  V / (_| | ||  __/ |    | | |_| | (_| |`, "#34d399"},
		{`   \_/\_/ \__,_|\__\___|_|   _/ |\__,_|\__, |`, "#4ade80"},
		{`                            |__/       |___/ `, "#a3e635"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w)
}
