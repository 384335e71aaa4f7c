package cli

import (
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/filecoin-project/shardproof/storage/proving"
)

// Set the global default, to be overridden by individual cli flags in order
func init() {
	color.NoColor = os.Getenv("GOLOG_LOG_FMT") != "color" &&
		!isatty.IsTerminal(os.Stdout.Fd()) &&
		!isatty.IsCygwinTerminal(os.Stdout.Fd())
}

func reliabilityStr(rel proving.NodeReliability) string {
	if rel.IsReliable {
		return color.GreenString("reliable")
	}
	return color.RedString("unreliable")
}

func scoreStr(score float64) string {
	s := humanize.FtoaWithDigits(score*100, 2) + "%"
	switch {
	case score >= 0.95:
		return color.GreenString(s)
	case score >= 0.8:
		return color.YellowString(s)
	}
	return color.RedString(s)
}

func msStr(ms float64) string {
	return (time.Duration(ms * float64(time.Millisecond))).Truncate(time.Millisecond).String()
}

func agoStr(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.Time(t)
}
