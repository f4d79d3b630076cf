package report

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pterm/pterm"
)

var (
	SuccessColorFG = pterm.FgLightGreen
	SuccessStyleBG = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
	WarnColorFG    = pterm.FgYellow
	WarnStyleBG    = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	ErrorColorFG   = pterm.FgRed
	ErrorStyleBG   = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	InfoColorFG    = SuccessColorFG
	InfoStyleBG    = SuccessStyleBG
)

// PrintErrorMessage prints a standard Go error to the console
func PrintErrorMessage(tag string, err error) {
	ErrorStyleBG.Print(tag)
	ErrorColorFG.Println(" " + err.Error())
}

// PrintWarningMessage prints a warning message to the console
func PrintWarningMessage(tag, msg string) {
	WarnStyleBG.Print(tag)
	WarnColorFG.Println(" " + msg)
}

// PrintInfoMessage prints an informational message to the user
func PrintInfoMessage(tag, msg string) {
	InfoStyleBG.Print(tag)
	InfoColorFG.Println(" " + msg)
}

// -----------------------------------------------------------------------------

// displayBanner displays the banner on top of a diagnostic
func (d *Diagnostic) displayBanner() {
	fmt.Print("\n-- ")

	kindStr := d.Severity.String()
	if d.Category != "" {
		kindStr = d.Category + " " + kindStr
	}

	switch {
	case d.isError():
		ErrorStyleBG.Print(kindStr)
	case d.Severity == SeverityWarning:
		WarnStyleBG.Print(kindStr)
	default:
		InfoStyleBG.Print(kindStr)
	}

	fmt.Print(" ")

	location := filepath.Base(d.File)
	if d.Line > 0 {
		location += fmt.Sprintf(":%d:%d", d.Line, d.Col)
	}

	bannerLen := pterm.GetTerminalWidth() / 2
	if bannerLen > 50 {
		bannerLen = 50
	}

	dashCount := bannerLen - len(location) - len(kindStr) - 1
	if dashCount < 2 {
		dashCount = 2
	}

	fmt.Print(strings.Repeat("-", dashCount) + " ")
	InfoColorFG.Println(location)
}

// codeSelection renders the line of path at line (with its line number) and a
// caret under col.
func codeSelection(path string, line, col int) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var text string
	found := false

	sc := bufio.NewScanner(f)
	for lineNumber := 1; sc.Scan(); lineNumber++ {
		if lineNumber == line {
			text = sc.Text()
			found = true
			break
		}
	}

	if err := sc.Err(); err != nil {
		return "", err
	}

	if !found {
		return "", errors.New("line out of range")
	}

	// tabs are expanded so the caret lines up; the column counts a tab as one
	// character
	caretCol := 0
	for i, c := range text {
		if i >= col-1 {
			break
		}

		if c == '\t' {
			caretCol += 4
		} else {
			caretCol++
		}
	}

	lineNumberWidth := len(strconv.Itoa(line)) + 1
	lineNumberFmtStr := "%-" + strconv.Itoa(lineNumberWidth) + "v"

	sb := &strings.Builder{}
	sb.WriteString("\n")
	sb.WriteString(InfoColorFG.Sprint(fmt.Sprintf(lineNumberFmtStr, line)))
	sb.WriteString("|  ")
	sb.WriteString(strings.ReplaceAll(text, "\t", "    "))
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat(" ", lineNumberWidth))
	sb.WriteString("|  ")
	sb.WriteString(strings.Repeat(" ", caretCol))
	sb.WriteString(ErrorColorFG.Sprint("^"))
	sb.WriteString("\n\n")

	return sb.String(), nil
}

const fatalErrorPostlude = `
This is likely a bug in irkit or in the LLVM it was built against.`

func displayFatalError(msg string) {
	fmt.Print("\n\n")
	ErrorStyleBG.Print("Fatal Error ")
	ErrorColorFG.Println(msg)
	InfoColorFG.Println(fatalErrorPostlude)
}

// -----------------------------------------------------------------------------

// displayHeader displays the tool information before starting a build
func displayHeader(version, target string, caching bool) {
	fmt.Print("irkit ")
	InfoColorFG.Print("v" + version)
	fmt.Print(" -- target: ")
	InfoColorFG.Println(target)

	if caching {
		fmt.Println("building using cache")
	}
}

const maxPhaseLength = len("Verifying")

// phaseDisplay is the phase currently shown by a spinner
type phaseDisplay struct {
	name    string
	spinner *pterm.SpinnerPrinter
	start   time.Time
}

// phaseText pads a phase name so that phase results line up
func phaseText(name string) string {
	pad := maxPhaseLength - len(name) + 2
	if pad < 1 {
		pad = 1
	}

	return name + strings.Repeat(" ", pad)
}

// displayBeginPhase displays the beginning of a phase
func displayBeginPhase(phase string) *phaseDisplay {
	sp := pterm.DefaultSpinner.WithStyle(pterm.NewStyle(InfoColorFG))

	sp.SuccessPrinter = &pterm.PrefixPrinter{
		MessageStyle: pterm.NewStyle(pterm.FgDefault),
		Prefix: pterm.Prefix{
			Style: SuccessStyleBG,
			Text:  "Done",
		},
	}

	sp.FailPrinter = &pterm.PrefixPrinter{
		MessageStyle: pterm.NewStyle(pterm.FgDefault),
		Prefix: pterm.Prefix{
			Style: ErrorStyleBG,
			Text:  "Fail",
		},
	}

	// Start runs on a copy of the printer: only the returned printer can be
	// stopped.
	started, err := sp.Start(phaseText(phase + "..."))
	if err != nil {
		started = nil
	}

	return &phaseDisplay{name: phase, spinner: started, start: time.Now()}
}

// displayEndPhase displays the end of a phase
func (pd *phaseDisplay) displayEndPhase(success bool) {
	elapsed := fmt.Sprintf("(%.3fs)", time.Since(pd.start).Seconds())

	if pd.spinner == nil {
		if success {
			SuccessStyleBG.Print("Done")
			fmt.Println(" " + phaseText(pd.name) + elapsed)
		} else {
			ErrorStyleBG.Print("Fail")
			fmt.Println(" " + phaseText(pd.name))
		}

		return
	}

	if success {
		pd.spinner.Success(phaseText(pd.name), elapsed)
	} else {
		pd.spinner.Fail(phaseText(pd.name))
	}
}

// suspendPhase stops the spinner of the current phase so that a message can
// be displayed.  The phase result is still displayed when it ends.
func (r *Reporter) suspendPhase() {
	if r.phase != nil && r.phase.spinner != nil {
		r.phase.spinner.Stop()
		r.phase.spinner = nil
	}
}

// displayFinished displays the concluding message
func displayFinished(success bool, errorCount, warningCount int, outputPath string, elapsed time.Duration) {
	fmt.Print("\n")

	if success {
		SuccessColorFG.Print("All done! ")
	} else {
		ErrorColorFG.Print("Oh no! ")
	}

	fmt.Print("(")

	switch errorCount {
	case 0:
		SuccessColorFG.Print(0)
		fmt.Print(" errors, ")
	case 1:
		ErrorColorFG.Print(1)
		fmt.Print(" error, ")
	default:
		ErrorColorFG.Print(errorCount)
		fmt.Print(" errors, ")
	}

	switch warningCount {
	case 0:
		SuccessColorFG.Print(0)
		fmt.Print(" warnings)")
	case 1:
		WarnColorFG.Print(1)
		fmt.Print(" warning)")
	default:
		WarnColorFG.Print(warningCount)
		fmt.Print(" warnings)")
	}

	fmt.Printf(" in %.3fs\n", elapsed.Seconds())

	if success && outputPath != "" {
		fmt.Print("output written to ")
		InfoColorFG.Println(outputPath)
	}
}
