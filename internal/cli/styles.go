package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/RMahshie/aurelius/internal/audio"
	"github.com/RMahshie/aurelius/pkg/models"
)

// Color palette
var (
	primaryColor = lipgloss.Color("#C9A227") // Aurelius gold
	warnColor    = lipgloss.Color("#D75F00")
	mutedColor   = lipgloss.Color("#888888")
	textColor    = lipgloss.Color("#FFFFFF")
)

// Styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Border(lipgloss.DoubleBorder(), true, false).
			BorderForeground(primaryColor).
			Padding(0, 6)

	DisclaimerStyle = lipgloss.NewStyle().
			Foreground(warnColor).
			Italic(true)

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(warnColor)

	KeyStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	ValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(textColor)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)
)

// Disclaimer is shown before any measurement or processing
const Disclaimer = "Aurelius is an experimental listening aid, not a medical device. " +
	"It does not diagnose or treat hearing loss. Keep the volume comfortable and stop if anything hurts."

// PrintBanner prints a section title such as "STARTING AURELIUS CALIBRATION"
func PrintBanner(w io.Writer, title string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, TitleStyle.Render(strings.ToUpper(title)))
}

// PrintDisclaimer prints the non-medical disclaimer
func PrintDisclaimer(w io.Writer) {
	fmt.Fprintln(w, DisclaimerStyle.Render(Disclaimer))
	fmt.Fprintln(w)
}

// PrintKeyValue prints an aligned key/value line
func PrintKeyValue(w io.Writer, key string, value any) {
	fmt.Fprintf(w, "%s %s\n", KeyStyle.Render(fmt.Sprintf("%-14s", key+":")), ValueStyle.Render(fmt.Sprint(value)))
}

// PrintError prints an error message
func PrintError(message string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", ErrorStyle.Render("Error:"), message)
}

// PrintProfile prints a profile as a table of gains
func PrintProfile(w io.Writer, name string, profile models.HearingProfile) {
	PrintKeyValue(w, "Profile", name)
	fmt.Fprintln(w, HeaderStyle.Render(fmt.Sprintf("%12s  %10s  %8s", "Frequency", "Gain (dB)", "Linear")))
	for _, p := range profile.Points() {
		fmt.Fprintf(w, "%9s Hz  %10.1f  %7.3fx\n", models.FormatFrequency(p.Frequency), p.GainDB, audio.DBToLinear(p.GainDB))
	}
}

// PrintThresholds prints the measured thresholds of a calibration
func PrintThresholds(w io.Writer, thresholds models.HearingThreshold) {
	fmt.Fprintln(w, HeaderStyle.Render(fmt.Sprintf("%12s  %14s", "Frequency", "Threshold")))
	for _, t := range thresholds {
		level := "not heard"
		if t.Heard {
			level = fmt.Sprintf("%.1f dB", t.ThresholdDB)
		}
		fmt.Fprintf(w, "%9s Hz  %14s\n", models.FormatFrequency(t.Frequency), level)
	}
}

// PrintDevices prints the audio devices PortAudio can see
func PrintDevices(w io.Writer, devices []audio.DeviceInfo) {
	for _, d := range devices {
		var marks []string
		if d.IsDefaultInput {
			marks = append(marks, "default input")
		}
		if d.IsDefaultOutput {
			marks = append(marks, "default output")
		}
		name := ValueStyle.Render(d.Name)
		if len(marks) > 0 {
			name += " " + KeyStyle.Render("("+strings.Join(marks, ", ")+")")
		}
		fmt.Fprintln(w, name)
		fmt.Fprintf(w, "    in: %d  out: %d  rate: %.0f Hz\n", d.MaxInputChannels, d.MaxOutputChannels, d.DefaultSampleRate)
	}
}
