package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"questionbank"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	typeStyles = map[questionbank.QuestionType]lipgloss.Style{
		questionbank.TypeSingleChoice: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		questionbank.TypeMultiChoice:  lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		questionbank.TypeCoding:       lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	}
	difficultyStyles = map[questionbank.Difficulty]lipgloss.Style{
		questionbank.DifficultyEasy:   lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		questionbank.DifficultyMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		questionbank.DifficultyHard:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	}
	aiStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	manualStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
)

// pad cuts or pads s to width runes. Styling is applied after padding so
// escape codes do not upset the column layout.
func pad(s string, width int) string {
	if utf8.RuneCountInString(s) > width {
		r := []rune(s)
		return string(r[:width-1]) + "…"
	}
	return s + strings.Repeat(" ", width-utf8.RuneCountInString(s))
}

func renderQuestions(rows []questionbank.Question, selected func(int) bool) string {
	var sb strings.Builder

	sb.WriteString(headerStyle.Render(fmt.Sprintf("   %s %s %s %s %s %s %s",
		pad("ID", 5), pad("Title", 40), pad("Type", 13), pad("Level", 7), pad("Lang", 11), pad("Keyword", 12), "Source")))
	sb.WriteString("\n")

	if len(rows) == 0 {
		sb.WriteString(dimStyle.Render("   no questions"))
		return sb.String()
	}

	for _, q := range rows {
		mark := "[ ]"
		if selected(q.ID) {
			mark = "[x]"
		}
		source := manualStyle.Render("manual")
		if q.FromAI() {
			source = aiStyle.Render("AI")
		}
		sb.WriteString(fmt.Sprintf("%s %s %s %s %s %s %s %s\n",
			mark,
			pad(fmt.Sprint(q.ID), 5),
			pad(q.Title, 40),
			typeStyles[q.Type].Render(pad(q.Type.String(), 13)),
			difficultyStyles[q.Difficulty].Render(pad(q.Difficulty.String(), 7)),
			pad(string(q.Language), 11),
			pad(q.Keyword, 12),
			source,
		))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func renderPreview(staged []questionbank.Question) string {
	var sb strings.Builder
	for i, q := range staged {
		sb.WriteString(fmt.Sprintf("%d. %s  %s %s\n", i+1, q.Title,
			typeStyles[q.Type].Render(q.Type.String()),
			difficultyStyles[q.Difficulty].Render(q.Difficulty.String())))
		for _, option := range q.Answers {
			sb.WriteString("     " + option + "\n")
		}
		if len(q.Right) > 0 {
			sb.WriteString(successStyle.Render("     answer: "+strings.Join(q.Right, ",")) + "\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func typeFilterLabel(t questionbank.QuestionType) string {
	if t == 0 {
		return "all"
	}
	return t.String()
}

// prompter reads answers line by line and shows notices. It is both the
// console's Notifier and Confirmer.
type prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func newPrompter(in *bufio.Scanner, out io.Writer) *prompter {
	return &prompter{in: in, out: out}
}

func (p *prompter) println(s string) {
	fmt.Fprintln(p.out, s)
}

// ask prompts for one line; an empty answer takes def. ok is false once
// input has ended.
func (p *prompter) ask(label, def string) (string, bool) {
	if def != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(p.out, "%s: ", label)
	}
	if !p.in.Scan() {
		return def, false
	}
	answer := strings.TrimSpace(p.in.Text())
	if answer == "" {
		return def, true
	}
	return answer, true
}

func (p *prompter) Notify(n questionbank.Notice) {
	var style lipgloss.Style
	switch n.Level {
	case questionbank.LevelSuccess:
		style = successStyle
	case questionbank.LevelWarning:
		style = warningStyle
	case questionbank.LevelError:
		style = errorStyle
	default:
		style = infoStyle
	}
	p.println(style.Render(fmt.Sprintf("[%s] %s", n.Level, n.Message)))
}

func (p *prompter) Confirm(title, content string) bool {
	p.println(warningStyle.Render(title) + " " + content)
	answer, ok := p.ask("Confirm (y/N)", "n")
	return ok && strings.EqualFold(answer, "y")
}
