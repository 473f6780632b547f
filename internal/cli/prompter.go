package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/stavsoft/boqflow/internal/model"
)

// Prompter handles the interactive confirmations the classifier needs,
// most importantly the explicit consent required before an item code is
// memorized as an override.
type Prompter struct {
	writer io.Writer
	reader *bufio.Reader
}

// NewPrompter creates a prompter over the given reader and writer. Nil
// arguments default to stdin and stdout.
func NewPrompter(reader io.Reader, writer io.Writer) *Prompter {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}

	return &Prompter{
		reader: bufio.NewReader(reader),
		writer: writer,
	}
}

// ConfirmOverride asks whether the code to category mapping should be
// remembered for future runs. Anything other than an explicit yes is a
// refusal; memorization never happens by default.
func (p *Prompter) ConfirmOverride(ctx context.Context, code, category string) (bool, error) {
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	default:
	}

	content := fmt.Sprintf("Code:     %s\nCategory: %s", BoldStyle.Render(code), SuccessStyle.Render(category))
	if _, err := fmt.Fprintln(p.writer, RenderBox("Remember this classification?", content)); err != nil {
		return false, fmt.Errorf("failed to write override box: %w", err)
	}

	answer, err := p.ask("Remember for future runs? [y/N]")
	if err != nil {
		return false, err
	}

	switch strings.ToLower(answer) {
	case "y", "yes", "a", "ano":
		return true, nil
	default:
		return false, nil
	}
}

// ConfirmDestructive asks before irreversible operations such as clearing
// the override store or deleting a project.
func (p *Prompter) ConfirmDestructive(ctx context.Context, what string) (bool, error) {
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	default:
	}

	if _, err := fmt.Fprintln(p.writer, FormatWarning(what+" cannot be undone.")); err != nil {
		return false, fmt.Errorf("failed to write warning: %w", err)
	}

	answer, err := p.ask("Continue? [y/N]")
	if err != nil {
		return false, err
	}

	return strings.EqualFold(answer, "y") || strings.EqualFold(answer, "yes"), nil
}

func (p *Prompter) ask(prompt string) (string, error) {
	if _, err := fmt.Fprint(p.writer, FormatPrompt(prompt)); err != nil {
		return "", fmt.Errorf("failed to write prompt: %w", err)
	}

	line, err := p.reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read answer: %w", err)
	}

	return strings.TrimSpace(line), nil
}

// RenderSummary prints a batch classification summary.
func RenderSummary(w io.Writer, summary model.Summary) error {
	lines := []string{
		fmt.Sprintf("Items processed:  %d", summary.Total),
		fmt.Sprintf("By override:      %d", summary.ByOverride),
		fmt.Sprintf("By rules:         %d", summary.ByRules),
		fmt.Sprintf("By AI fallback:   %d", summary.ByFallback),
		fmt.Sprintf("By cascade:       %d", summary.ByCascade),
		fmt.Sprintf("Skipped:          %d", summary.Skipped),
	}

	if summary.Unclassified > 0 {
		lines = append(lines, WarningStyle.Render(fmt.Sprintf("Unclassified:     %d", summary.Unclassified)))
	}

	_, err := fmt.Fprintln(w, RenderBox(ChartIcon+" Classification Summary", strings.Join(lines, "\n")))
	return err
}
