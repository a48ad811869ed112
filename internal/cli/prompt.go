package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/sdejongh/dirtective/pkg/models"
	"github.com/sdejongh/dirtective/pkg/output"
	"github.com/sdejongh/dirtective/pkg/resolve"
)

// lineReader is the part of readline the prompt relies on
type lineReader interface {
	Readline() (string, error)
	Close() error
}

// PromptDecider asks the user which action to apply to each group
type PromptDecider struct {
	reader lineReader
	out    io.Writer

	header  *color.Color
	marker  *color.Color
	warning *color.Color
}

// NewPromptDecider creates an interactive decider reading from the terminal
func NewPromptDecider(out io.Writer, colorize bool) (*PromptDecider, error) {
	cyan := color.New(color.FgCyan)
	if !colorize {
		cyan.DisableColor()
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            cyan.Sprint("dirtective> "),
		InterruptPrompt:   "^C",
		EOFPrompt:         "quit",
		HistorySearchFold: true,
		Stdout:            out,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	return newPromptDecider(rl, out, colorize), nil
}

func newPromptDecider(reader lineReader, out io.Writer, colorize bool) *PromptDecider {
	p := &PromptDecider{
		reader:  reader,
		out:     out,
		header:  color.New(color.FgCyan, color.Bold),
		marker:  color.New(color.FgGreen),
		warning: color.New(color.FgYellow),
	}
	for _, c := range []*color.Color{p.header, p.marker, p.warning} {
		if colorize {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Decide shows the group and its choices and reads the answer. An empty
// answer picks the default; "q" or Ctrl+D stops the run.
func (p *PromptDecider) Decide(ctx context.Context, prompt resolve.Prompt) (models.ActionChoice, error) {
	fmt.Fprintln(p.out)
	p.header.Fprintf(p.out, "Duplicate %d of %d: %s\n", prompt.Position, prompt.Total, prompt.Group.Name)
	if err := output.WriteGroupTable(p.out, prompt.Group); err != nil {
		return models.ActionChoice{}, err
	}

	fmt.Fprintln(p.out)
	for i, choice := range prompt.Choices {
		fmt.Fprintf(p.out, "  %2d) %s", i+1, choice)
		if choice.Same(prompt.Default) {
			p.marker.Fprint(p.out, " (default)")
		}
		fmt.Fprintln(p.out)
	}
	fmt.Fprintf(p.out, "   q) Stop and leave the remaining duplicates untouched\n")

	labels := make([]string, len(prompt.Choices))
	for i, c := range prompt.Choices {
		labels[i] = c.Label
	}

	idx, err := p.ask(labels, indexOf(prompt.Choices, prompt.Default))
	if err != nil {
		return models.ActionChoice{}, err
	}
	return prompt.Choices[idx], nil
}

// bulkOption is one entry of the menu shown before resolving
type bulkOption struct {
	Label  string
	Policy string // config.PolicyIndividual or a bulk policy
	Export string // export format, when the option only exports
}

func bulkOptions() []bulkOption {
	options := []bulkOption{{Label: "Choose for each duplicate individually", Policy: "individual"}}
	for _, policy := range resolve.Policies() {
		options = append(options, bulkOption{Label: policy.Description(), Policy: string(policy)})
	}
	return append(options,
		bulkOption{Label: "Create a JSON file with all duplicates", Export: "json"},
		bulkOption{Label: "Create a CSV file with all duplicates", Export: "csv"},
	)
}

// ChooseBulk asks how every duplicate should be handled
func (p *PromptDecider) ChooseBulk(total int) (bulkOption, error) {
	options := bulkOptions()

	fmt.Fprintln(p.out)
	p.header.Fprintf(p.out, "What do you want to do with the %d duplicates?\n", total)
	labels := make([]string, len(options))
	for i, o := range options {
		labels[i] = o.Label
		fmt.Fprintf(p.out, "  %2d) %s\n", i+1, o.Label)
	}
	fmt.Fprintf(p.out, "   q) Cancel\n")

	idx, err := p.ask(labels, 0)
	if err != nil {
		return bulkOption{}, err
	}
	return options[idx], nil
}

// ask reads answers until one selects an entry of labels
func (p *PromptDecider) ask(labels []string, defaultIdx int) (int, error) {
	for {
		line, err := p.reader.Readline()
		if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
			return 0, resolve.ErrStop
		}
		if err != nil {
			return 0, fmt.Errorf("failed to read answer: %w", err)
		}

		idx, err := parseAnswer(line, len(labels), defaultIdx)
		if errors.Is(err, resolve.ErrStop) {
			return 0, err
		}
		if err != nil {
			p.warning.Fprintf(p.out, "%v\n", err)
			continue
		}
		return idx, nil
	}
}

// Close releases the terminal
func (p *PromptDecider) Close() error {
	return p.reader.Close()
}

// parseAnswer turns a typed answer into a 0-based index among n entries
func parseAnswer(line string, n, defaultIdx int) (int, error) {
	answer := strings.ToLower(strings.TrimSpace(line))
	switch answer {
	case "":
		return defaultIdx, nil
	case "q", "quit", "exit":
		return 0, resolve.ErrStop
	}

	num, err := strconv.Atoi(strings.TrimSuffix(answer, ")"))
	if err != nil || num < 1 || num > n {
		return 0, fmt.Errorf("please enter a number between 1 and %d, or q to stop", n)
	}
	return num - 1, nil
}

func indexOf(choices []models.ActionChoice, choice models.ActionChoice) int {
	for i, c := range choices {
		if c.Same(choice) {
			return i
		}
	}
	return 0
}
