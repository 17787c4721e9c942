package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	choicesSeparatorConstant      = "/"
	choicesSuffixTemplateConstant = " (%s)"
	defaultSuffixTemplateConstant = " [%s]"
	questionTerminatorConstant    = ": "
	invalidChoiceTemplateConstant = "Please answer one of: %s\n"
	inputClosedMessageConstant    = "input closed before an answer was given"
	readFailureTemplateConstant   = "failed to read answer: %w"
	writeFailureTemplateConstant  = "failed to write prompt: %w"
	confirmationYesChoiceConstant = "yes"
	confirmationNoChoiceConstant  = "no"
	lineDelimiterConstant         = '\n'
)

// ErrInputClosed indicates the input stream ended before a usable answer was read.
var ErrInputClosed = errors.New(inputClosedMessageConstant)

// Options constrains the answers accepted by Ask.
type Options struct {
	// Choices lists the canonical answers. An empty list accepts any input.
	Choices []string
	// Default is returned for an empty answer when set.
	Default string
}

// IOPrompter reads answers from an io.Reader and writes questions to an io.Writer.
type IOPrompter struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewIOPrompter constructs a prompter from the provided reader and writer.
func NewIOPrompter(input io.Reader, output io.Writer) *IOPrompter {
	if output == nil {
		output = io.Discard
	}
	return &IOPrompter{reader: bufio.NewReader(input), writer: output}
}

// Ask writes the question and returns the selected answer.
// With choices it re-asks until the answer equals one of them case-insensitively
// and returns the canonical choice.
func (prompter *IOPrompter) Ask(question string, options Options) (string, error) {
	renderedQuestion := renderQuestion(question, options)
	for {
		if _, writeError := io.WriteString(prompter.writer, renderedQuestion); writeError != nil {
			return "", fmt.Errorf(writeFailureTemplateConstant, writeError)
		}

		response, readError := prompter.reader.ReadString(lineDelimiterConstant)
		inputClosed := errors.Is(readError, io.EOF)
		if readError != nil && !inputClosed {
			return "", fmt.Errorf(readFailureTemplateConstant, readError)
		}

		answer := strings.TrimSpace(response)
		if len(answer) == 0 {
			if len(options.Default) > 0 {
				return options.Default, nil
			}
			if inputClosed {
				return "", ErrInputClosed
			}
		}

		if len(options.Choices) == 0 {
			return answer, nil
		}

		if choice, matched := matchChoice(answer, options.Choices); len(answer) > 0 && matched {
			return choice, nil
		}

		if inputClosed {
			return "", ErrInputClosed
		}
		fmt.Fprintf(prompter.writer, invalidChoiceTemplateConstant, strings.Join(options.Choices, choicesSeparatorConstant))
	}
}

// Confirm asks a yes/no question defaulting to "no".
func (prompter *IOPrompter) Confirm(question string) (bool, error) {
	answer, askError := prompter.Ask(question, Options{
		Choices: []string{confirmationYesChoiceConstant, confirmationNoChoiceConstant},
		Default: confirmationNoChoiceConstant,
	})
	if askError != nil {
		return false, askError
	}
	return answer == confirmationYesChoiceConstant, nil
}

func renderQuestion(question string, options Options) string {
	var builder strings.Builder
	builder.WriteString(question)
	if len(options.Choices) > 0 {
		builder.WriteString(fmt.Sprintf(choicesSuffixTemplateConstant, strings.Join(options.Choices, choicesSeparatorConstant)))
	}
	if len(options.Default) > 0 {
		builder.WriteString(fmt.Sprintf(defaultSuffixTemplateConstant, options.Default))
	}
	builder.WriteString(questionTerminatorConstant)
	return builder.String()
}

func matchChoice(answer string, choices []string) (string, bool) {
	for _, choice := range choices {
		if strings.EqualFold(choice, answer) {
			return choice, true
		}
	}
	return "", false
}
