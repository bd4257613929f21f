package cmd

import (
	"github.com/cqroot/prompt"
)

// Prompter asks the user for values a command was not given
type Prompter interface {
	Input(question, placeholder string) (string, error)
	Choose(question string, choices []string) (string, error)
}

type terminalPrompter struct{}

func (terminalPrompter) Input(question, placeholder string) (string, error) {
	return prompt.New().Ask(question).Input(placeholder)
}

func (terminalPrompter) Choose(question string, choices []string) (string, error) {
	return prompt.New().Ask(question).Choose(choices)
}
