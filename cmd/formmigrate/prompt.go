package main

import (
	"errors"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

var errAborted = errors.New("aborted by user")

// confirmFunc asks a yes/no question.
type confirmFunc func(message string) (bool, error)

func surveyConfirm(message string) (bool, error) {
	var out bool
	prompt := &survey.Confirm{
		Message: message,
		Default: false,
	}
	if err := survey.AskOne(prompt, &out); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return false, errAborted
		}
		return false, err
	}
	return out, nil
}
