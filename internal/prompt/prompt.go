// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Sequential question prompter

package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Key identifies a question and the operation it controls
type Key string

const (
	KeyAudit         Key = "npmAudit"
	KeyOutdated      Key = "npmOutdated"
	KeyUpdate        Key = "npmUpdate"
	KeyUpdateEngines Key = "updateEngine"
	KeyInstall       Key = "npmInstall"
)

// Question is one prompt shown to the operator
type Question struct {
	Key  Key
	Text string
}

// DefaultQuestions is the fixed question sequence, asked in this order
var DefaultQuestions = []Question{
	{Key: KeyAudit, Text: "Would you like to run NPM audit? (y/n) "},
	{Key: KeyOutdated, Text: "Would you like to search for outdated dependencies? (y/n) "},
	{Key: KeyUpdate, Text: "Would you like to update the npm dependencies automatically? (y/n) "},
	{Key: KeyUpdateEngines, Text: "New engine versions:  ([node, npm] eg.:>=16.0.0, >=8.0.0 or leave empty to skip) "},
	{Key: KeyInstall, Text: "Would you like to run NPM install? (y/n) "},
}

// Answers maps question keys to the trimmed operator input
type Answers struct {
	Keys   []Key
	Values map[Key]string
	// Truncated is set when input ended before every question was answered.
	Truncated bool
}

// Get returns the answer for key, or "" if it was never asked
func (a Answers) Get(key Key) string {
	return a.Values[key]
}

// Proceed reports whether an answer selects its operation: anything
// non-empty except a case-insensitive "n"
func Proceed(answer string) bool {
	answer = strings.TrimSpace(answer)
	return answer != "" && !strings.EqualFold(answer, "n")
}

// Prompter reads one line of input per question
type Prompter struct {
	reader *bufio.Reader
	out    io.Writer
}

// New creates a prompter over the given input and output
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		reader: bufio.NewReader(in),
		out:    out,
	}
}

// Ask presents every question in order. Once input is exhausted the
// remaining questions are answered with "" and Truncated is set; any other
// read error is returned.
func (p *Prompter) Ask(questions []Question) (Answers, error) {
	answers := Answers{
		Keys:   make([]Key, 0, len(questions)),
		Values: make(map[Key]string, len(questions)),
	}

	eof := false
	for _, q := range questions {
		answers.Keys = append(answers.Keys, q.Key)
		if eof {
			answers.Values[q.Key] = ""
			answers.Truncated = true
			continue
		}

		if _, err := fmt.Fprint(p.out, q.Text); err != nil {
			return answers, fmt.Errorf("failed to write prompt %s: %w", q.Key, err)
		}

		line, err := p.reader.ReadString('\n')
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return answers, fmt.Errorf("failed to read answer for %s: %w", q.Key, err)
			}
			eof = true
			// a final line without newline still counts
			if line == "" {
				answers.Truncated = true
				fmt.Fprintln(p.out)
			}
		}
		answers.Values[q.Key] = strings.TrimSpace(line)
	}

	return answers, nil
}
