package feed

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/colonyops/noticeq/internal/core/notice"
)

// ReadScript reads a JSON-lines script. Blank lines and lines starting
// with '#' are skipped. Every step is validated; the first bad line fails
// the whole script.
func ReadScript(r io.Reader) ([]Step, error) {
	var steps []Step

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var step Step
		if err := json.Unmarshal([]byte(line), &step); err != nil {
			return nil, fmt.Errorf("line %d: decode step: %w", lineNo, err)
		}
		if err := step.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		steps = append(steps, step)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}

	return steps, nil
}

// ParseLine turns one line of piped input into a show step. A line that
// looks like a JSON object is decoded as a [Step]; otherwise an optional
// "kind:" prefix selects the notice kind and the rest is the message.
func ParseLine(line string) (Step, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Step{}, fmt.Errorf("empty line")
	}

	if strings.HasPrefix(line, "{") {
		var step Step
		if err := json.Unmarshal([]byte(line), &step); err != nil {
			return Step{}, fmt.Errorf("decode step: %w", err)
		}
		return step, step.Validate()
	}

	step := Step{Action: ActionShow, Message: line, Type: notice.KindInfo}
	if prefix, rest, ok := strings.Cut(line, ":"); ok {
		if kind, known := notice.ParseKind(strings.TrimSpace(prefix)); known && strings.TrimSpace(rest) != "" {
			step.Type = kind
			step.Message = strings.TrimSpace(rest)
		}
	}
	return step, nil
}
