package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"tempotoggl/internal/timeutil"
)

// promptDateRange asks for both bounds of the sync range, offering the given
// defaults. Empty input accepts the default; entered days must parse and form
// a valid range.
func promptDateRange(in io.Reader, out io.Writer, defaultFrom, defaultTo string) (string, string, error) {
	reader := bufio.NewReader(in)

	from, err := promptDay(reader, out, "From", defaultFrom)
	if err != nil {
		return "", "", err
	}
	to, err := promptDay(reader, out, "To", defaultTo)
	if err != nil {
		return "", "", err
	}

	fromDay, err := timeutil.ParseDay(from)
	if err != nil {
		return "", "", err
	}
	toDay, err := timeutil.ParseDay(to)
	if err != nil {
		return "", "", err
	}
	if fromDay.After(toDay) {
		return "", "", fmt.Errorf("invalid range: from %s is after to %s", from, to)
	}
	return from, to, nil
}

// confirm asks a yes/no question; empty input counts as yes.
func confirm(reader *bufio.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprintf(out, "%s [Y/n]: ", question)
	line, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "", "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func promptDay(reader *bufio.Reader, out io.Writer, label, defaultValue string) (string, error) {
	fmt.Fprintf(out, "%s [%s]: ", label, defaultValue)
	line, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read %s day: %w", strings.ToLower(label), err)
	}
	value := strings.TrimSpace(line)
	if value == "" {
		return defaultValue, nil
	}
	if _, err := timeutil.ParseDay(value); err != nil {
		return "", err
	}
	return value, nil
}
