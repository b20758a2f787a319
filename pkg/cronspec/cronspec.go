// SPDX-License-Identifier: Apache-2.0

// Package cronspec validates cron schedules and renders /etc/cron.d files.
package cronspec

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/joomcode/errorx"
	"github.com/robfig/cron/v3"
)

// DefaultRefreshSchedule fires weekly on Monday at 07:00, after the mirrors
// have finished their overnight sync.
const DefaultRefreshSchedule = "0 7 * * 1"

// Environment preamble written to every rendered cron.d file. Cron's default
// PATH misses /usr/sbin, which the refresh command needs.
const (
	cronShell = "/bin/sh"
	cronPath  = "/usr/local/sbin:/usr/local/bin:/sbin:/bin:/usr/sbin:/usr/bin"
)

var (
	ErrorsNamespace = errorx.NewNamespace("cronspec")

	// InvalidScheduleError indicates a cron expression the parser rejects.
	InvalidScheduleError = ErrorsNamespace.NewType("invalid_schedule")

	// InvalidEntryError indicates a cron.d entry that would corrupt the
	// rendered file.
	InvalidEntryError = ErrorsNamespace.NewType("invalid_entry")
)

// parser accepts standard 5-field cron expressions (minute, hour, dom,
// month, dow).
var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Validate checks that expr is a well-formed 5-field cron expression.
func Validate(expr string) error {
	if _, err := parser.Parse(expr); err != nil {
		return InvalidScheduleError.Wrap(err, "invalid cron schedule: %s", expr)
	}

	return nil
}

// Next returns the first instant expr fires after the given time.
func Next(expr string, after time.Time) (time.Time, error) {
	sched, err := parser.Parse(expr)
	if err != nil {
		return time.Time{}, InvalidScheduleError.Wrap(err, "invalid cron schedule: %s", expr)
	}

	return sched.Next(after), nil
}

// Entry is one job line of an /etc/cron.d file.
type Entry struct {
	Schedule string
	User     string
	Command  string
}

// Validate checks the entry renders to exactly one well-formed cron.d line.
func (e Entry) Validate() error {
	if err := Validate(e.Schedule); err != nil {
		return err
	}

	if e.User == "" || strings.ContainsAny(e.User, " \t\n") {
		return InvalidEntryError.New("cron entry user must be a single word: %q", e.User)
	}

	if strings.TrimSpace(e.Command) == "" || strings.Contains(e.Command, "\n") {
		return InvalidEntryError.New("cron entry command must be a single non-empty line")
	}

	return nil
}

func (e Entry) String() string {
	return fmt.Sprintf("%s %s %s", e.Schedule, e.User, e.Command)
}

// RenderFile renders a complete /etc/cron.d file: the comment, the
// environment preamble and one line per entry. Output is deterministic so a
// rewrite of an unchanged schedule is byte-identical.
func RenderFile(comment string, entries []Entry) ([]byte, error) {
	var buf bytes.Buffer
	if comment != "" {
		for _, line := range strings.Split(strings.TrimRight(comment, "\n"), "\n") {
			buf.WriteString("# " + line + "\n")
		}
	}

	buf.WriteString("SHELL=" + cronShell + "\n")
	buf.WriteString("PATH=" + cronPath + "\n\n")

	for _, entry := range entries {
		if err := entry.Validate(); err != nil {
			return nil, err
		}
		buf.WriteString(entry.String() + "\n")
	}

	return buf.Bytes(), nil
}
