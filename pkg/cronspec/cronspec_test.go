// SPDX-License-Identifier: Apache-2.0

package cronspec

import (
	"testing"
	"time"

	"github.com/joomcode/errorx"
	"github.com/stretchr/testify/require"
)

func TestCronspec_Validate(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		shouldErr bool
	}{
		{name: "weekly refresh", input: DefaultRefreshSchedule},
		{name: "every minute", input: "* * * * *"},
		{name: "named weekday", input: "0 7 * * mon"},
		{name: "six fields rejected", input: "0 0 7 * * 1", shouldErr: true},
		{name: "out of range minute", input: "61 7 * * 1", shouldErr: true},
		{name: "words rejected", input: "weekly", shouldErr: true},
		{name: "empty", input: "", shouldErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.input)
			if tc.shouldErr {
				require.Error(t, err)
				require.True(t, errorx.IsOfType(err, InvalidScheduleError))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestCronspec_Next(t *testing.T) {
	req := require.New(t)

	// A Wednesday. The weekly schedule must fire the following Monday 07:00.
	after := time.Date(2024, time.July, 10, 12, 0, 0, 0, time.UTC)
	next, err := Next(DefaultRefreshSchedule, after)
	req.NoError(err)
	req.Equal(time.Date(2024, time.July, 15, 7, 0, 0, 0, time.UTC), next)

	_, err = Next("not a schedule", after)
	req.Error(err)
	req.True(errorx.IsOfType(err, InvalidScheduleError))
}

func TestCronspec_RenderFile(t *testing.T) {
	req := require.New(t)

	out, err := RenderFile("Weekly version pin refresh.\nDo not edit by hand.", []Entry{
		{
			Schedule: DefaultRefreshSchedule,
			User:     "root",
			Command:  "/opt/deskstrap/bin/deskstrap pins refresh >> /var/log/deskstrap/pins-refresh.log 2>&1",
		},
	})
	req.NoError(err)

	expected := "# Weekly version pin refresh.\n" +
		"# Do not edit by hand.\n" +
		"SHELL=/bin/sh\n" +
		"PATH=/usr/local/sbin:/usr/local/bin:/sbin:/bin:/usr/sbin:/usr/bin\n" +
		"\n" +
		"0 7 * * 1 root /opt/deskstrap/bin/deskstrap pins refresh >> /var/log/deskstrap/pins-refresh.log 2>&1\n"
	req.Equal(expected, string(out))

	// Deterministic output keeps rewrites idempotent.
	again, err := RenderFile("Weekly version pin refresh.\nDo not edit by hand.", []Entry{
		{
			Schedule: DefaultRefreshSchedule,
			User:     "root",
			Command:  "/opt/deskstrap/bin/deskstrap pins refresh >> /var/log/deskstrap/pins-refresh.log 2>&1",
		},
	})
	req.NoError(err)
	req.Equal(out, again)
}

func TestCronspec_RenderFileRejectsBadEntries(t *testing.T) {
	testCases := []struct {
		name  string
		entry Entry
	}{
		{
			name:  "bad schedule",
			entry: Entry{Schedule: "once a week", User: "root", Command: "/bin/true"},
		},
		{
			name:  "user with whitespace",
			entry: Entry{Schedule: DefaultRefreshSchedule, User: "root me", Command: "/bin/true"},
		},
		{
			name:  "empty command",
			entry: Entry{Schedule: DefaultRefreshSchedule, User: "root", Command: "   "},
		},
		{
			name:  "multiline command",
			entry: Entry{Schedule: DefaultRefreshSchedule, User: "root", Command: "/bin/true\n* * * * * root /bin/evil"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := RenderFile("", []Entry{tc.entry})
			require.Error(t, err)
		})
	}
}
