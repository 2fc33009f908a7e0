package logging

import (
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestCustomFormatter(t *testing.T) {
	f := &CustomFormatter{SystemName: "reports"}
	entry := &logrus.Entry{
		Logger:  logrus.New(),
		Time:    time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC),
		Level:   logrus.WarnLevel,
		Message: "Event ID: IMPORT_ROW_FAILED, Description: bad row",
		Data:    logrus.Fields{"sheet": "Tasks", "error": errors.New("boom")},
	}

	out, err := f.Format(entry)
	require.NoError(t, err)

	line := string(out)
	require.Contains(t, line, "Date: 2024-06-15, Time: 10:30:00, ")
	require.Contains(t, line, "Event Source: reports, ")
	require.Contains(t, line, "Event Type: WARNING, ")
	require.Contains(t, line, "Message: Event ID: IMPORT_ROW_FAILED, Description: bad row, error: boom, sheet: Tasks")
	require.Regexp(t, `Event ID: [0-9a-f-]{36}, `, line)
	require.Equal(t, byte('\n'), out[len(out)-1])
}
