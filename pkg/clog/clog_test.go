package clog

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/apex/log"
	"github.com/stretchr/testify/require"
)

func TestHandlerFormatsSortedFields(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf)
	h.now = func() time.Time { return time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC) }

	logger := &log.Logger{Handler: h, Level: log.DebugLevel}
	logger.WithFields(log.Fields{"ctx": "brands", "zeta": 1, "alpha": "a"}).Info("brand renamed")

	line := buf.String()
	require.True(t, strings.HasPrefix(line, " INFO 2024-03-01 10:00:00 [brands] brand renamed"), line)
	require.Less(t, strings.Index(line, "alpha=a"), strings.Index(line, "zeta=1"))
	require.NotContains(t, line, "ctx=")
}

func TestContextLoggerRoutesByContext(t *testing.T) {
	var global, flavors bytes.Buffer
	l := NewContextLogger(&global)
	l.AddLoggingContext("flavors", &flavors)

	l.UsingCtx("flavors").Info("to flavors")
	l.UsingCtx("brands").Info("to global")

	require.Contains(t, flavors.String(), "to flavors")
	require.Contains(t, global.String(), "[brands] to global")
	require.NotContains(t, global.String(), "to flavors")

	require.NoError(t, l.SetLevelFromString("flavors", "error"))
	l.UsingCtx("flavors").Info("suppressed")
	require.NotContains(t, flavors.String(), "suppressed")

	l.RemoveLoggingContext("flavors")
	l.UsingCtx("flavors").Info("now global")
	require.Contains(t, global.String(), "[flavors] now global")

	require.Error(t, l.SetOutput("missing", &global))
	require.Error(t, l.SetLevelFromString("flavors", "nope"))
}
