package main

import (
	"bytes"
	"testing"

	"github.com/dvloznov/ledger-bot/internal/command"
	"github.com/dvloznov/ledger-bot/internal/infra"
	"github.com/dvloznov/ledger-bot/internal/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("LOG_LEVEL", "disabled")

	out := &bytes.Buffer{}
	cmd := newRootCmd()
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestReply_WithoutLedger(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{"query reports unreachable ledger", "查詢 王小明 U1", query.MsgUnavailable},
		{"malformed query", "查詢 王小明", command.MsgBadFormat},
		{"help", "hello", command.MsgHelp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCLI(t, "--backend", "none", "reply", tt.message)
			require.NoError(t, err)
			assert.Equal(t, tt.want+"\n", out)
		})
	}
}

func TestQuery_WithoutLedger(t *testing.T) {
	out, err := runCLI(t, "--backend", "none", "query", "王小明", "U1")
	require.NoError(t, err)
	assert.Equal(t, query.MsgUnavailable+"\n", out)
}

func TestQuery_RequiresNameAndID(t *testing.T) {
	_, err := runCLI(t, "query", "王小明")
	assert.Error(t, err)
}

func TestRecords_UnknownBackend(t *testing.T) {
	_, err := runCLI(t, "--backend", "none", "records")
	assert.ErrorIs(t, err, infra.ErrUnknownBackend)
}
