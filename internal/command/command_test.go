package command

import (
	"bytes"
	"context"
	"testing"

	"github.com/dvloznov/ledger-bot/internal/logger"
	"github.com/dvloznov/ledger-bot/internal/query"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type recordingSearcher struct {
	calls  int
	name   string
	id     string
	result query.Result
}

func (s *recordingSearcher) Search(ctx context.Context, name, id string) query.Result {
	s.calls++
	s.name = name
	s.id = id
	return s.result
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Command
	}{
		{
			name: "well formed",
			text: "查詢 王小明 U1",
			want: Command{Kind: KindQuery, Name: "王小明", CustomerID: "U1"},
		},
		{
			name: "surrounding whitespace is trimmed",
			text: "  查詢 王小明 U1 \n",
			want: Command{Kind: KindQuery, Name: "王小明", CustomerID: "U1"},
		},
		{
			name: "id keeps remaining spaces",
			text: "查詢 王小明 U1 extra",
			want: Command{Kind: KindQuery, Name: "王小明", CustomerID: "U1 extra"},
		},
		{
			name: "missing id",
			text: "查詢 A",
			want: Command{Kind: KindMalformed},
		},
		{
			name: "prefix only",
			text: "查詢",
			want: Command{Kind: KindMalformed},
		},
		{
			name: "prefix glued to name",
			text: "查詢王小明 U1",
			want: Command{Kind: KindMalformed},
		},
		{
			name: "plain greeting",
			text: "hello",
			want: Command{Kind: KindHelp},
		},
		{
			name: "prefix not at start",
			text: "我要查詢 王小明 U1",
			want: Command{Kind: KindHelp},
		},
		{
			name: "empty",
			text: "",
			want: Command{Kind: KindHelp},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.text))
		})
	}
}

func TestResponder_QueryInvokesSearcher(t *testing.T) {
	s := &recordingSearcher{result: query.Result{Outcome: query.OutcomeFound, Text: "cards", Matches: 2}}
	r := NewResponder(s, zerolog.Nop())

	reply := r.Respond(context.Background(), "查詢 王小明 U1")

	assert.Equal(t, "cards", reply)
	assert.Equal(t, 1, s.calls)
	assert.Equal(t, "王小明", s.name)
	assert.Equal(t, "U1", s.id)
}

func TestResponder_BadFormatSkipsSearcher(t *testing.T) {
	s := &recordingSearcher{}
	r := NewResponder(s, zerolog.Nop())

	assert.Equal(t, MsgBadFormat, r.Respond(context.Background(), "查詢 A"))
	assert.Zero(t, s.calls)
}

func TestResponder_HelpSkipsSearcher(t *testing.T) {
	s := &recordingSearcher{}
	r := NewResponder(s, zerolog.Nop())

	assert.Equal(t, MsgHelp, r.Respond(context.Background(), "hello"))
	assert.Zero(t, s.calls)
}

func TestResponder_WithEngineWithoutSource(t *testing.T) {
	r := NewResponder(query.NewEngine(nil, zerolog.Nop()), zerolog.Nop())

	assert.Equal(t, query.MsgUnavailable, r.Respond(context.Background(), "查詢 王小明 U1"))
}

func TestRespond_LogsThroughContextLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	ctx := logger.WithContext(context.Background(), zerolog.New(buf).With().Str("request_id", "req-1").Logger())
	searcher := &recordingSearcher{result: query.Result{Outcome: query.OutcomeNotFound, Text: query.NotFoundMessage("A", "B")}}

	NewResponder(searcher, zerolog.Nop()).Respond(ctx, "查詢 A B")

	assert.Contains(t, buf.String(), `"request_id":"req-1"`)
	assert.Contains(t, buf.String(), `"outcome":"not_found"`)
	assert.Contains(t, buf.String(), "Answered transaction query")
}
