package line

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockReplyAPI struct {
	req *messaging_api.ReplyMessageRequest
	err error
}

func (m *mockReplyAPI) ReplyMessage(req *messaging_api.ReplyMessageRequest) (*messaging_api.ReplyMessageResponse, error) {
	m.req = req
	if m.err != nil {
		return nil, m.err
	}
	return &messaging_api.ReplyMessageResponse{}, nil
}

func TestReply_SingleMessage(t *testing.T) {
	api := &mockReplyAPI{}
	c := NewClientWithAPI(api)

	require.NoError(t, c.Reply(context.Background(), "token-1", "找不到客戶 A (B) 的交易紀錄。"))

	require.NotNil(t, api.req)
	assert.Equal(t, "token-1", api.req.ReplyToken)
	require.Len(t, api.req.Messages, 1)
	assert.Equal(t, messaging_api.TextMessage{Text: "找不到客戶 A (B) 的交易紀錄。"}, api.req.Messages[0])
}

func TestReply_Error(t *testing.T) {
	api := &mockReplyAPI{err: errors.New("invalid reply token")}

	err := NewClientWithAPI(api).Reply(context.Background(), "expired", "hi")
	assert.ErrorContains(t, err, "invalid reply token")
}

func TestSplitText(t *testing.T) {
	t.Run("short text is untouched", func(t *testing.T) {
		assert.Equal(t, []string{"abc"}, SplitText("abc", 5, 5))
	})

	t.Run("counts characters not bytes", func(t *testing.T) {
		assert.Equal(t, []string{"王小明"}, SplitText("王小明", 3, 5))
	})

	t.Run("emoji count as two units", func(t *testing.T) {
		assert.Equal(t, []string{"📅📅", "📅"}, SplitText("📅📅📅", 4, 5))
		assert.Equal(t, []string{"a", "📅"}, SplitText("a📅", 2, 5))
	})

	t.Run("card fits when its units do", func(t *testing.T) {
		card := "📅 日期：2024-06-01"
		assert.Equal(t, []string{card}, SplitText(card, 16, 5))
		assert.Len(t, SplitText(card, 15, 5), 2)
	})

	t.Run("prefers newline boundaries", func(t *testing.T) {
		parts := SplitText("aaaa\nbbbb\ncc", 8, 5)
		assert.Equal(t, []string{"aaaa\n", "bbbb\ncc"}, parts)
	})

	t.Run("hard cut without newline", func(t *testing.T) {
		assert.Equal(t, []string{"abcd", "efgh", "ij"}, SplitText("abcdefghij", 4, 5))
	})

	t.Run("stops at part limit", func(t *testing.T) {
		parts := SplitText(strings.Repeat("x", 30), 4, 2)
		assert.Equal(t, []string{"xxxx", "xxxx"}, parts)
	})
}
