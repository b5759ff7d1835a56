// Package line sends replies through the LINE Messaging API.
package line

import (
	"context"
	"fmt"
	"unicode/utf16"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
)

// Messaging API limits for a reply.
const (
	MaxTextLength       = 5000 // UTF-16 code units per text message
	MaxMessagesPerReply = 5
)

// ReplyAPI is the subset of the Messaging API client used to answer events.
type ReplyAPI interface {
	ReplyMessage(req *messaging_api.ReplyMessageRequest) (*messaging_api.ReplyMessageResponse, error)
}

// Client replies to webhook events with text messages.
type Client struct {
	api ReplyAPI
}

// NewClient creates a Messaging API client for the channel access token.
func NewClient(channelToken string) (*Client, error) {
	api, err := messaging_api.NewMessagingApiAPI(channelToken)
	if err != nil {
		return nil, fmt.Errorf("NewClient: creating messaging api client: %w", err)
	}
	return &Client{api: api}, nil
}

// NewClientWithAPI wraps an existing ReplyAPI.
func NewClientWithAPI(api ReplyAPI) *Client {
	return &Client{api: api}
}

// Reply answers the event identified by replyToken. Text longer than one message is
// split across several; anything beyond the reply limit is dropped.
func (c *Client) Reply(ctx context.Context, replyToken, text string) error {
	chunks := SplitText(text, MaxTextLength, MaxMessagesPerReply)

	messages := make([]messaging_api.MessageInterface, 0, len(chunks))
	for _, chunk := range chunks {
		messages = append(messages, messaging_api.TextMessage{Text: chunk})
	}

	if _, err := c.api.ReplyMessage(&messaging_api.ReplyMessageRequest{
		ReplyToken: replyToken,
		Messages:   messages,
	}); err != nil {
		return fmt.Errorf("Reply: %w", err)
	}
	return nil
}

// SplitText cuts text into at most maxParts pieces of at most maxLen UTF-16 code units,
// preferring to break after a newline. Emoji outside the BMP count as two units.
func SplitText(text string, maxLen, maxParts int) []string {
	runes := []rune(text)
	if utf16Len(runes) <= maxLen {
		return []string{text}
	}

	var parts []string
	for len(runes) > 0 && len(parts) < maxParts {
		end := fitUnits(runes, maxLen)
		if end == len(runes) {
			parts = append(parts, string(runes))
			break
		}

		cut := end
		for i := end; i > end/2; i-- {
			if runes[i-1] == '\n' {
				cut = i
				break
			}
		}

		parts = append(parts, string(runes[:cut]))
		runes = runes[cut:]
	}
	return parts
}

// fitUnits returns how many leading runes fit in maxLen UTF-16 units, at least one.
func fitUnits(runes []rune, maxLen int) int {
	units := 0
	for i, r := range runes {
		units += runeUnits(r)
		if units > maxLen {
			if i == 0 {
				return 1
			}
			return i
		}
	}
	return len(runes)
}

func utf16Len(runes []rune) int {
	n := 0
	for _, r := range runes {
		n += runeUnits(r)
	}
	return n
}

func runeUnits(r rune) int {
	if n := utf16.RuneLen(r); n > 0 {
		return n
	}
	return 1
}
