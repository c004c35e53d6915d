package hound

import (
	"context"
	"encoding/json"
	"maps"
)

// Conversation threads the service's ConversationState across successive
// calls. A new Conversation starts with no state; each successful response
// with at least one result replaces the stored state with the first result's
// ConversationState.
//
// A Conversation is not safe for concurrent use: the stored state is read
// before a call and written after it, so concurrent calls on one value race.
// Serialize calls, or use one Conversation per dialog.
type Conversation struct {
	client *Client
	state  json.RawMessage
	logger *HoundLogger
}

func NewConversation(client *Client) *Conversation {
	return &Conversation{
		client: client,
		logger: client.logger.WithComponent("Conversation"),
	}
}

// State returns the stored ConversationState, or nil before the first
// response that carried one.
func (c *Conversation) State() json.RawMessage {
	return c.state
}

// Active reports whether a ConversationState has been received.
func (c *Conversation) Active() bool {
	return c.state != nil
}

func (c *Conversation) Text(ctx context.Context, query string, info RequestInfo) (*Response, error) {
	resp, err := c.client.Text(ctx, query, c.withState(info))
	if err != nil {
		return nil, err
	}
	c.update(resp)
	return resp, nil
}

func (c *Conversation) Speech(ctx context.Context, audio []byte, info RequestInfo) (*Response, error) {
	resp, err := c.client.Speech(ctx, audio, c.withState(info))
	if err != nil {
		return nil, err
	}
	c.update(resp)
	return resp, nil
}

// withState copies info and sets ConversationState; the caller's map is not
// touched.
func (c *Conversation) withState(info RequestInfo) RequestInfo {
	out := make(RequestInfo, len(info)+1)
	maps.Copy(out, info)
	if c.state != nil {
		out["ConversationState"] = c.state
	} else {
		out["ConversationState"] = map[string]interface{}{}
	}
	return out
}

func (c *Conversation) update(resp *Response) {
	state, ok := resp.conversationState()
	if !ok {
		c.logger.LogConversationEvent("state_kept", c.Active())
		return
	}
	c.state = state
	c.logger.LogConversationEvent("state_updated", true)
}
