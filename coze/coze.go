// Package coze implements [brief.Provider] for the Coze v3 chat API.
//
// A chat request is answered with an event stream. Deltas of the answer
// arrive as conversation.message.delta events and are surfaced as
// [brief.EventMessageDelta]; the closing done event is surfaced as
// [brief.EventDone]. Everything else is [brief.EventUnrecognized].
package coze

const (
	defaultBaseURL = "https://api.coze.cn"
	chatPath       = "/v3/chat"

	eventMessageDelta = "conversation.message.delta"
	eventDone         = "done"

	roleUser        = "user"
	contentTypeText = "text"
	typeAnswer      = "answer"

	// maxErrorBody bounds how much of an error response is read.
	maxErrorBody = 64 * 1024
)

// apiRequest is the JSON body sent to the chat endpoint.
type apiRequest struct {
	BotID              string       `json:"bot_id"`
	UserID             string       `json:"user_id"`
	Stream             bool         `json:"stream"`
	AdditionalMessages []apiMessage `json:"additional_messages"`
}

type apiMessage struct {
	Role        string `json:"role"`
	Content     string `json:"content"`
	ContentType string `json:"content_type"`
}

// apiMessageDelta is the data payload of a conversation.message.delta event.
// Content is a pointer so that a missing field can be told apart from an
// empty fragment.
type apiMessageDelta struct {
	Type    string  `json:"type"`
	Content *string `json:"content"`
}

// apiErrorResponse is the JSON body of an error response. The API uses msg;
// some gateways in front of it use message.
type apiErrorResponse struct {
	Code    int    `json:"code"`
	Msg     string `json:"msg"`
	Message string `json:"message"`
}

func (r apiErrorResponse) text() string {
	if r.Message != "" {
		return r.Message
	}
	return r.Msg
}
