package models

// WordListDocument is the persisted shape of the forbidden-word list.
// The legacy format carried additional keys next to "filter"; they are
// ignored on load and dropped on the next save.
type WordListDocument struct {
	Filter []string `json:"filter"`
}

// ConversationState tracks where a user is in the admin menu flow.
type ConversationState string

const (
	// StateIdle indicates the user has no conversation in flight.
	StateIdle ConversationState = "idle"
	// StateAwaitingWordList indicates the user's next message is consumed
	// as a comma-separated replacement word list.
	StateAwaitingWordList ConversationState = "awaiting_word_list"
)

// ChatAdmin is one entry of a chat's administrator snapshot, fetched
// fresh for every flagged message. Bot accounts are dropped before the
// snapshot is built.
type ChatAdmin struct {
	UserID   int64
	FullName string
	Username string
}

// Alert carries everything a private admin notification needs. The
// chat's title travels inside ChatLink as the anchor text.
type Alert struct {
	ChatLink        string
	SenderName      string
	SenderUsername  string
	HighlightedBody string
	MessageLink     string
}
