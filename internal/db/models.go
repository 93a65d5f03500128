package db

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Action kinds a user can record about another user.
const (
	ActionFuck  = "fuck"
	ActionMarry = "marry"
	ActionKill  = "kill"
)

// Match types produced by the resolver.
const (
	MatchInstant     = "instant"
	MatchConditional = "conditional"
)

// Message types allowed in a chat.
const (
	MessageText  = "text"
	MessagePhoto = "photo"
	MessageAudio = "audio"
	MessageGift  = "gift"
)

// ValidAction reports whether kind is one of the three action kinds.
func ValidAction(kind string) bool {
	return kind == ActionFuck || kind == ActionMarry || kind == ActionKill
}

// ValidMessageType reports whether t is an allowed message type.
func ValidMessageType(t string) bool {
	return t == MessageText || t == MessagePhoto || t == MessageAudio || t == MessageGift
}

// ValidLanguage reports whether lang is a supported UI language.
func ValidLanguage(lang string) bool {
	return lang == "ru" || lang == "en" || lang == "ar"
}

// ValidTheme reports whether theme is a supported UI theme.
func ValidTheme(theme string) bool {
	return theme == "light" || theme == "dark"
}

// StringList is stored as a JSON array in a TEXT column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal string list: %w", err)
	}
	return string(b), nil
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for string list", value)
	}
	if len(raw) == 0 {
		*l = StringList{}
		return nil
	}
	return json.Unmarshal(raw, l)
}

// User is a mini-app profile keyed by the Telegram user id.
type User struct {
	TelegramUserID int64      `gorm:"primaryKey" json:"telegram_user_id"`
	FirstName      string     `gorm:"size:128" json:"first_name"`
	Username       string     `gorm:"size:64" json:"username"`
	Photos         StringList `gorm:"type:text;not null;default:'[]'" json:"photos"`
	Description    string     `gorm:"size:300" json:"description"`
	Language       string     `gorm:"size:8;not null;default:ru" json:"language"`
	Theme          string     `gorm:"size:8;not null;default:light" json:"theme"`
	FilmGrain      bool       `gorm:"not null;default:true" json:"film_grain"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// Action is a directed edge from one user to another.
//
// Composite PK: (FromUserID, ToUserID) — a single row per ordered pair,
// resubmission overwrites the kind.
type Action struct {
	FromUserID int64     `gorm:"primaryKey" json:"from_user_id"`
	ToUserID   int64     `gorm:"primaryKey;index:idx_actions_to" json:"to_user_id"`
	Kind       string    `gorm:"size:8;not null" json:"action"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	FromUser User `gorm:"foreignKey:FromUserID;references:TelegramUserID;constraint:OnDelete:CASCADE" json:"-"`
	ToUser   User `gorm:"foreignKey:ToUserID;references:TelegramUserID;constraint:OnDelete:CASCADE" json:"-"`
}

// Match is an undirected pairing of two users.
//
// PairKey is the normalized "<minID>:<maxID>" of the member ids and carries
// the unique index, so concurrent inserts of the same pair in either
// orientation collapse into one row instead of racing a lookup.
type Match struct {
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	User1ID  int64  `gorm:"not null;index:idx_matches_user1" json:"user1_id"`
	User2ID  int64  `gorm:"not null;index:idx_matches_user2" json:"user2_id"`
	PairKey  string `gorm:"size:64;not null;uniqueIndex" json:"-"`
	Type     string `gorm:"size:16;not null;index" json:"type"`
	Confirm1 bool   `gorm:"not null;default:false" json:"conditional_confirm_1"`
	Confirm2 bool   `gorm:"not null;default:false" json:"conditional_confirm_2"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	User1 User `gorm:"foreignKey:User1ID;references:TelegramUserID;constraint:OnDelete:CASCADE" json:"-"`
	User2 User `gorm:"foreignKey:User2ID;references:TelegramUserID;constraint:OnDelete:CASCADE" json:"-"`
}

// PairKey normalizes two member ids into the stored unique key.
func PairKey(a, b int64) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d:%d", a, b)
}

// Members returns both member ids.
func (m *Match) Members() (int64, int64) { return m.User1ID, m.User2ID }

// HasMember reports whether userID is one of the two members.
func (m *Match) HasMember(userID int64) bool {
	return m.User1ID == userID || m.User2ID == userID
}

// Active reports whether the match is visible as an open chat: instant, or
// conditional with both confirmations in place.
func (m *Match) Active() bool {
	return m.Type == MatchInstant || (m.Confirm1 && m.Confirm2)
}

// Message belongs to exactly one match. Immutable except for Blurred.
type Message struct {
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	MatchID  int64  `gorm:"not null;index:idx_messages_match" json:"chat_id"`
	SenderID int64  `gorm:"not null" json:"sender_id"`
	Type     string `gorm:"size:8;not null" json:"type"`
	Content  string `gorm:"type:text;not null" json:"content"`
	Blurred  bool   `gorm:"not null;default:false" json:"blurred"`

	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_messages_created" json:"timestamp"`

	Match  Match `gorm:"foreignKey:MatchID;constraint:OnDelete:CASCADE" json:"-"`
	Sender User  `gorm:"foreignKey:SenderID;references:TelegramUserID;constraint:OnDelete:CASCADE" json:"-"`
}
