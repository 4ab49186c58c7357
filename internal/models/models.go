package models

import (
	"time"

	"github.com/alextreichler/webstudio/internal/i18n"
)

// Translations maps a secondary locale to its translation block.
type Translations[T any] map[i18n.Locale]T

// Get returns the block for loc. The authoring locale never has one.
func (t Translations[T]) Get(loc i18n.Locale) (T, bool) {
	var zero T
	if !loc.Secondary() || t == nil {
		return zero, false
	}
	block, ok := t[loc]
	return block, ok
}

// Complete reports whether every target locale has a block.
func (t Translations[T]) Complete() bool {
	for _, loc := range i18n.Targets {
		if _, ok := t[loc]; !ok {
			return false
		}
	}
	return true
}

type ArticleTranslation struct {
	Title    string `json:"title"`
	Excerpt  string `json:"excerpt"`
	Content  string `json:"content"`
	Category string `json:"category"`
}

type Article struct {
	ID           int64                            `json:"id"`
	Title        string                           `json:"title"`
	Excerpt      string                           `json:"excerpt"`
	Content      string                           `json:"content"`
	Image        string                           `json:"image"`
	Category     string                           `json:"category"`
	CategoryKey  CategoryKey                      `json:"category_key"`
	ReadTime     int                              `json:"read_time"` // minutes
	Date         string                           `json:"date"`      // display string
	Translations Translations[ArticleTranslation] `json:"translations,omitempty"`
	CreatedAt    time.Time                        `json:"created_at"`
	UpdatedAt    *time.Time                       `json:"updated_at,omitempty"`
}

// ProjectTranslation carries the source title alongside the translated
// fields; projection never reads it.
type ProjectTranslation struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	Problem  string `json:"problem"`
	Solution string `json:"solution"`
	Result   string `json:"result"`
}

type Project struct {
	ID           int64                            `json:"id"`
	Priority     int                              `json:"priority"`
	Type         ProjectType                      `json:"type"`
	Title        string                           `json:"title"`
	Category     string                           `json:"category"`
	Image        string                           `json:"image"`
	Images       []string                         `json:"images"`
	Problem      string                           `json:"problem"`
	Solution     string                           `json:"solution"`
	Result       string                           `json:"result"`
	Website      *string                          `json:"website,omitempty"`
	Technologies []string                         `json:"technologies,omitempty"`
	Client       *string                          `json:"client,omitempty"`
	Date         *string                          `json:"date,omitempty"`
	Translations Translations[ProjectTranslation] `json:"translations,omitempty"`
	CreatedAt    time.Time                        `json:"created_at"`
}

// Contact is the site-wide contact block shown on every public page.
type Contact struct {
	ID            int64     `json:"id"`
	Phone         string    `json:"phone"`
	Email         string    `json:"email"`
	Address       string    `json:"address"`
	WhatsAppLink  string    `json:"whatsapp_link"`
	TelegramLink  string    `json:"telegram_link"`
	FacebookLink  *string   `json:"facebook_link,omitempty"`
	InstagramLink *string   `json:"instagram_link,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type ContactRequest struct {
	ID          int64         `json:"id"`
	Name        string        `json:"name"`
	Email       string        `json:"email"`
	Phone       string        `json:"phone"`
	ProjectType InquiryType   `json:"project_type"`
	Message     string        `json:"message"`
	Status      RequestStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
}

type Subscriber struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// SubscribeOutcome distinguishes a fresh subscription from a repeat one.
type SubscribeOutcome string

const (
	Subscribed        SubscribeOutcome = "success"
	AlreadySubscribed SubscribeOutcome = "already_subscribed"
)

type AnalyticsSession struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id"`
	VisitorID string    `json:"visitor_id"`
	PagePath  string    `json:"page_path"`
	Referrer  *string   `json:"referrer,omitempty"`
	UserAgent string    `json:"user_agent"`
	Duration  int       `json:"duration"` // seconds
	CreatedAt time.Time `json:"created_at"`
}

type AnalyticsEvent struct {
	ID         int64     `json:"id"`
	SessionID  string    `json:"session_id"`
	EventType  string    `json:"event_type"`
	EventName  string    `json:"event_name"`
	EventLabel *string   `json:"event_label,omitempty"`
	PagePath   string    `json:"page_path"`
	CreatedAt  time.Time `json:"created_at"`
}

type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}
