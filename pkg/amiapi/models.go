package amiapi

import (
	"encoding/json"
	"time"
)

type Visibility string

const (
	VisibilityOpened        Visibility = "opened"
	VisibilityClosed        Visibility = "closed"
	VisibilityLimited       Visibility = "limited"
	VisibilityFollowersOnly Visibility = "followers_only"
	VisibilityDirectOnly    Visibility = "direct_only"
)

func (v Visibility) Valid() bool {
	switch v {
	case VisibilityOpened, VisibilityClosed, VisibilityLimited, VisibilityFollowersOnly, VisibilityDirectOnly:
		return true
	default:
		return false
	}
}

type Badge struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type Account struct {
	AID     string `json:"aid"`
	Name    string `json:"name"`
	NameID  string `json:"name_id"`
	IconURL string `json:"icon_url"`

	BannerURL   string `json:"banner_url,omitempty"`
	Description string `json:"description,omitempty"`
	Birthdate   string `json:"birthdate,omitempty"`
	Visibility  string `json:"visibility,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`

	FollowersCount int `json:"followers_count,omitempty"`
	FollowingCount int `json:"following_count,omitempty"`
	PostsCount     int `json:"posts_count,omitempty"`

	RingColor     string  `json:"ring_color,omitempty"`
	StatusRBColor string  `json:"status_rb_color,omitempty"`
	Badges        []Badge `json:"badges,omitempty"`
}

// EmojiSummary is the emoji identity embedded in a post's reactions.
type EmojiSummary struct {
	AID    string `json:"aid"`
	Name   string `json:"name"`
	NameID string `json:"name_id"`
}

type Emoji struct {
	AID      string `json:"aid"`
	Name     string `json:"name"`
	NameID   string `json:"name_id"`
	ImageURL string `json:"image_url,omitempty"`

	ReactionsCount int  `json:"reactions_count,omitempty"`
	Reacted        bool `json:"reacted,omitempty"`

	Description string `json:"description,omitempty"`
	Group       string `json:"group,omitempty"`
	Subgroup    string `json:"subgroup,omitempty"`
}

func (e Emoji) Summary() EmojiSummary {
	return EmojiSummary{AID: e.AID, Name: e.Name, NameID: e.NameID}
}

type Reaction struct {
	Emoji   EmojiSummary `json:"emoji"`
	Count   int          `json:"reaction_count"`
	Reacted bool         `json:"reacted"`
}

type Media struct {
	AID         string `json:"aid"`
	Name        string `json:"name"`
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url"`
}

type Drawing struct {
	AID         string `json:"aid"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url"`
}

type Post struct {
	AID        string     `json:"aid"`
	Content    string     `json:"content"`
	Visibility Visibility `json:"visibility"`
	CreatedAt  time.Time  `json:"created_at"`

	ReplyPresence bool `json:"reply_presence"`
	QuotePresence bool `json:"quote_presence"`

	RepliesCount   int `json:"replies_count"`
	QuotesCount    int `json:"quotes_count"`
	DiffusesCount  int `json:"diffuses_count"`
	ReactionsCount int `json:"reactions_count"`
	ViewsCount     int `json:"views_count"`

	// Reply and Quote are only ever one level deep.
	Reply *Post `json:"reply,omitempty"`
	Quote *Post `json:"quote,omitempty"`

	IsDiffused bool `json:"is_diffused,omitempty"`
	IsReacted  bool `json:"is_reacted,omitempty"`

	Reactions []Reaction `json:"reactions,omitempty"`
	Images    []Media    `json:"images,omitempty"`
	Videos    []Media    `json:"videos,omitempty"`
	Media     []Media    `json:"media,omitempty"`
	Drawings  []Drawing  `json:"drawings,omitempty"`

	Account Account `json:"account"`

	IsBusy bool `json:"is_busy,omitempty"`
}

// Clone returns a deep copy of the post, safe to mutate independently.
func (p Post) Clone() Post {
	c := p
	c.Reactions = cloneSlice(p.Reactions)
	c.Images = cloneSlice(p.Images)
	c.Videos = cloneSlice(p.Videos)
	c.Media = cloneSlice(p.Media)
	c.Drawings = cloneSlice(p.Drawings)
	c.Account.Badges = cloneSlice(p.Account.Badges)
	if p.Reply != nil {
		reply := p.Reply.Clone()
		c.Reply = &reply
	}
	if p.Quote != nil {
		quote := p.Quote.Clone()
		c.Quote = &quote
	}
	return c
}

// ReactedEmoji returns the emoji the viewer currently reacts with, if any.
func (p Post) ReactedEmoji() (EmojiSummary, bool) {
	for _, r := range p.Reactions {
		if r.Reacted {
			return r.Emoji, true
		}
	}
	return EmojiSummary{}, false
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return append(make([]T, 0, len(s)), s...)
}

// PostDetail is the single post response, carrying its direct replies.
type PostDetail struct {
	Post
	Replies []Post `json:"replies,omitempty"`
}

type FeedItemType string

const (
	FeedItemPost    FeedItemType = "post"
	FeedItemDiffuse FeedItemType = "diffuse"
)

// FeedActor is the account attributed to a diffuse feed item.
type FeedActor struct {
	AID     string `json:"aid"`
	Name    string `json:"name"`
	NameID  string `json:"name_id"`
	IconURL string `json:"icon_url,omitempty"`
}

// FeedItem references a post by aid; it never owns post content.
type FeedItem struct {
	Type      FeedItemType `json:"type"`
	PostAID   string       `json:"post_aid"`
	Account   *FeedActor   `json:"account,omitempty"`
	CreatedAt *time.Time   `json:"created_at,omitempty"`
}

// Page is the response shape shared by feed and search endpoints.
type Page struct {
	Posts []Post     `json:"posts"`
	Feed  []FeedItem `json:"feed,omitempty"`
}

// Empty reports whether the page carries neither posts nor feed items.
func (p *Page) Empty() bool {
	return p == nil || (len(p.Posts) == 0 && len(p.Feed) == 0)
}

// Items returns the page ordering: the explicit feed when the backend ranks
// results, otherwise one post item per post in response order.
func (p *Page) Items() []FeedItem {
	if p == nil {
		return []FeedItem{}
	}
	if len(p.Feed) > 0 {
		return cloneSlice(p.Feed)
	}
	items := make([]FeedItem, 0, len(p.Posts))
	for _, post := range p.Posts {
		items = append(items, FeedItem{Type: FeedItemPost, PostAID: post.AID})
	}
	return items
}

type NotificationAction string

const (
	ActionReaction NotificationAction = "reaction"
	ActionDiffuse  NotificationAction = "diffuse"
	ActionReply    NotificationAction = "reply"
	ActionQuote    NotificationAction = "quote"
	ActionFollow   NotificationAction = "follow"
	ActionMention  NotificationAction = "mention"
	ActionSignin   NotificationAction = "signin"
	ActionSystem   NotificationAction = "system"
)

type Notification struct {
	AID       string             `json:"aid"`
	Action    NotificationAction `json:"action"`
	Content   string             `json:"content,omitempty"`
	Checked   bool               `json:"checked"`
	CreatedAt time.Time          `json:"created_at"`
	Actor     *Account           `json:"actor,omitempty"`
	Post      *Post              `json:"post,omitempty"`
}

type NotificationPage struct {
	Notifications []Notification
	NextCursor    string
}

type RankedWord struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

type Trend struct {
	Category      string       `json:"category"`
	ImageURL      string       `json:"image_url"`
	Title         string       `json:"title"`
	Overview      string       `json:"overview"`
	LastUpdatedAt time.Time    `json:"last_updated_at"`
	Ranking       []RankedWord `json:"ranking"`
}

// trendList accepts either a single trend object or an array of them.
type trendList []Trend

func (l *trendList) UnmarshalJSON(data []byte) error {
	var many []Trend
	if err := json.Unmarshal(data, &many); err == nil {
		*l = many
		return nil
	}

	var one Trend
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	*l = trendList{one}
	return nil
}

// PostReaction is one viewer's reaction, as listed on a post's reactions page.
type PostReaction struct {
	Account Account `json:"account"`
	Emoji   Emoji   `json:"emoji"`
}

type PostReactions struct {
	Reactions []PostReaction `json:"reactions"`
	Emojis    []Emoji        `json:"emojis"`
}

type Session struct {
	Account   *Account `json:"account,omitempty"`
	CSRFToken string   `json:"csrf_token,omitempty"`
}
