package reaction

import "amiverse/pkg/amiapi"

// Target names the emoji a toggle applies to, either by aid alone or as a
// full emoji summary.
type Target struct {
	aid   string
	emoji *amiapi.EmojiSummary
}

func ByID(aid string) Target {
	return Target{aid: aid}
}

func ByEmoji(emoji amiapi.EmojiSummary) Target {
	return Target{aid: emoji.AID, emoji: &emoji}
}

func (t Target) AID() string {
	return t.aid
}

// EmojiIndex resolves emoji aids the client has already seen.
type EmojiIndex interface {
	Cached(aid string) (amiapi.Emoji, bool)
}

// resolve turns the target into an emoji summary, preferring what the target
// carries, then the post's own reactions, then the emoji index.
func (t Target) resolve(post amiapi.Post, index EmojiIndex) amiapi.EmojiSummary {
	if t.emoji != nil {
		return *t.emoji
	}

	for _, r := range post.Reactions {
		if r.Emoji.AID == t.aid {
			return r.Emoji
		}
	}

	if index != nil {
		if emoji, ok := index.Cached(t.aid); ok {
			return emoji.Summary()
		}
	}

	return amiapi.EmojiSummary{AID: t.aid}
}
