package reaction

import (
	"github.com/samber/lo"

	"amiverse/pkg/amiapi"
)

// Apply computes the post after the viewer toggles emoji. A viewer holds at
// most one reaction per post: selecting the reacted emoji removes it, any
// other emoji replaces it. removing reports which of the two happened.
func Apply(post amiapi.Post, emoji amiapi.EmojiSummary) (amiapi.Post, bool) {
	next := post.Clone()
	reactions := next.Reactions

	prev, reacted := post.ReactedEmoji()
	removing := reacted && prev.AID == emoji.AID

	if reacted {
		reactions = withdraw(reactions, prev.AID)
		next.ReactionsCount = max(next.ReactionsCount-1, 0)
		next.IsReacted = false
	}

	if !removing {
		_, i, found := lo.FindIndexOf(reactions, func(r amiapi.Reaction) bool {
			return r.Emoji.AID == emoji.AID
		})
		if found {
			reactions[i].Count++
			reactions[i].Reacted = true
		} else {
			reactions = append(reactions, amiapi.Reaction{Emoji: emoji, Count: 1, Reacted: true})
		}
		next.ReactionsCount++
		next.IsReacted = true
	}

	next.Reactions = reactions
	return next, removing
}

// withdraw removes the viewer's reaction with aid, dropping the entry once
// nobody else reacts with it.
func withdraw(reactions []amiapi.Reaction, aid string) []amiapi.Reaction {
	result := make([]amiapi.Reaction, 0, len(reactions))
	for _, r := range reactions {
		if r.Emoji.AID == aid {
			r.Count = max(r.Count-1, 0)
			r.Reacted = false
			if r.Count == 0 {
				continue
			}
		}
		result = append(result, r)
	}
	return result
}
