package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/k0kubun/pp"
	"github.com/mattn/go-isatty"

	"amiverse/internal/feed"
	"amiverse/pkg/amiapi"
)

const timeLayout = "2006-01-02 15:04"

func printEntries(w io.Writer, entries []feed.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "(empty)")
		return
	}

	for _, e := range entries {
		if e.Diffused() && e.DiffusedBy != nil {
			header := "diffused by " + e.DiffusedBy.Name + " @" + e.DiffusedBy.NameID
			if e.DiffusedAt != nil {
				header += " at " + e.DiffusedAt.Local().Format(timeLayout)
			}
			fmt.Fprintln(w, header)
		}
		printPost(w, e.Post, "")
		fmt.Fprintln(w)
	}
}

func printPost(w io.Writer, p amiapi.Post, indent string) {
	fmt.Fprintf(w, "%s%s @%s  %s  [%s]\n", indent, p.Account.Name, p.Account.NameID,
		p.CreatedAt.Local().Format(timeLayout), p.AID)

	for _, line := range strings.Split(p.Content, "\n") {
		fmt.Fprintf(w, "%s  %s\n", indent, line)
	}

	if p.Quote != nil {
		fmt.Fprintf(w, "%s  > %s @%s: %s\n", indent, p.Quote.Account.Name, p.Quote.Account.NameID,
			firstLine(p.Quote.Content))
	}

	if n := len(p.Images) + len(p.Videos) + len(p.Media) + len(p.Drawings); n > 0 {
		fmt.Fprintf(w, "%s  [%d attachments]\n", indent, n)
	}

	fmt.Fprintf(w, "%s  replies %d  quotes %d  diffuses %d  reactions %d  views %d\n", indent,
		p.RepliesCount, p.QuotesCount, p.DiffusesCount, p.ReactionsCount, p.ViewsCount)

	if len(p.Reactions) > 0 {
		parts := make([]string, 0, len(p.Reactions))
		for _, r := range p.Reactions {
			mark := ""
			if r.Reacted {
				mark = "*"
			}
			parts = append(parts, fmt.Sprintf("%s%s:%d", mark, emojiLabel(r.Emoji), r.Count))
		}
		fmt.Fprintf(w, "%s  %s\n", indent, strings.Join(parts, " "))
	}
}

func emojiLabel(e amiapi.EmojiSummary) string {
	switch {
	case e.NameID != "":
		return e.NameID
	case e.Name != "":
		return e.Name
	default:
		return e.AID
	}
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

func printNotification(w io.Writer, n amiapi.Notification) {
	mark := " "
	if !n.Checked {
		mark = "*"
	}

	actor := ""
	if n.Actor != nil {
		actor = " @" + n.Actor.NameID
	}

	fmt.Fprintf(w, "%s %s %-8s%s", mark, n.CreatedAt.Local().Format(timeLayout), n.Action, actor)
	if n.Post != nil {
		fmt.Fprintf(w, " on %s", n.Post.AID)
	}
	if n.Content != "" {
		fmt.Fprintf(w, ": %s", firstLine(n.Content))
	}
	fmt.Fprintln(w)
}

func printAccount(w io.Writer, a amiapi.Account, fetchedAt time.Time) {
	fmt.Fprintf(w, "%s @%s  [%s]\n", a.Name, a.NameID, a.AID)
	if a.Description != "" {
		fmt.Fprintf(w, "  %s\n", a.Description)
	}
	fmt.Fprintf(w, "  followers %d  following %d  posts %d\n", a.FollowersCount, a.FollowingCount, a.PostsCount)
	fmt.Fprintf(w, "  fetched at %s\n", fetchedAt.Local().Format(time.RFC3339))
}

func dump(w io.Writer, v any, color bool) {
	pp.ColoringEnabled = color
	pp.Fprintln(w, v) //nolint:errcheck
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
