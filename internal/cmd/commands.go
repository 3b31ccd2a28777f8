package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"amiverse/internal/cmd/flags"
	"amiverse/internal/composer"
	"amiverse/internal/reaction"
	"amiverse/internal/timeline"
	"amiverse/pkg/amiapi"
)

var ErrMissingArgument = errors.New("missing argument")

var feedCmd = &cli.Command{
	Name:  "feed",
	Usage: "Load the feed selected by --feed and print it",
	Flags: []cli.Flag{flags.Pages},
	Action: withSession(func(ctx context.Context, c *cli.Command, s *session) error {
		loader := s.app.Timeline(s.app.CurrentFeed())
		if err := paginate(ctx, loader, int(c.Int("pages"))); err != nil {
			return err
		}

		printEntries(out(c), loader.Entries())
		return nil
	}),
}

var searchCmd = &cli.Command{
	Name:      "search",
	Usage:     "Search posts",
	ArgsUsage: "<query>",
	Flags:     []cli.Flag{flags.Pages},
	Action: withSession(func(ctx context.Context, c *cli.Command, s *session) error {
		query := strings.Join(c.Args().Slice(), " ")
		if query == "" {
			return fmt.Errorf("%w: query", ErrMissingArgument)
		}

		loader := s.app.Search(query)
		if err := paginate(ctx, loader, int(c.Int("pages"))); err != nil {
			return err
		}

		printEntries(out(c), loader.Entries())
		return nil
	}),
}

var postCmd = &cli.Command{
	Name:      "post",
	Usage:     "Show a post with its replies",
	ArgsUsage: "<post-aid>",
	Flags:     []cli.Flag{flags.Dump},
	Action: withSession(func(ctx context.Context, c *cli.Command, s *session) error {
		aid, err := arg(c, 0, "post aid")
		if err != nil {
			return err
		}

		thread, err := s.app.Post(ctx, aid)
		if err != nil {
			return err
		}

		w := out(c)
		if c.Bool("dump") {
			dump(w, thread, isTerminal(w))
			return nil
		}

		if reply := thread.Post.Post.Reply; reply != nil {
			fmt.Fprintln(w, "in reply to")
			printPost(w, *reply, "  ")
			fmt.Fprintln(w)
		}
		printPost(w, thread.Post.Post, "")

		if len(thread.Replies) > 0 {
			fmt.Fprintf(w, "\n%d replies\n", len(thread.Replies))
			for _, e := range thread.Replies {
				printPost(w, e.Post, "  ")
			}
		}
		return nil
	}),
}

var quotesCmd = &cli.Command{
	Name:      "quotes",
	Usage:     "List the posts quoting a post",
	ArgsUsage: "<post-aid>",
	Action: withSession(func(ctx context.Context, c *cli.Command, s *session) error {
		aid, err := arg(c, 0, "post aid")
		if err != nil {
			return err
		}

		entries, err := s.app.Quotes(ctx, aid)
		if err != nil {
			return err
		}

		printEntries(out(c), entries)
		return nil
	}),
}

var reactCmd = &cli.Command{
	Name:      "react",
	Usage:     "Toggle a reaction on a post",
	ArgsUsage: "<post-aid> <emoji-aid>",
	Action: withSession(func(ctx context.Context, c *cli.Command, s *session) error {
		postAID, err := arg(c, 0, "post aid")
		if err != nil {
			return err
		}
		emojiAID, err := arg(c, 1, "emoji aid")
		if err != nil {
			return err
		}

		result, err := s.app.React(ctx, postAID, reaction.ByID(emojiAID))
		if err != nil {
			return err
		}

		printPost(out(c), result.Post, "")
		return nil
	}),
}

var diffusionsCmd = &cli.Command{
	Name:      "diffusions",
	Usage:     "List the accounts that diffused a post",
	ArgsUsage: "<post-aid>",
	Action: withSession(func(ctx context.Context, c *cli.Command, s *session) error {
		aid, err := arg(c, 0, "post aid")
		if err != nil {
			return err
		}

		accounts, err := s.app.Backend.Diffusions(ctx, aid)
		if err != nil {
			return err
		}

		w := out(c)
		for _, a := range accounts {
			fmt.Fprintf(w, "%s @%s\n", a.Name, a.NameID)
		}
		return nil
	}),
}

var reactionsCmd = &cli.Command{
	Name:      "reactions",
	Usage:     "List who reacted to a post, optionally with one emoji",
	ArgsUsage: "<post-aid> [emoji-name-id]",
	Action: withSession(func(ctx context.Context, c *cli.Command, s *session) error {
		aid, err := arg(c, 0, "post aid")
		if err != nil {
			return err
		}

		reactions, err := s.app.Backend.Reactions(ctx, aid, c.Args().Get(1))
		if err != nil {
			return err
		}

		w := out(c)
		for _, r := range reactions.Reactions {
			fmt.Fprintf(w, "%s\t@%s\n", r.Emoji.NameID, r.Account.NameID)
		}
		return nil
	}),
}

var accountCmd = &cli.Command{
	Name:      "account",
	Usage:     "Show an account",
	ArgsUsage: "<name-id>",
	Flags:     []cli.Flag{flags.Dump},
	Action: withSession(func(ctx context.Context, c *cli.Command, s *session) error {
		nameID, err := arg(c, 0, "name id")
		if err != nil {
			return err
		}

		account, err := s.app.Accounts.Fetch(ctx, strings.TrimPrefix(nameID, "@"))
		if err != nil {
			return err
		}

		w := out(c)
		if c.Bool("dump") {
			dump(w, account, isTerminal(w))
			return nil
		}
		printAccount(w, account.Account, account.FetchedAt)
		return nil
	}),
}

var notificationsCmd = &cli.Command{
	Name:  "notifications",
	Usage: "List notifications",
	Flags: []cli.Flag{flags.All},
	Action: withSession(func(ctx context.Context, c *cli.Command, s *session) error {
		list := s.app.Notifications

		fetch := func(ctx context.Context) error { return list.Fetch(ctx, true) }
		if c.Bool("all") {
			fetch = list.FetchAll
		}
		if err := fetch(ctx); err != nil {
			return err
		}

		unread, err := list.RefreshUnread(ctx)
		if err != nil {
			return err
		}

		w := out(c)
		fmt.Fprintf(w, "%d unread\n", unread)
		for _, n := range list.Items() {
			printNotification(w, n)
		}
		if list.State().HasMore {
			fmt.Fprintln(w, "(more available, use --all)")
		}
		return nil
	}),
}

var emojisCmd = &cli.Command{
	Name:      "emojis",
	Usage:     "List emoji groups, or the emojis of one group",
	ArgsUsage: "[group]",
	Action: withSession(func(ctx context.Context, c *cli.Command, s *session) error {
		w := out(c)

		if c.Args().Len() == 0 {
			groups, err := s.app.Emojis.Groups(ctx)
			if err != nil {
				return err
			}
			for _, g := range groups {
				fmt.Fprintln(w, g)
			}
			return nil
		}

		emojis, err := s.app.Emojis.Group(ctx, c.Args().First())
		if err != nil {
			return err
		}
		for _, e := range emojis {
			fmt.Fprintf(w, "%s\t%s\t%s\n", e.AID, e.NameID, e.Name)
		}
		return nil
	}),
}

var trendsCmd = &cli.Command{
	Name:  "trends",
	Usage: "Show the trend board",
	Action: withSession(func(ctx context.Context, c *cli.Command, s *session) error {
		if err := s.app.Trends.Fetch(ctx); err != nil {
			return err
		}

		w := out(c)
		for _, t := range s.app.Trends.All() {
			fmt.Fprintf(w, "%s: %s (updated %s)\n", t.Category, t.Title, t.LastUpdatedAt.Local().Format(timeLayout))
			for i, r := range t.Ranking {
				fmt.Fprintf(w, "  %2d. %s (%d)\n", i+1, r.Word, r.Count)
			}
		}
		return nil
	}),
}

var composeCmd = &cli.Command{
	Name:      "compose",
	Usage:     "Create a post",
	ArgsUsage: "<content>",
	Flags:     []cli.Flag{flags.Visibility, flags.Reply, flags.Quote, flags.Media},
	Action: withSession(func(ctx context.Context, c *cli.Command, s *session) error {
		media, closeMedia, err := openMedia(c.StringSlice("media"))
		if err != nil {
			return err
		}
		defer closeMedia()

		post, err := s.app.Composer.Submit(ctx, composer.Draft{
			Content:    strings.Join(c.Args().Slice(), " "),
			Visibility: amiapi.Visibility(c.String("visibility")),
			ReplyAID:   c.String("reply"),
			QuoteAID:   c.String("quote"),
			Media:      media,
		})
		if err != nil {
			return err
		}

		printPost(out(c), post, "")
		return nil
	}),
}

func paginate(ctx context.Context, loader *timeline.Loader, pages int) error {
	if err := loader.Load(ctx); err != nil {
		return err
	}
	for i := 0; i < pages && loader.State().HasMore; i++ {
		if err := loader.LoadMore(ctx); err != nil {
			return err
		}
	}
	return nil
}

func openMedia(paths []string) ([]amiapi.MediaFile, func(), error) {
	files := make([]*os.File, 0, len(paths))
	closeAll := func() {
		for _, f := range files {
			f.Close() //nolint:errcheck
		}
	}

	media := make([]amiapi.MediaFile, 0, len(paths))
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		files = append(files, f)

		contentType := mime.TypeByExtension(filepath.Ext(path))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		media = append(media, amiapi.MediaFile{Name: filepath.Base(path), ContentType: contentType, Reader: f})
	}

	return media, closeAll, nil
}

func arg(c *cli.Command, i int, name string) (string, error) {
	value := c.Args().Get(i)
	if value == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingArgument, name)
	}
	return value, nil
}

func out(c *cli.Command) io.Writer {
	if w := c.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}
