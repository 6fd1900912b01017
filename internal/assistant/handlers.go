package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nadzzz/jarvisd/internal/intent"
	"github.com/nadzzz/jarvisd/internal/news"
)

// handle runs the handler bound to a classification and returns the spoken
// response. Every returned error is an adapter failure; Dispatch converts it
// to an apology.
func (a *Assistant) handle(ctx context.Context, c intent.Classification) (string, error) {
	switch c.Intent {
	case intent.OpenSite:
		return a.handleOpenSite(c.Site)
	case intent.PlayMusic:
		return a.handlePlayMusic(c.Song)
	case intent.GetNews:
		return a.handleNews(ctx, c.Category)
	case intent.GetTime:
		return fmt.Sprintf("The current time is %s.", a.now().Format("3:04 PM")), nil
	case intent.GetDate:
		return fmt.Sprintf("Today is %s.", a.now().Format("January 2, 2006")), nil
	case intent.Converse:
		return a.responder.Generate(ctx, c.Prompt)
	default:
		// Classify never produces anything else; absorb rather than crash.
		return a.responder.Generate(ctx, c.Prompt)
	}
}

func (a *Assistant) handleOpenSite(site string) (string, error) {
	url, ok := a.sites[site]
	if !ok {
		return "", fmt.Errorf("site %q not in registry", site)
	}
	if err := a.launcher.Open(url); err != nil {
		return "", fmt.Errorf("opening %s: %w", site, err)
	}
	return fmt.Sprintf("Opening %s.", site), nil
}

func (a *Assistant) handlePlayMusic(song string) (string, error) {
	url, ok := a.music[song]
	if !ok {
		return "", fmt.Errorf("song %q not in library", song)
	}
	if err := a.launcher.Open(url); err != nil {
		return "", fmt.Errorf("playing %s: %w", song, err)
	}
	return fmt.Sprintf("Playing %s.", song), nil
}

func (a *Assistant) handleNews(ctx context.Context, category string) (string, error) {
	headlines, err := a.news.TopHeadlines(ctx, category)
	if err != nil {
		return "", fmt.Errorf("fetching %s headlines: %w", category, err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Here are the top %d headlines. ", len(headlines))
	for i, h := range headlines {
		fmt.Fprintf(&sb, "News %d: %s. ", i+1, h)
	}
	return strings.TrimSpace(sb.String()), nil
}

// apology maps a failed intent to the response spoken in its place. A news
// failure caused by a missing API key is called out separately so the user
// hears why news is unavailable.
func apology(i intent.Intent, err error) string {
	switch i {
	case intent.OpenSite:
		return "Sorry, I couldn't open that site."
	case intent.PlayMusic:
		return "Sorry, I couldn't find that in my music library."
	case intent.GetNews:
		if errors.Is(err, news.ErrDisabled) {
			return "The news service is not configured."
		}
		return "I'm having trouble reaching the news service."
	default:
		return "I'm having trouble processing that request right now."
	}
}
