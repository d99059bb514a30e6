package ui

import (
	"context"
	"errors"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/lookout/internal/resolve"
	"github.com/five82/lookout/internal/timeline"
)

// frameKey identifies a frame across reloads: the same image of the same
// manifest is not displayed twice in a row.
func frameKey(d timeline.Descriptor) string {
	return d.ManifestURL + "#" + d.Hour.String() + "#" + d.Src
}

// displayCmd resolves the preferred variant of d and, with preview on,
// fetches the image. Results of superseded requests are dropped.
func (m Model) displayCmd(token uint64, d timeline.Descriptor) tea.Cmd {
	ctx, slot, resolver, fetcher, preview := m.ctx, m.slot, m.resolver, m.fetcher, m.preview
	k := frameKey(d)

	return func() tea.Msg {
		variant := resolve.PreferredVariant(d.Image)
		url := resolve.Fallback(d.ManifestURL, d.Image, variant)
		if resolver != nil {
			resolved, err := resolver.ResolveFor(ctx, slot, token, d.ManifestURL, d.Image, variant)
			switch {
			case errors.Is(err, resolve.ErrStale):
				return nil
			case err != nil:
				log.Printf("resolve %s: %v", d.Caption(), err)
			default:
				url = resolved
			}
		}

		msg := frameMsg{token: token, key: k, url: url}
		if !preview || fetcher == nil {
			return msg
		}
		msg.img, msg.err = fetcher.Fetch(ctx, url, d.ManifestURL)
		if !slot.Current(token) {
			return nil
		}
		if msg.err != nil {
			log.Printf("display %s: %v", d.Caption(), msg.err)
		}
		return msg
	}
}

// preloadCmd warms the resolver cache for the adjacent frames.
func preloadCmd(ctx context.Context, resolver *resolve.Resolver, frames []timeline.Descriptor) tea.Cmd {
	if len(frames) == 0 {
		return nil
	}
	return func() tea.Msg {
		resolver.Preload(ctx, frames)
		return nil
	}
}
