package media

import (
	"fmt"
	"strings"
)

// EmbedURL normalizes a YouTube URL to its embeddable form,
// https://www.youtube.com/embed/<id>. Accepted inputs are watch URLs,
// youtu.be short links and already-embedded URLs. Anything else is
// rejected so the document only ever stores embeddable URLs.
func EmbedURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)

	var id string
	switch {
	case strings.Contains(raw, "youtube.com/watch?v="):
		id = cutAny(after(raw, "v="), "&")
	case strings.Contains(raw, "youtu.be/"):
		id = cutAny(after(raw, "youtu.be/"), "?")
	case strings.Contains(raw, "/embed/"):
		id = cutAny(after(raw, "/embed/"), "?")
	}

	if id == "" {
		return "", fmt.Errorf("not a recognizable youtube url: %q", raw)
	}
	return "https://www.youtube.com/embed/" + id, nil
}

func after(s, sep string) string {
	_, rest, _ := strings.Cut(s, sep)
	return rest
}

func cutAny(s, sep string) string {
	head, _, _ := strings.Cut(s, sep)
	return head
}
