package normalize

import (
	"bytes"
	"crypto/md5" //nolint:gosec // similarity hash, not a security boundary
	"encoding/hex"
	"net/url"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"
	"github.com/google/uuid"
	"golang.org/x/net/html"

	"github.com/nkotelnikov/fanpulse/internal/core/domain"
)

const (
	captionMaxChars = 500
	hashPrefixChars = 1000
	minTextChars    = 10
)

// Document converts a content item into its normalized document form.
// Returns false when the item has no usable text; such items are skipped
// silently per the error-handling contract.
func Document(item domain.ContentItem) (*domain.Document, bool) {
	title := CleanText(item.Title)
	description := CleanText(extractText(item.Description, item.URL))
	body := CleanText(extractText(item.Body, item.URL))

	caption := Truncate(description, captionMaxChars)

	all := strings.TrimSpace(strings.Join(nonEmpty(title, description, body), " "))
	if all == "" || len(all) < minTextChars {
		return nil, false
	}

	ts := item.PublishedAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	return &domain.Document{
		ID:        "doc_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16],
		ItemID:    item.ID,
		Timestamp: ts,
		Lang:      "en",
		Title:     title,
		Caption:   caption,
		Body:      body,
		Text:      all,
		SimHash:   simHash(all),
	}, true
}

func nonEmpty(parts ...string) []string {
	out := parts[:0]

	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}

	return out
}

func simHash(text string) string {
	prefix := Truncate(strings.ToLower(text), hashPrefixChars)
	sum := md5.Sum([]byte(prefix)) //nolint:gosec // similarity hash only

	return hex.EncodeToString(sum[:])
}

// extractText returns the plain text of a field. Fields that arrive as HTML
// documents go through Readability first; fragments fall back to tag
// stripping. Extraction failures degrade to the raw text.
func extractText(text, rawURL string) string {
	if !looksLikeHTML(text) {
		return text
	}

	if strings.Contains(strings.ToLower(text), "<html") || strings.Contains(strings.ToLower(text), "<body") {
		u, _ := url.Parse(rawURL)

		article, err := readability.FromReader(strings.NewReader(text), u)
		if err == nil && article.TextContent != "" {
			return article.TextContent
		}
	}

	return stripTags(text)
}

func looksLikeHTML(text string) bool {
	open := strings.IndexByte(text, '<')
	if open < 0 {
		return false
	}

	return strings.IndexByte(text[open:], '>') > 0
}

func stripTags(fragment string) string {
	doc, err := html.Parse(bytes.NewReader([]byte(fragment)))
	if err != nil {
		return fragment
	}

	var b strings.Builder

	var traverse func(*html.Node)

	traverse = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}

		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}

	traverse(doc)

	return b.String()
}
