package goodreads

import (
	"fmt"
	"log"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"github.com/spf13/cast"
)

// BookRecord is the normalized form of one shelf feed entry.
// Title is never empty; every other field may be zero or nil.
type BookRecord struct {
	Title            string     `json:"title"`
	Author           string     `json:"author"`
	CoverURL         string     `json:"cover_url"`
	Shelves          []string   `json:"shelves"`
	AverageRating    *float64   `json:"average_rating,omitempty"`
	UserRating       *int       `json:"user_rating,omitempty"`
	YearPublished    *int       `json:"year_published,omitempty"`
	DateAddedToShelf *time.Time `json:"date_added_to_shelf,omitempty"`
	DateRead         *time.Time `json:"date_read,omitempty"`
}

func (b BookRecord) String() string {
	author := b.Author
	if author == "" {
		author = "(no author)"
	}
	return fmt.Sprintf("%q by %s, shelves=%v", b.Title, author, b.Shelves)
}

// ParseOptions controls record normalization.
type ParseOptions struct {
	// CleanupTitle shortens titles with CleanupTitle.
	CleanupTitle bool
}

var descriptionAuthorRe = regexp.MustCompile(`by (.*?)<br`)

// ParseBook normalizes one feed item. It returns false, after logging which
// item was rejected, when the item has no title.
func ParseBook(item *gofeed.Item, opts ParseOptions) (BookRecord, bool) {
	entry := describeItem(item)

	title := FieldText(item, FieldTitle)
	if title == "" {
		log.Printf("Goodreads feed: failed to parse title for item %s, skipping", entry)
		return BookRecord{}, false
	}

	if opts.CleanupTitle {
		if clean := CleanupTitle(title); clean != "" {
			title = clean
		} else {
			log.Printf("Goodreads feed: title %q is empty after cleanup, keeping it as is", title)
		}
	}

	description := FieldText(item, FieldDescription)

	return BookRecord{
		Title:            title,
		Author:           parseAuthor(item, description),
		CoverURL:         parseCoverURL(item, description),
		Shelves:          parseShelves(FieldText(item, FieldUserShelves)),
		AverageRating:    parseFloat(FieldText(item, FieldAverageRating), FieldAverageRating, entry),
		UserRating:       parseInt(FieldText(item, FieldUserRating), FieldUserRating, entry),
		YearPublished:    parseInt(FieldText(item, FieldBookPublished), FieldBookPublished, entry),
		DateAddedToShelf: parseDate(FieldText(item, FieldUserDateAdded), FieldUserDateAdded, entry),
		DateRead:         parseDate(FieldText(item, FieldUserReadAt), FieldUserReadAt, entry),
	}, true
}

// parseShelves splits the comma separated shelf list. An empty field yields a
// single empty shelf name, the same as splitting "" on a comma.
func parseShelves(raw string) []string {
	parts := strings.Split(raw, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

func parseAuthor(item *gofeed.Item, description string) string {
	if author := FieldText(item, FieldAuthorName); author != "" {
		return author
	}
	if m := descriptionAuthorRe.FindStringSubmatch(description); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

func parseCoverURL(item *gofeed.Item, description string) string {
	for _, field := range []string{FieldBookImageURL, FieldBookLargeURL, FieldBookMediumURL} {
		if u := FieldText(item, field); u != "" {
			return u
		}
	}
	if description == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(description))
	if err != nil {
		return ""
	}
	src, _ := doc.Find("img").First().Attr("src")
	return strings.TrimSpace(src)
}

// Malformed numbers and dates are logged and treated as absent.

func parseFloat(raw, field, entry string) *float64 {
	if raw == "" {
		return nil
	}
	v, err := cast.ToFloat64E(raw)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		log.Printf("Goodreads feed: ignoring malformed %s %q for item %s", field, raw, entry)
		return nil
	}
	return &v
}

func parseInt(raw, field, entry string) *int {
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("Goodreads feed: ignoring malformed %s %q for item %s", field, raw, entry)
		return nil
	}
	return &v
}

func parseDate(raw, field, entry string) *time.Time {
	if raw == "" {
		return nil
	}
	v, err := cast.ToTimeE(raw)
	if err != nil {
		log.Printf("Goodreads feed: ignoring malformed %s %q for item %s", field, raw, entry)
		return nil
	}
	return &v
}

func describeItem(item *gofeed.Item) string {
	for _, field := range []string{FieldGUID, FieldLink, FieldTitle} {
		if v := FieldText(item, field); v != "" {
			return v
		}
	}
	return "(unidentified)"
}
