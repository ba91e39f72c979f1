package goodreads

import (
	"log"

	"github.com/mmcdole/gofeed"
)

// ParseBooks normalizes every item of a parsed shelf feed, in feed order.
// Items without a title are left out.
func ParseBooks(feed *gofeed.Feed, opts ParseOptions) []BookRecord {
	if feed == nil {
		return nil
	}

	log.Printf("Goodreads feed: found %d book(s) in feed", len(feed.Items))

	books := make([]BookRecord, 0, len(feed.Items))
	for _, item := range feed.Items {
		book, ok := ParseBook(item, opts)
		if !ok {
			continue
		}
		log.Printf("Goodreads feed: parsed %s", book)
		books = append(books, book)
	}

	return books
}
