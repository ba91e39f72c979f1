package goodreads

import (
	"strings"

	"github.com/mmcdole/gofeed"
)

// Item element names used by the Goodreads shelf feed.
const (
	FieldTitle         = "title"
	FieldLink          = "link"
	FieldGUID          = "guid"
	FieldDescription   = "description"
	FieldAuthorName    = "author_name"
	FieldBookImageURL  = "book_image_url"
	FieldBookMediumURL = "book_medium_image_url"
	FieldBookLargeURL  = "book_large_image_url"
	FieldUserShelves   = "user_shelves"
	FieldAverageRating = "average_rating"
	FieldUserRating    = "user_rating"
	FieldUserReadAt    = "user_read_at"
	FieldUserDateAdded = "user_date_added"
	FieldBookPublished = "book_published"
)

// FieldText returns the trimmed text of the named element of a feed item, or
// "" when the item has no such element.
func FieldText(item *gofeed.Item, name string) string {
	if item == nil {
		return ""
	}

	switch name {
	case FieldTitle:
		return strings.TrimSpace(item.Title)
	case FieldLink:
		return strings.TrimSpace(item.Link)
	case FieldGUID:
		return strings.TrimSpace(item.GUID)
	case FieldDescription:
		return strings.TrimSpace(item.Description)
	}

	if item.Custom == nil {
		return ""
	}
	return strings.TrimSpace(item.Custom[name])
}
