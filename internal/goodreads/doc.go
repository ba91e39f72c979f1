// Package goodreads turns a Goodreads shelf RSS feed into typed book records.
//
// # Pipeline
//
//	feed URL → Client.Fetch → *gofeed.Feed → ParseBooks → []BookRecord
//
// Goodreads publishes its shelf data as non-standard item elements
// (author_name, user_shelves, average_rating, ...). FieldText reads those
// tolerantly: a missing element is the empty string, never an error.
// ParseBook applies the type coercions and ParseBooks drops entries without a
// title while keeping feed order.
package goodreads
