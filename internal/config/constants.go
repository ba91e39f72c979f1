package config

const (
	// DefaultDatabasePath is the default path for the application database
	DefaultDatabasePath = "./shelfgraph.db"

	// DefaultAllowedHosts lists the origins a shelf feed may be fetched from
	DefaultAllowedHosts = "goodreads.com,www.goodreads.com"
)
