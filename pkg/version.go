package wordcache

// Version is the current release of wordcache.
const Version = "0.1.0"
