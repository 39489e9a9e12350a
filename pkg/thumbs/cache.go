package thumbs

// Cache stores rendered thumbnail bytes keyed by source path digest.
//
// Implementations must be safe for concurrent use; the HTTP layer renders
// thumbnails from many requests at once. A miss is (ok=false, err=nil);
// errors are reserved for storage failures.
type Cache interface {
	Get(key string) (data []byte, ok bool, err error)
	Set(key string, data []byte) error
	Close() error
}
