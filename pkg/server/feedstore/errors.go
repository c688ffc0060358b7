package feedstore

import "errors"

// ErrNoValueStored indicates that no value has been written for the feed.
var ErrNoValueStored = errors.New("no value stored")
