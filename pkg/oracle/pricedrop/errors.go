package pricedrop

import "errors"

// ErrNoPriceDropFeedFound indicates that no price-drop feed is registered
// for the pair.
var ErrNoPriceDropFeedFound = errors.New("no price drop feed found")
