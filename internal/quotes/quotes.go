// Package quotes holds the rotating quotes shown on the public page.
package quotes

import "math/rand/v2"

// Quote is an attributed line of text.
type Quote struct {
	Author string `json:"author"`
	Text   string `json:"text"`
}

// All is the fixed list of quotes.
var All = []Quote{
	{Author: "A sneakerhead", Text: "A collection is a diary you can lace up."},
	{Author: "The shop floor", Text: "Every pair has a story; the creases are where it is written."},
	{Author: "Court proverb", Text: "Wear them, clean them, wear them again. Shoes are made for miles, not shelves."},
	{Author: "A collector", Text: "The best pair in the rotation is the one you reach for without thinking."},
}

// Random returns a uniformly chosen quote. A nil r uses the global source.
func Random(r *rand.Rand) Quote {
	if r == nil {
		return All[rand.IntN(len(All))]
	}
	return All[r.IntN(len(All))]
}
