// Package track follows detected features across an ordered sequence of
// spectra.
//
// A [Tracker] is the single accumulator threaded through the temperature
// sequence: each call to [Tracker.Extend] consumes the features of the next
// spectrum, matches them against the most recent populated position of every
// track, and appends exactly one slot per track. Tracks that find no partner
// receive an explicit missing slot (nil) and stay eligible for later
// spectra, so a band that drops below the detection threshold for one
// temperature keeps its identity. Unmatched features start new tracks.
//
// # Tolerance
//
// The matching tolerance (cm^-1, inclusive) is the dominant tuning knob. Too
// large and neighbouring bands are merged into one track (false merges); too
// small and ordinary thermal drift splits one band into several tracks
// (spurious new tracks with matching appear/disappear pairs).
//
// Within one Extend call a larger tolerance never loses a [Greedy] pair: every
// pair inside the smaller tolerance sorts before any pair outside it. Across
// steps there is no such guarantee. A larger tolerance can link a feature
// earlier, which moves the track's last position and changes every later
// match, so two features that share a track at one tolerance may be split at
// a larger one.
//
// # Matchers
//
// [Greedy] pairs candidates nearest-first: all in-tolerance (track, feature)
// pairs are sorted by distance, ties broken by lower track ID and then lower
// feature position, and assigned while both sides are free. [Optimal] solves
// the min-cost assignment instead, maximizing the number of matches first and
// minimizing total distance second. Greedy is the default.
package track
