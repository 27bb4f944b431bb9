package domain

import (
	"fmt"
	"sort"
	"time"
)

// FilterDay returns the subsequence of events whose PlayedAt falls on the
// same calendar day as day, interpreted in loc. Input order is preserved.
func FilterDay(events []PlayEvent, day time.Time, loc *time.Location) []PlayEvent {
	wantY, wantM, wantD := day.In(loc).Date()
	var out []PlayEvent
	for _, e := range events {
		y, m, d := e.PlayedAt.In(loc).Date()
		if y == wantY && m == wantM && d == wantD {
			out = append(out, e)
		}
	}
	return out
}

// SortByPlayedAt returns a copy of events sorted ascending by PlayedAt.
// Grouping depends on chronological input, and upstream feeds do not always
// guarantee it.
func SortByPlayedAt(events []PlayEvent) []PlayEvent {
	sorted := make([]PlayEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PlayedAt.Before(sorted[j].PlayedAt)
	})
	return sorted
}

// GroupByAlbum partitions events into one group per distinct album id,
// keeping first-seen insertion order across groups and input order within
// each group. The album snapshot comes from the first event seen for it.
func GroupByAlbum(events []PlayEvent) []AlbumPlayGroup {
	index := make(map[string]int, len(events))
	groups := make([]AlbumPlayGroup, 0)
	for _, e := range events {
		i, ok := index[e.Album.ID]
		if !ok {
			i = len(groups)
			index[e.Album.ID] = i
			groups = append(groups, AlbumPlayGroup{Album: e.Album})
		}
		groups[i].Tracks = append(groups[i].Tracks, e)
	}
	return groups
}

// Classify decides whether group was listened to in full and, if so, in what
// order. dayEvents must be the full chronological day sequence the group was
// cut from; it is needed to tell an interrupted listen from a shuffled one.
func Classify(group AlbumPlayGroup, dayEvents []PlayEvent) (CompletionResult, error) {
	if group.Album.TotalTracks <= 0 {
		return CompletionResult{}, fmt.Errorf("album %q: total tracks missing: %w", group.Album.ID, ErrMissingTrackData)
	}

	// Every event must carry an id and positive track/disc numbers before it
	// counts toward completion: events without an id (local-file plays map to
	// "") would otherwise collapse into one distinct track and silently flip
	// the verdict.
	distinct := make(map[string]struct{}, len(group.Tracks))
	for _, e := range group.Tracks {
		if e.TrackID == "" || e.TrackNumber <= 0 || e.DiscNumber <= 0 {
			return CompletionResult{}, fmt.Errorf("track %q: %w", e.TrackID, ErrMissingTrackData)
		}
		distinct[e.TrackID] = struct{}{}
	}

	result := CompletionResult{AlbumID: group.Album.ID, AlbumName: group.Album.Name}
	if len(distinct) < group.Album.TotalTracks {
		return result, nil
	}

	result.Finished = true
	inOrder := tracksInOrder(group.Tracks)
	switch {
	case inOrder && hasForeignInterleave(dayEvents, group.Album.ID):
		result.Order = ListenOrderInterrupted
	case inOrder:
		result.Order = ListenOrderOrdered
	default:
		result.Order = ListenOrderShuffled
	}
	return result, nil
}

// tracksInOrder reports whether the album-internal sequence is a clean
// front-to-back pass. Repeated plays of the same track are tolerated; a disc
// regression or a skipped track number breaks the order. Callers validate
// track metadata before calling.
func tracksInOrder(tracks []PlayEvent) bool {
	prevTrack := 0
	prevDisc := 1
	for _, e := range tracks {
		if e.DiscNumber == prevDisc && e.TrackNumber == prevTrack {
			// Replay of the current track, not a break in order.
			continue
		}
		if e.DiscNumber < prevDisc {
			return false
		}
		if e.DiscNumber > prevDisc {
			// New disc restarts track numbering.
			prevDisc = e.DiscNumber
			prevTrack = 0
		}
		if e.TrackNumber != prevTrack+1 {
			return false
		}
		prevTrack = e.TrackNumber
	}
	return true
}

// hasForeignInterleave reports whether, in the full day sequence, a play of a
// different album sits between two plays of album albumID.
func hasForeignInterleave(dayEvents []PlayEvent, albumID string) bool {
	seenOwn := false
	foreignSince := false
	for _, e := range dayEvents {
		if e.Album.ID == albumID {
			if seenOwn && foreignSince {
				return true
			}
			seenOwn = true
			foreignSince = false
			continue
		}
		if seenOwn {
			foreignSince = true
		}
	}
	return false
}

// AnalyzeDay runs the whole analysis for one calendar day: filter events to
// the day, sort chronologically, group by album, and classify every group.
// Unfinished groups are included in the result; callers decide whether to
// keep them.
func AnalyzeDay(events []PlayEvent, day time.Time, loc *time.Location) ([]CompletionResult, error) {
	dayEvents := SortByPlayedAt(FilterDay(events, day, loc))
	groups := GroupByAlbum(dayEvents)

	results := make([]CompletionResult, 0, len(groups))
	for _, g := range groups {
		res, err := Classify(g, dayEvents)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}
