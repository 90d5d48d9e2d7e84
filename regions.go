package nbfix

import (
	"regexp"
	"sort"
)

// region is a half-open byte interval [start, end) of a cell's text inside
// which fenced blocks are never extracted.
type region struct {
	start int
	end   int
}

// containerPattern holds the open and close tag patterns of one container tag.
type containerPattern struct {
	name  string
	open  *regexp.Regexp
	close *regexp.Regexp
}

func newContainerPattern(tag string) containerPattern {
	quoted := regexp.QuoteMeta(tag)
	return containerPattern{
		name:  tag,
		open:  regexp.MustCompile(`<` + quoted + `[\s>]`),
		close: regexp.MustCompile(`</` + quoted + `>`),
	}
}

// tagEvent is an open or close tag occurrence. Opens are positioned at the
// start of the tag, closes at its end.
type tagEvent struct {
	pos  int
	open bool
}

// noSplitRegions returns the sorted, merged regions covered by the container
// tags. Each tag is tracked with its own depth counter; nesting across
// different tags is not checked, and stray closing tags are not guarded
// against.
func noSplitRegions(text string, containers []containerPattern) []region {
	var regions []region
	for _, c := range containers {
		regions = append(regions, tagRegions(text, c)...)
	}
	return mergeRegions(regions)
}

func tagRegions(text string, c containerPattern) []region {
	var events []tagEvent
	for _, loc := range c.open.FindAllStringIndex(text, -1) {
		events = append(events, tagEvent{pos: loc[0], open: true})
	}
	for _, loc := range c.close.FindAllStringIndex(text, -1) {
		events = append(events, tagEvent{pos: loc[1]})
	}
	// Stable so an open and a close at the same offset keep open first.
	sort.SliceStable(events, func(i, j int) bool { return events[i].pos < events[j].pos })

	var regions []region
	depth, openPos := 0, 0
	for _, ev := range events {
		if ev.open {
			if depth == 0 {
				openPos = ev.pos
			}
			depth++
			continue
		}
		depth--
		if depth == 0 {
			regions = append(regions, region{start: openPos, end: ev.pos})
		}
	}
	return regions
}

// mergeRegions sorts regions and coalesces those that overlap or touch.
func mergeRegions(regions []region) []region {
	if len(regions) == 0 {
		return nil
	}
	sort.Slice(regions, func(i, j int) bool {
		if regions[i].start != regions[j].start {
			return regions[i].start < regions[j].start
		}
		return regions[i].end < regions[j].end
	})

	merged := []region{regions[0]}
	for _, r := range regions[1:] {
		last := &merged[len(merged)-1]
		if r.start <= last.end {
			last.end = max(last.end, r.end)
			continue
		}
		merged = append(merged, r)
	}
	return merged
}

// inRegion reports whether pos falls inside any of the regions.
func inRegion(pos int, regions []region) bool {
	for _, r := range regions {
		if r.start <= pos && pos < r.end {
			return true
		}
	}
	return false
}
