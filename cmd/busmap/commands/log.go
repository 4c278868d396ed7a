package commands

import (
	"fmt"
	"io"
	"sort"

	"github.com/busmap/busmap-go/pkg/log"
)

// ParseStageFlag parses a -stage flag value. The empty string means any.
func ParseStageFlag(s string) (*log.Stage, error) {
	if s == "" {
		return nil, nil
	}
	st, ok := log.ParseStage(s)
	if !ok {
		return nil, fmt.Errorf("unknown stage: %s (supported: layout, bind, remap, connect)", s)
	}
	return &st, nil
}

// ParseCategoryFlag parses a -category flag value. The empty string means any.
func ParseCategoryFlag(s string) (*log.Category, error) {
	if s == "" {
		return nil, nil
	}
	c, ok := log.ParseCategory(s)
	if !ok {
		return nil, fmt.Errorf("unknown category: %s (supported: field, region, summary, connection, error)", s)
	}
	return &c, nil
}

// RunLogView prints the events of a log file that match filter.
func RunLogView(path string, filter log.Filter, w io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(w, event)
	}
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	fmt.Fprintf(w, "%s [elab:%s] %-7s %-10s %s\n", ts, shortenID(event.ElaborationID),
		event.Stage, event.Category, event.Subject)

	switch {
	case event.Field != nil:
		f := event.Field
		fmt.Fprintf(w, "  %s [%d, %d) %s", f.Path, f.Start, f.End, f.Kind)
		if f.Interface != "" {
			fmt.Fprintf(w, " -> %s<%d>", f.Interface, f.DataWidth)
		}
		if f.Access != "" {
			fmt.Fprintf(w, " %s", f.Access)
		}
		fmt.Fprintln(w)
	case event.Region != nil:
		r := event.Region
		fmt.Fprintf(w, "  [%#x, %#x) -> %#x", r.OffsetIn, r.OffsetIn+r.Size, r.OffsetOut)
		if r.Aligned {
			fmt.Fprint(w, " aligned")
		}
		fmt.Fprintln(w)
	case event.Summary != nil:
		s := event.Summary
		fmt.Fprintf(w, "  %d entries, [%#x, %#x), width %d, step %d", s.Entries, s.MinAddr, s.MaxAddr, s.AddrWidth, s.AddrStep)
		if s.Duration > 0 {
			fmt.Fprintf(w, " in %s", s.Duration)
		}
		fmt.Fprintln(w)
	case event.Connection != nil:
		c := event.Connection
		fmt.Fprintf(w, "  %s %s", c.Path, c.Kind)
		if c.Target != "" {
			fmt.Fprintf(w, " <- %s", c.Target)
		}
		fmt.Fprintln(w)
	case event.Error != nil:
		e := event.Error
		if e.Class != "" {
			fmt.Fprintf(w, "  %s: %s\n", e.Class, e.Message)
		} else {
			fmt.Fprintf(w, "  %s\n", e.Message)
		}
	}
}

// shortenID returns the first 8 characters of an elaboration ID.
func shortenID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

// LogStats holds aggregate statistics about a log file.
type LogStats struct {
	TotalEvents      int
	EventsByStage    map[log.Stage]int
	EventsByCategory map[log.Category]int
	Elaborations     map[string]string // ID to subject
	Errors           int
}

// RunLogStats analyzes the log file and prints statistics.
func RunLogStats(path string, w io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := &LogStats{
		EventsByStage:    make(map[log.Stage]int),
		EventsByCategory: make(map[log.Category]int),
		Elaborations:     make(map[string]string),
	}
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		stats.TotalEvents++
		stats.EventsByStage[event.Stage]++
		stats.EventsByCategory[event.Category]++
		if event.ElaborationID != "" {
			stats.Elaborations[event.ElaborationID] = event.Subject
		}
		if event.Error != nil {
			stats.Errors++
		}
	}

	fmt.Fprintf(w, "Total events: %d\n", stats.TotalEvents)
	fmt.Fprintf(w, "Elaborations: %d\n", len(stats.Elaborations))
	fmt.Fprintf(w, "Errors: %d\n\n", stats.Errors)

	fmt.Fprintln(w, "By stage:")
	for st := log.StageLayout; st <= log.StageConnect; st++ {
		if n := stats.EventsByStage[st]; n > 0 {
			fmt.Fprintf(w, "  %s: %d\n", st, n)
		}
	}
	fmt.Fprintln(w, "By category:")
	for c := log.CategoryField; c <= log.CategoryError; c++ {
		if n := stats.EventsByCategory[c]; n > 0 {
			fmt.Fprintf(w, "  %s: %d\n", c, n)
		}
	}

	if len(stats.Elaborations) > 0 {
		ids := make([]string, 0, len(stats.Elaborations))
		for id := range stats.Elaborations {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		fmt.Fprintln(w, "Subjects:")
		for _, id := range ids {
			fmt.Fprintf(w, "  %s %s\n", shortenID(id), stats.Elaborations[id])
		}
	}
	return nil
}
