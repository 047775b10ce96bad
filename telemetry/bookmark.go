package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkFlockFormed    BookmarkType = "flock_formed"
	BookmarkFlockScattered BookmarkType = "flock_scattered"
	BookmarkBudgetSpike    BookmarkType = "budget_spike"
	BookmarkSteadyFlock    BookmarkType = "steady_flock"
	BookmarkCrowdingSurge  BookmarkType = "crowding_surge"
)

// Thresholds on polarization (|mean heading|).
const (
	orderedPolarization    = 0.9
	disorderedPolarization = 0.3
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int32        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in the flock's history.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	ordered            bool    // polarization was above orderedPolarization
	recentPolarPeak    float64 // peak polarization since the last scatter
	steadyWindowsCount int     // consecutive windows with low polarization variance
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for steady flock detection
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkFlockFormed(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkFlockScattered(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkBudgetSpike(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkCrowdingSurge(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkSteadyFlock(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)
	if stats.Polarization > bd.recentPolarPeak {
		bd.recentPolarPeak = stats.Polarization
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// getHistory returns the recorded windows oldest first.
func (bd *BookmarkDetector) getHistory() []WindowStats {
	if !bd.historyFull {
		return bd.history[:bd.historyIdx]
	}
	out := make([]WindowStats, 0, bd.historySize)
	out = append(out, bd.history[bd.historyIdx:]...)
	return append(out, bd.history[:bd.historyIdx]...)
}

func (bd *BookmarkDetector) checkFlockFormed(stats WindowStats) *Bookmark {
	if bd.ordered || stats.Polarization < orderedPolarization {
		return nil
	}
	bd.ordered = true
	return &Bookmark{
		Type:        BookmarkFlockFormed,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Polarization reached %.2f with %d agents", stats.Polarization, stats.Agents),
	}
}

func (bd *BookmarkDetector) checkFlockScattered(stats WindowStats) *Bookmark {
	if !bd.ordered || stats.Polarization > disorderedPolarization {
		return nil
	}
	bd.ordered = false
	oldPeak := bd.recentPolarPeak
	bd.recentPolarPeak = stats.Polarization
	return &Bookmark{
		Type:        BookmarkFlockScattered,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Polarization fell from %.2f to %.2f", oldPeak, stats.Polarization),
	}
}

func (bd *BookmarkDetector) checkBudgetSpike(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total float64
	for _, h := range history {
		total += h.SaturatedFrac
	}
	avg := total / float64(len(history))
	if avg == 0 {
		return nil
	}

	if stats.SaturatedFrac > avg*2.0 && stats.SaturatedFrac > 0.2 {
		return &Bookmark{
			Type:        BookmarkBudgetSpike,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Saturated force budgets %.2f is %.1fx average (%.2f)", stats.SaturatedFrac, stats.SaturatedFrac/avg, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkCrowdingSurge(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total float64
	for _, h := range history {
		total += h.NeighborsMean
	}
	avg := total / float64(len(history))
	if avg == 0 {
		return nil
	}

	if stats.NeighborsMean > avg*2.0 && stats.NeighborsMean >= 3 {
		return &Bookmark{
			Type:        BookmarkCrowdingSurge,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Mean neighbors %.1f is %.1fx average (%.1f)", stats.NeighborsMean, stats.NeighborsMean/avg, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkSteadyFlock(stats WindowStats) *Bookmark {
	if stats.Polarization < orderedPolarization {
		bd.steadyWindowsCount = 0
		return nil
	}

	history := bd.getHistory()
	if len(history) < 4 {
		return nil
	}

	recent := history[len(history)-4:]
	var sum float64
	for _, h := range recent {
		sum += h.Polarization
	}
	mean := sum / 4

	var variance float64
	for _, h := range recent {
		d := h.Polarization - mean
		variance += d * d
	}
	variance /= 4

	if variance < 0.001 {
		bd.steadyWindowsCount++
	} else {
		bd.steadyWindowsCount = 0
	}

	if bd.steadyWindowsCount == 5 { // trigger exactly once at 5 windows
		return &Bookmark{
			Type:        BookmarkSteadyFlock,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Flock held polarization %.2f over 5+ windows", stats.Polarization),
		}
	}
	return nil
}
