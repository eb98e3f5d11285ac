package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	SelectVideos Phase = iota
	LookupTitles
	ApplyTitles
	ExportPlaylist
)

func (p Phase) String() string {
	switch p {
	case SelectVideos:
		return "select_videos"
	case LookupTitles:
		return "lookup_titles"
	case ApplyTitles:
		return "apply_titles"
	case ExportPlaylist:
		return "export_playlist"
	default:
		return ""
	}
}

func selectVideosUpdate(total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SelectVideos,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found %d videos to enrich in %s", total, name),
	}
}

func lookupTitleUpdate(step, total int, r TitleResult) ProgressUpdate {
	if r.Err != nil {
		return ProgressUpdate{
			Phase:   LookupTitles,
			Step:    step,
			Total:   total,
			Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, r.URL, r.Err),
			Data:    r,
		}
	}
	return ProgressUpdate{
		Phase:   LookupTitles,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s", step, total, r.Title),
		Data:    r,
	}
}

func applyTitlesUpdate(updated, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ApplyTitles,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Updated %d of %d titles", updated, total),
	}
}

func exportCompletedUpdate(step, total int, name string, path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%s)", step, total, name, path),
	}
}

func exportFailedUpdate(step, total int, name string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, name, err),
	}
}
