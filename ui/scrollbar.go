package ui

import "strings"

// Scrollbar is a one column vertical scrollbar on the right of the page
type Scrollbar struct {
	height  int
	enabled bool
	styles  Styles
}

// NewScrollbar creates a new scrollbar instance
func NewScrollbar(styles Styles) *Scrollbar {
	return &Scrollbar{height: 24, styles: styles}
}

// Width returns the scrollbar width (1 character, or 0 if disabled)
func (s *Scrollbar) Width() int {
	if !s.enabled {
		return 0
	}
	return 1
}

// SetHeight sets the scrollbar height
func (s *Scrollbar) SetHeight(height int) {
	if height > 0 {
		s.height = height
	}
}

// SetEnabled enables or disables the scrollbar
func (s *Scrollbar) SetEnabled(enabled bool) {
	s.enabled = enabled
}

// IsEnabled returns whether the scrollbar is enabled
func (s *Scrollbar) IsEnabled() bool {
	return s.enabled
}

// SetStyles updates the styles for runtime theme changes
func (s *Scrollbar) SetStyles(styles Styles) {
	s.styles = styles
}

// thumb returns the first row and size of the thumb for a page scrolled to
// top, showing viewHeight of contentHeight rows.
func (s *Scrollbar) thumb(top, viewHeight, contentHeight int) (start, size int) {
	viewHeight = max(viewHeight, 1)
	maxTop := contentHeight - viewHeight
	if maxTop <= 0 {
		return 0, s.height
	}
	// int64 keeps huge pages from overflowing
	size = int(int64(viewHeight) * int64(s.height) / int64(contentHeight))
	size = min(max(size, 1), s.height)
	top = min(max(top, 0), maxTop)
	if span := s.height - size; span > 0 {
		start = int(int64(top) * int64(span) / int64(maxTop))
	}
	return start, size
}

// Render renders the scrollbar as one string per row
func (s *Scrollbar) Render(top, viewHeight, contentHeight int) []string {
	if !s.enabled || s.height <= 0 {
		return nil
	}

	trackChar, thumbChar := "│", "┃"
	if s.styles.ASCII {
		trackChar, thumbChar = "|", "#"
	}
	color := ColorToANSIFg(s.styles.Theme.UI.ScrollbarFg)
	start, size := s.thumb(top, viewHeight, contentHeight)

	rows := make([]string, s.height)
	for row := range rows {
		var sb strings.Builder
		sb.WriteString(color)
		if row >= start && row < start+size {
			sb.WriteString("\033[1m")
			sb.WriteString(thumbChar)
		} else {
			sb.WriteString(trackChar)
		}
		sb.WriteString(resetCode)
		rows[row] = sb.String()
	}
	return rows
}

// RowToTop converts a click on a scrollbar row to the scroll offset that
// centres the page on it
func (s *Scrollbar) RowToTop(row, viewHeight, contentHeight int) int {
	maxTop := contentHeight - viewHeight
	if maxTop <= 0 || s.height <= 1 {
		return 0
	}
	row = min(max(row, 0), s.height-1)
	_, size := s.thumb(0, viewHeight, contentHeight)
	span := s.height - size
	if span <= 0 {
		return 0
	}
	top := int(int64(row-size/2) * int64(maxTop) / int64(span))
	return min(max(top, 0), maxTop)
}
