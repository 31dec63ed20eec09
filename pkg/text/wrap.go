package text

import "strings"

// Wrap breaks str into lines that each fit within maxWidth at the given
// size and weight. Words longer than a full line are broken character-wise
// with a trailing hyphen so a single long identifier cannot overflow a
// card. A degenerate maxWidth returns the text as a single line.
func (s *Shaper) Wrap(str string, size float64, weight Weight, maxWidth float64) []string {
	if maxWidth < 10 {
		return []string{str}
	}

	var lines []string
	var current string

	flush := func() {
		if current != "" {
			lines = append(lines, current)
			current = ""
		}
	}

	for _, word := range strings.Fields(str) {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if s.Width(candidate, size, weight) <= maxWidth {
			current = candidate
			continue
		}

		flush()
		if s.Width(word, size, weight) <= maxWidth {
			current = word
			continue
		}

		// Word alone exceeds a full line: break it with hyphens.
		for _, part := range s.breakWord(word, size, weight, maxWidth) {
			lines = append(lines, part)
		}
		if n := len(lines); n > 0 {
			// Last fragment keeps accumulating with following words.
			current = lines[n-1]
			lines = lines[:n-1]
		}
	}
	flush()

	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}

// WrapCapped wraps str and truncates to at most maxLines, replacing the
// tail of the final kept line with an ellipsis when lines were dropped.
func (s *Shaper) WrapCapped(str string, size float64, weight Weight, maxWidth float64, maxLines int) []string {
	lines := s.Wrap(str, size, weight, maxWidth)
	if maxLines <= 0 || len(lines) <= maxLines {
		return lines
	}
	lines = lines[:maxLines]
	last := len(lines) - 1
	lines[last] = s.Truncate(lines[last]+"..", size, weight, maxWidth)
	return lines
}

// breakWord splits an overlong word into hyphenated fragments that each
// fit maxWidth. The final fragment carries no hyphen.
func (s *Shaper) breakWord(word string, size float64, weight Weight, maxWidth float64) []string {
	var parts []string
	var part string
	for _, r := range word {
		candidate := part + string(r) + "-"
		if s.Width(candidate, size, weight) > maxWidth && part != "" {
			parts = append(parts, part+"-")
			part = string(r)
			continue
		}
		part += string(r)
	}
	if part != "" {
		parts = append(parts, part)
	}
	if len(parts) == 0 {
		return []string{word}
	}
	return parts
}
