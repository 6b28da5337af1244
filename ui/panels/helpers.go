package panels

import (
	"fmt"
	"sort"
	"strings"

	"mockup-studio/internal/image"
	"mockup-studio/internal/mask"
	"mockup-studio/internal/printarea"
)

var sideLabels = []string{"Front", "Back"}

func sideLabel(s image.Side) string {
	if s == image.SideBack {
		return sideLabels[1]
	}
	return sideLabels[0]
}

func sideFromLabel(label string) image.Side {
	return image.ParseSide(label)
}

var modeLabels = []string{"Edge (flood from corners)", "Global (threshold)"}

func modeLabel(m mask.Mode) string {
	if m == mask.ModeGlobal {
		return modeLabels[1]
	}
	return modeLabels[0]
}

func modeFromLabel(label string) mask.Mode {
	if label == modeLabels[1] {
		return mask.ModeGlobal
	}
	return mask.ModeEdge
}

// formatSize renders the printed size readout.
func formatSize(w, h float64, ok bool) string {
	if !ok {
		return "Print size: n/a"
	}
	return fmt.Sprintf("Print size: %.1f x %.1f in", w, h)
}

func swatchLabel(s mask.ColorSample) string {
	return fmt.Sprintf("%s (%s)", strings.ToUpper(s.RGB.Hex()), s.Corners)
}

// blankChoice is one entry in the blank selector.
type blankChoice struct {
	label string
	file  string
}

// blankChoices lists the manifest's front blanks in natural label order.
// Duplicate labels get the file name appended.
func blankChoices(m *printarea.Manifest) []blankChoice {
	if m == nil {
		return nil
	}
	fronts := m.Fronts()
	seen := make(map[string]int, len(fronts))
	for _, b := range fronts {
		seen[b.DisplayName()]++
	}
	out := make([]blankChoice, 0, len(fronts))
	for _, b := range fronts {
		label := b.DisplayName()
		if seen[label] > 1 {
			label = fmt.Sprintf("%s [%s]", label, b.File)
		}
		out = append(out, blankChoice{label: label, file: b.File})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return naturalLess(out[i].label, out[j].label)
	})
	return out
}

func choiceLabels(choices []blankChoice) []string {
	labels := make([]string, len(choices))
	for i, c := range choices {
		labels[i] = c.label
	}
	return labels
}

// naturalLess compares two strings using natural numeric ordering.
// "Tee 2" < "Tee 10".
func naturalLess(a, b string) bool {
	chunksA := splitNatural(a)
	chunksB := splitNatural(b)
	for i := 0; i < len(chunksA) && i < len(chunksB); i++ {
		ca, cb := chunksA[i], chunksB[i]
		if isNumeric(ca) && isNumeric(cb) {
			na := parseNum(ca)
			nb := parseNum(cb)
			if na != nb {
				return na < nb
			}
		} else {
			cmp := strings.Compare(strings.ToUpper(ca), strings.ToUpper(cb))
			if cmp != 0 {
				return cmp < 0
			}
		}
	}
	return len(chunksA) < len(chunksB)
}

func splitNatural(s string) []string {
	var chunks []string
	var current strings.Builder
	wasDigit := false
	for i, r := range s {
		isDigit := r >= '0' && r <= '9'
		if i > 0 && isDigit != wasDigit {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		current.WriteRune(r)
		wasDigit = isDigit
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

func parseNum(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n = n*10 + int(r-'0')
		}
	}
	return n
}
