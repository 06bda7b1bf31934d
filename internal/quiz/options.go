package quiz

import (
	"math/rand/v2"
	"strings"

	"github.com/mastermind6482/WordWise/pkg/models"
)

// OptionCount is the size of a full option set
const OptionCount = 4

// BuildOptions returns the answer options for current: its target text plus up to
// three distractors drawn from the other words of the batch, shuffled. Texts that
// differ only in case or surrounding space count as one. A small batch yields
// fewer options, never fewer than one.
func BuildOptions(current models.Word, batch []models.Word) []string {
	seen := map[string]bool{optionKey(current.TargetText): true}
	candidates := make([]string, 0, len(batch))
	for _, w := range batch {
		key := optionKey(w.TargetText)
		if w.ID == current.ID || seen[key] {
			continue
		}
		seen[key] = true
		candidates = append(candidates, w.TargetText)
	}

	rand.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	if len(candidates) > OptionCount-1 {
		candidates = candidates[:OptionCount-1]
	}

	options := append(candidates, current.TargetText)
	rand.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return options
}

func optionKey(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// CorrectWords returns the words of a session that are not among incorrect,
// compared by id
func CorrectWords(words, incorrect []models.Word) []models.Word {
	wrong := make(map[string]bool, len(incorrect))
	for _, w := range incorrect {
		wrong[w.ID] = true
	}

	correct := make([]models.Word, 0, len(words))
	for _, w := range words {
		if !wrong[w.ID] {
			correct = append(correct, w)
		}
	}
	return correct
}
