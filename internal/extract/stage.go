package extract

import "interview-engine/internal/domain"

// Stage returns the first stage whose cues occur in text.
func (x *Extractor) Stage(text string) domain.Stage {
	for _, r := range x.lex.Stages {
		if r.Cues.Any(text) {
			return r.Stage
		}
	}
	return domain.StageUnclassified
}
