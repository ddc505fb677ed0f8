package quiz

import (
	"math"
	"sort"

	"pet-adoption/internal/domain/pets"
)

const (
	DefaultMatchLimit = 5
	MaxMatchLimit     = 20
)

// MaxScore es la suma de los pesos positivos de las opciones elegidas.
func MaxScore(selected []Option) int {
	total := 0
	for _, o := range selected {
		for _, w := range o.Weights {
			if w > 0 {
				total += w
			}
		}
	}
	return total
}

// ScorePet suma los pesos de cada opción elegida cuyo tag tiene la mascota.
func ScorePet(p pets.Pet, selected []Option) int {
	tags := pets.Tags(p)
	score := 0
	for _, o := range selected {
		for tag, w := range o.Weights {
			if _, ok := tags[tag]; ok {
				score += w
			}
		}
	}
	return score
}

func Percent(score, maxScore int) int {
	if maxScore <= 0 {
		return 0
	}
	pct := int(math.Round(float64(score) * 100 / float64(maxScore)))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// Rank puntúa solo mascotas available, descarta score <= 0 y ordena por
// score desc, nombre asc, id asc. Es determinístico para la misma entrada.
func Rank(candidates []pets.Pet, selected []Option, limit int) []Match {
	if limit <= 0 {
		limit = DefaultMatchLimit
	}
	if limit > MaxMatchLimit {
		limit = MaxMatchLimit
	}

	ceiling := MaxScore(selected)
	out := make([]Match, 0, len(candidates))
	for _, p := range candidates {
		if p.Status != pets.StatusAvailable {
			continue
		}
		score := ScorePet(p, selected)
		if score <= 0 {
			continue
		}
		out = append(out, Match{
			PetID:    p.ID,
			PetName:  p.Name,
			Species:  string(p.Species),
			ImageURL: p.ImageURL,
			Score:    score,
			Percent:  Percent(score, ceiling),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		if out[i].PetName != out[j].PetName {
			return out[i].PetName < out[j].PetName
		}
		return out[i].PetID < out[j].PetID
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
