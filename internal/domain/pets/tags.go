package pets

// AgeGroup agrupa la edad en meses en las categorías que usa el quiz.
func AgeGroup(months int) string {
	switch {
	case months < 12:
		return "baby"
	case months < 36:
		return "young"
	case months < 96:
		return "adult"
	default:
		return "senior"
	}
}

// Tags expone los atributos categóricos de la mascota ("species:dog", "good_with_kids", ...).
// El quiz suma pesos sobre estos tags.
func Tags(p Pet) map[string]struct{} {
	out := map[string]struct{}{
		"species:" + string(p.Species):    {},
		"size:" + string(p.Size):          {},
		"energy:" + string(p.EnergyLevel): {},
		"sex:" + string(p.Sex):            {},
		"age:" + AgeGroup(p.AgeMonths):    {},
	}
	if p.GoodWithKids {
		out["good_with_kids"] = struct{}{}
	}
	if p.GoodWithPets {
		out["good_with_pets"] = struct{}{}
	}
	return out
}

// KnownTag valida tags usados en los pesos de las opciones del quiz.
func KnownTag(tag string) bool {
	switch tag {
	case "good_with_kids", "good_with_pets":
		return true
	}

	for _, prefix := range []string{"species:", "size:", "energy:", "sex:", "age:"} {
		if len(tag) <= len(prefix) || tag[:len(prefix)] != prefix {
			continue
		}
		v := tag[len(prefix):]
		switch prefix {
		case "species:":
			return Species(v).Valid()
		case "size:":
			return Size(v).Valid()
		case "energy:":
			return EnergyLevel(v).Valid()
		case "sex:":
			return Sex(v).Valid()
		case "age:":
			return v == "baby" || v == "young" || v == "adult" || v == "senior"
		}
	}
	return false
}
