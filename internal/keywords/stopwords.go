package keywords

// stopwords combines English and French function words. The narration scripts
// this tool targets are predominantly in those two languages; other languages
// still benefit from the length filter.
var stopwords = map[string]struct{}{}

func init() {
	english := []string{
		"the", "a", "an", "is", "are", "was", "were", "be", "been",
		"have", "has", "had", "do", "does", "did", "will", "would",
		"could", "should", "may", "might", "must", "shall",
		"i", "you", "he", "she", "it", "we", "they", "me", "him",
		"her", "us", "them", "my", "your", "his", "its", "our", "their",
		"this", "that", "these", "those", "what", "which", "who",
		"in", "on", "at", "to", "for", "with", "from", "by", "about",
		"and", "or", "but", "not", "no", "so", "if", "then",
		"very", "just", "also", "how", "when", "where", "why",
	}
	french := []string{
		"le", "la", "les", "un", "une", "des", "de", "du", "au", "aux",
		"et", "ou", "mais", "donc", "car", "ni", "que", "qui", "quoi",
		"ce", "cette", "ces", "mon", "ma", "mes", "ton", "ta", "tes",
		"son", "sa", "ses", "notre", "votre", "leur", "leurs",
		"je", "tu", "il", "elle", "nous", "vous", "ils", "elles", "on",
		"ne", "pas", "plus", "jamais", "rien", "tout", "tous", "toute",
		"est", "sont", "être", "avoir", "fait", "faire", "dit", "dire",
		"dans", "sur", "sous", "avec", "sans", "pour", "par", "entre",
		"très", "bien", "aussi", "comme", "même", "encore", "déjà",
		"ici", "là", "alors", "puis", "après", "avant", "quand",
		"comment", "pourquoi", "où", "si", "oui", "non",
	}
	for _, w := range english {
		stopwords[w] = struct{}{}
	}
	for _, w := range french {
		stopwords[w] = struct{}{}
	}
}

// IsStopword reports whether the lowercase token is in the built-in list.
func IsStopword(token string) bool {
	_, ok := stopwords[token]
	return ok
}
