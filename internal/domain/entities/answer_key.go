package entities

// AnswerKey maps rendered question ids to the letter of their correct option.
// It is built once per quiz and never changes afterwards.
type AnswerKey struct {
	ids     []string
	letters map[string]string
}

// NewAnswerKey builds a key from id/letter pairs in question order.
// Later duplicates of an id are ignored.
func NewAnswerKey(pairs ...[2]string) AnswerKey {
	k := AnswerKey{
		ids:     make([]string, 0, len(pairs)),
		letters: make(map[string]string, len(pairs)),
	}
	for _, p := range pairs {
		if _, ok := k.letters[p[0]]; ok {
			continue
		}
		k.ids = append(k.ids, p[0])
		k.letters[p[0]] = p[1]
	}
	return k
}

// Lookup returns the correct letter for a question id.
func (k AnswerKey) Lookup(id string) (string, bool) {
	letter, ok := k.letters[id]
	return letter, ok
}

// Len returns the number of entries.
func (k AnswerKey) Len() int {
	return len(k.ids)
}

// IDs returns the question ids in insertion order.
func (k AnswerKey) IDs() []string {
	out := make([]string, len(k.ids))
	copy(out, k.ids)
	return out
}

// Map returns a copy of the key as a plain map, e.g. for embedding in a page.
func (k AnswerKey) Map() map[string]string {
	out := make(map[string]string, len(k.letters))
	for id, letter := range k.letters {
		out[id] = letter
	}
	return out
}
