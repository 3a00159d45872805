package sanitizer

import "strings"

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

func NormalizeTitle(title string) string {
	return TrimAndNormalize(title)
}

func NormalizeContact(contact string) string {
	return strings.TrimSpace(contact)
}

func NormalizeLocation(location string) string {
	return TrimAndNormalize(location)
}

// LocationKey is the form used to compare locations: "  Tel  Aviv " and
// "tel aviv" share a key.
func LocationKey(location string) string {
	p := Pipeline{
		TrimAndNormalize,
		strings.ToLower,
	}
	return p.Apply(location)
}

// NormalizeParticipants trims every entry and drops blank ones. Order and
// duplicates are preserved. A nil input stays nil.
func NormalizeParticipants(participants []string) []string {
	if participants == nil {
		return nil
	}

	out := make([]string, 0, len(participants))
	for _, p := range participants {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

func NormalizeMetadata(metadata map[string]string) map[string]string {
	if metadata == nil {
		return nil
	}

	out := make(map[string]string, len(metadata))
	for k, v := range metadata {
		k = TrimAndNormalize(k)
		if k == "" {
			continue
		}
		out[k] = strings.TrimSpace(v)
	}
	return out
}
