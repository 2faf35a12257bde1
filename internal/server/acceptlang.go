package server

import (
	"sort"
	"strconv"
	"strings"
)

// maxAcceptLanguageLength caps header parsing. RFC 7231 sets no limit, but
// 4KB is generous for legitimate headers while bounding malicious ones.
const maxAcceptLanguageLength = 4096

// acceptCandidates extracts language tags from an Accept-Language header in
// descending quality order. Entries with q=0 are excluded per RFC 7231 ("not
// acceptable"). Wildcards are dropped: the worker has no notion of a default
// language, so "*" carries no information here.
//
// Parsing is deliberately done with string ops rather than
// x/text/language.ParseAcceptLanguage: that parser canonicalizes tags to
// their shortest ISO 639 form (sme becomes se), which would break exact
// matching against registries keyed by three-letter codes.
func acceptCandidates(header string) []string {
	if len(header) > maxAcceptLanguageLength {
		header = header[:maxAcceptLanguageLength]
	}

	type candidate struct {
		tag  string
		q    float64
		rank int
	}
	var candidates []candidate

	for rank, part := range strings.Split(header, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		tag, params, _ := strings.Cut(part, ";")
		tag = strings.TrimSpace(tag)
		if tag == "" || tag == "*" {
			continue
		}

		q := 1.0
		for _, param := range strings.Split(params, ";") {
			param = strings.TrimSpace(param)
			if value, ok := strings.CutPrefix(param, "q="); ok {
				if parsed, err := strconv.ParseFloat(value, 64); err == nil && parsed >= 0 && parsed <= 1 {
					q = parsed
				}
				break
			}
		}
		if q == 0 {
			continue
		}
		candidates = append(candidates, candidate{tag: tag, q: q, rank: rank})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].q != candidates[j].q {
			return candidates[i].q > candidates[j].q
		}
		return candidates[i].rank < candidates[j].rank
	})

	if len(candidates) == 0 {
		return nil
	}
	tags := make([]string, 0, len(candidates))
	for _, c := range candidates {
		tags = append(tags, c.tag)
	}
	return tags
}
