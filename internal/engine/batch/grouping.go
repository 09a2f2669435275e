// internal/engine/batch/grouping.go
package batch

import (
	urlutil "github.com/law-makers/pdp/internal/utils/url"
)

// Group is the URLs of one host, in input order
type Group struct {
	Domain string
	URLs   []string
}

// GroupByDomain groups URLs by host so requests to one host run together and
// share connections. Groups keep the order in which hosts first appear.
func GroupByDomain(urls []string) []Group {
	var groups []Group
	index := make(map[string]int)

	for _, u := range urls {
		domain := urlutil.Host(u)
		if domain == "" {
			domain = "default"
		}

		i, ok := index[domain]
		if !ok {
			i = len(groups)
			index[domain] = i
			groups = append(groups, Group{Domain: domain})
		}
		groups[i].URLs = append(groups[i].URLs, u)
	}

	return groups
}
