// Package players reconciles the backend's separate player lists into one row
// per name and runs the membership mutations behind the players view.
package players

import (
	"sort"

	"papermc/pkg/sdk"
)

// Sources is the last committed value of each list the view is built from.
type Sources struct {
	Whitelist []sdk.Player
	Banned    []sdk.Player
	Ops       []sdk.Player
	Online    []string
	Rejected  []sdk.RejectedPlayer
}

type UnifiedPlayer struct {
	Name           string `json:"name"`
	UUID           string `json:"uuid,omitempty"`
	Online         bool   `json:"online"`
	Whitelisted    bool   `json:"whitelisted"`
	Banned         bool   `json:"banned"`
	Op             bool   `json:"op"`
	Rejected       bool   `json:"rejected"`
	Reason         string `json:"reason,omitempty"`
	RejectionCount int    `json:"rejection_count,omitempty"`
}

// Merge builds the unified view from scratch. Names are case-sensitive keys and
// appear exactly once in the result.
func Merge(src Sources) []UnifiedPlayer {
	whitelist := indexPlayers(src.Whitelist)
	banned := indexPlayers(src.Banned)
	ops := indexPlayers(src.Ops)

	online := make(map[string]bool, len(src.Online))
	for _, name := range src.Online {
		online[name] = true
	}
	rejected := make(map[string]sdk.RejectedPlayer, len(src.Rejected))
	for _, r := range src.Rejected {
		if _, ok := rejected[r.Username]; !ok {
			rejected[r.Username] = r
		}
	}

	seen := make(map[string]bool)
	var names []string
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	for _, p := range src.Whitelist {
		add(p.Name)
	}
	for _, p := range src.Banned {
		add(p.Name)
	}
	for _, p := range src.Ops {
		add(p.Name)
	}
	for _, name := range src.Online {
		add(name)
	}
	for _, r := range src.Rejected {
		add(r.Username)
	}

	out := make([]UnifiedPlayer, 0, len(names))
	for _, name := range names {
		w, isWhitelisted := whitelist[name]
		b, isBanned := banned[name]
		o, isOp := ops[name]
		r, isRejected := rejected[name]

		u := UnifiedPlayer{
			Name:        name,
			Online:      online[name],
			Whitelisted: isWhitelisted,
			Banned:      isBanned,
			Op:          isOp,
			Rejected:    isRejected,
		}
		// The online set is names only, so it never contributes a uuid.
		u.UUID = firstNonEmpty(w.UUID, o.UUID, b.UUID)
		if isBanned {
			u.Reason = b.Reason
		}
		if isRejected {
			u.RejectionCount = r.Count
		}
		out = append(out, u)
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Online != b.Online {
			return a.Online
		}
		if a.Rejected != b.Rejected {
			return a.Rejected
		}
		return a.Name < b.Name
	})
	return out
}

func indexPlayers(list []sdk.Player) map[string]sdk.Player {
	m := make(map[string]sdk.Player, len(list))
	for _, p := range list {
		if _, ok := m[p.Name]; !ok {
			m[p.Name] = p
		}
	}
	return m
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
