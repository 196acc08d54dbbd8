package cart

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// SelectionInput is one choice group with the option ids picked from it.
type SelectionInput struct {
	GroupID   uuid.UUID
	OptionIDs []uuid.UUID
}

// ContentHash fingerprints a (menu item, selections, note) configuration.
// Identical configurations hash identically regardless of client-side
// ordering, so repeated add-to-cart requests collapse into one line.
func ContentHash(menuItemID uuid.UUID, selections []SelectionInput, note *string) string {
	groups := make(map[string][]string, len(selections))
	for _, sel := range selections {
		key := sel.GroupID.String()
		seen := map[string]struct{}{}
		for _, existing := range groups[key] {
			seen[existing] = struct{}{}
		}
		for _, opt := range sel.OptionIDs {
			id := opt.String()
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			groups[key] = append(groups[key], id)
		}
	}

	groupIDs := make([]string, 0, len(groups))
	for id := range groups {
		groupIDs = append(groupIDs, id)
	}
	sort.Strings(groupIDs)

	var b strings.Builder
	b.WriteString("item:")
	b.WriteString(menuItemID.String())
	for _, id := range groupIDs {
		options := groups[id]
		sort.Strings(options)
		b.WriteString("|group:")
		b.WriteString(id)
		b.WriteString("=")
		b.WriteString(strings.Join(options, ","))
	}
	b.WriteString("|note:")
	b.WriteString(normalizeNote(note))

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

func normalizeNote(note *string) string {
	if note == nil {
		return ""
	}
	return strings.TrimSpace(*note)
}
