package storage

import (
	"slices"

	"github.com/MrSnakeDoc/goodneighbor/internal/domain"
)

// Report lists references in the store that point nowhere. Deleting a
// homepage leaves its widgets behind, so orphans are expected over time.
type Report struct {
	Stats Stats

	// Homepages owned by a user that no longer exists.
	OrphanHomepages []domain.HomepageID
	// Widgets on a homepage that no longer exists.
	OrphanWidgets []domain.WidgetID
	// Users flagged as owning more than one default homepage.
	MultipleDefaults []domain.UserID
	// Users whose default homepage pointer targets a missing homepage.
	DanglingDefaults []domain.UserID
}

// Clean reports whether no inconsistency was found.
func (r Report) Clean() bool {
	return len(r.OrphanHomepages) == 0 &&
		len(r.OrphanWidgets) == 0 &&
		len(r.MultipleDefaults) == 0 &&
		len(r.DanglingDefaults) == 0
}

// Check scans the whole store. Results are sorted by id.
func (e *Engine) Check() (Report, error) {
	var r Report
	err := e.View(func(tx *Tx) error {
		users, homepages, widgets := tx.data.users, tx.data.homepages, tx.data.widgets
		r.Stats = Stats{Users: len(users), Homepages: len(homepages), Widgets: len(widgets)}

		defaults := make(map[domain.UserID]int)
		for id, h := range homepages {
			if _, ok := users[h.UserID]; !ok {
				r.OrphanHomepages = append(r.OrphanHomepages, id)
			}
			if h.IsDefault {
				defaults[h.UserID]++
			}
		}
		for id, w := range widgets {
			if _, ok := homepages[w.HomepageID]; !ok {
				r.OrphanWidgets = append(r.OrphanWidgets, id)
			}
		}
		for id, u := range users {
			if defaults[id] > 1 {
				r.MultipleDefaults = append(r.MultipleDefaults, id)
			}
			if u.DefaultHomepageID != nil {
				if _, ok := homepages[*u.DefaultHomepageID]; !ok {
					r.DanglingDefaults = append(r.DanglingDefaults, id)
				}
			}
		}
		return nil
	})
	if err != nil {
		return Report{}, err
	}

	slices.Sort(r.OrphanHomepages)
	slices.Sort(r.OrphanWidgets)
	slices.Sort(r.MultipleDefaults)
	slices.Sort(r.DanglingDefaults)
	return r, nil
}
