package homepage

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/MrSnakeDoc/goodneighbor/internal/domain"
	"github.com/MrSnakeDoc/goodneighbor/internal/effect"
	"github.com/MrSnakeDoc/goodneighbor/internal/logger"
	"github.com/MrSnakeDoc/goodneighbor/internal/service"
	"github.com/MrSnakeDoc/goodneighbor/internal/validation"
)

// Result summarises one import run.
type Result struct {
	HomepageID domain.HomepageID
	Created    int
	// Skipped counts entries whose URL was already on the homepage or
	// appeared earlier in the same run.
	Skipped int
	// Invalid counts entries rejected by property validation.
	Invalid int
}

type Importer struct {
	services  *service.Services
	validator *validation.Validator
	logger    logger.Logger
}

func NewImporter(s *service.Services, v *validation.Validator, log logger.Logger) *Importer {
	return &Importer{services: s, validator: v, logger: log.Named("import")}
}

// Import appends entries as shortcut widgets to the default user's default
// homepage, sorted by group then name. Existing shortcuts are matched by URL.
func (im *Importer) Import(entries []Entry) (Result, error) {
	user, err := effect.Exec(im.services.Users.GetOrCreateDefault())
	if err != nil {
		return Result{}, err
	}
	hp, err := effect.Exec(im.services.Homepages.EnsureDefault(user.ID))
	if err != nil {
		return Result{}, err
	}
	existing, err := effect.Exec(im.services.Widgets.ListForHomepage(hp.ID))
	if err != nil {
		return Result{}, err
	}

	seen := make(map[string]bool, len(existing))
	for _, w := range existing {
		if u, ok := w.Properties["url"].(string); ok && w.Type == domain.WidgetShortcut {
			seen[u] = true
		}
	}

	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b Entry) int {
		return cmp.Or(cmp.Compare(a.Group, b.Group), cmp.Compare(a.Name, b.Name))
	})

	res := Result{HomepageID: hp.ID}
	for _, e := range sorted {
		if seen[e.URL] {
			res.Skipped++
			continue
		}
		props, err := im.validator.Properties(domain.WidgetShortcut, e.ShortcutProperties())
		if err != nil {
			im.logger.Warn("skipping invalid entry",
				logger.String("name", e.Name),
				logger.String("url", e.URL),
				logger.Error(err))
			res.Invalid++
			continue
		}
		if _, err := effect.Exec(im.services.Widgets.Create(hp.ID, domain.WidgetShortcut, props, nil)); err != nil {
			return res, fmt.Errorf("create shortcut %q: %w", e.Name, err)
		}
		seen[e.URL] = true
		res.Created++
	}

	im.logger.Info("import finished",
		logger.Stringer("homepage_id", hp.ID),
		logger.Int("created", res.Created),
		logger.Int("skipped", res.Skipped),
		logger.Int("invalid", res.Invalid))
	return res, nil
}
