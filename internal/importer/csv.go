package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mph-llm-experiments/fika/internal/logger"
	"github.com/mph-llm-experiments/fika/internal/model"
)

// CSV reads a header row followed by Name,Tier,LastLaugh rows as tier-mode
// drafts whose last interaction is now. Rows missing a name or tier are
// skipped.
func CSV(r io.Reader, tiers model.Tiers, now time.Time) ([]model.Contact, int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("read csv header: %w", err)
	}

	var drafts []model.Contact
	skipped := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, skipped, fmt.Errorf("read csv: %w", err)
		}

		name, tier, laugh := field(rec, 0), strings.ToLower(field(rec, 1)), field(rec, 2)
		if name == "" || tier == "" {
			skipped++
			continue
		}
		if _, ok := tiers.Lookup(model.TierID(tier)); !ok {
			logger.Warn("unknown tier in csv", "name", name, "tier", tier)
		}

		c := model.NewContact(name, now)
		c.SchedulingMode = model.ModeTier
		c.Tier = model.TierID(tier)
		c.LastInteractionAt = model.At(now)
		if laugh != "" {
			c.Hooks = &model.Hooks{LastLaugh: laugh}
		}
		drafts = append(drafts, c)
	}
	return drafts, skipped, nil
}

func field(rec []string, i int) string {
	if i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}
