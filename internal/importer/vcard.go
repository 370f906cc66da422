package importer

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-vcard"

	"github.com/mph-llm-experiments/fika/internal/clock"
	"github.com/mph-llm-experiments/fika/internal/logger"
	"github.com/mph-llm-experiments/fika/internal/model"
)

const maxConsecutiveErrors = 64

// VCard reads every card in r as a cadence-mode draft. Cards that fail to
// decode or have no name are skipped; the count is returned.
func VCard(r io.Reader, now time.Time) ([]model.Contact, int, error) {
	dec := vcard.NewDecoder(r)
	var drafts []model.Contact
	skipped, failures := 0, 0

	for {
		card, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// the decoder resyncs line by line; a reader that keeps failing does not
			failures++
			if failures > maxConsecutiveErrors {
				return nil, skipped, fmt.Errorf("read vcard: %w", err)
			}
			logger.Warn("skipped vcard", "err", err)
			skipped++
			continue
		}
		failures = 0

		name := cardName(card)
		if name == "" {
			skipped++
			continue
		}

		c := model.NewContact(name, now)
		if bday := card.Value(vcard.FieldBirthday); bday != "" {
			if _, _, ok := clock.ParseBirthday(bday); ok {
				c.Birthday = bday
			} else {
				logger.Debug("ignored birthday", "name", name, "value", bday)
			}
		}
		c.Note = strings.TrimSpace(card.Value(vcard.FieldNote))
		for _, cat := range card.Categories() {
			cat = strings.ToLower(strings.TrimSpace(cat))
			if cat != "" && cat != "contact" {
				c.Tags = append(c.Tags, cat)
			}
		}
		drafts = append(drafts, c)
	}
	return drafts, skipped, nil
}

// cardName prefers FN, then the structured N.
func cardName(card vcard.Card) string {
	if fn := strings.TrimSpace(card.PreferredValue(vcard.FieldFormattedName)); fn != "" {
		return fn
	}
	if n := card.Name(); n != nil {
		parts := []string{n.HonorificPrefix, n.GivenName, n.AdditionalName, n.FamilyName, n.HonorificSuffix}
		var out []string
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return strings.Join(out, " ")
	}
	return ""
}
