// Package importer turns address-book exports into draft contacts. Drafts
// carry no id; the store assigns one on create.
package importer

import (
	"context"
	"fmt"

	"github.com/mph-llm-experiments/fika/internal/model"
)

// Creator is the part of the roster an import needs.
type Creator interface {
	Add(ctx context.Context, draft model.Contact) (model.Contact, error)
}

// Result summarizes an import.
type Result struct {
	Created []model.Contact `json:"created"`
	Skipped int             `json:"skipped"`
}

// Save creates each draft in order and stops at the first failure.
func Save(ctx context.Context, dst Creator, drafts []model.Contact) (Result, error) {
	var res Result
	for _, d := range drafts {
		c, err := dst.Add(ctx, d)
		if err != nil {
			return res, fmt.Errorf("import %q: %w", d.Name, err)
		}
		res.Created = append(res.Created, c)
	}
	return res, nil
}
