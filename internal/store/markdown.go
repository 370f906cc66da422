package store

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/mph-llm-experiments/acore"

	"github.com/mph-llm-experiments/fika/internal/model"
	"github.com/mph-llm-experiments/fika/internal/parser"
)

// Markdown keeps one markdown file per contact in a directory. Interactions
// live in each file's Interaction Log section.
type Markdown struct {
	dir     string
	counter *parser.IDCounter

	mu sync.Mutex
}

// OpenMarkdown opens the contacts directory, which must already exist.
func OpenMarkdown(dir string) (*Markdown, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("contacts directory '%s' does not exist", dir)
		}
		return nil, fmt.Errorf("cannot access contacts directory '%s': %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("contacts path '%s' is not a directory", dir)
	}

	counter, err := parser.LoadIDCounter(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to get ID counter: %w", err)
	}
	return &Markdown{dir: dir, counter: counter}, nil
}

// Dir returns the contacts directory.
func (s *Markdown) Dir() string {
	return s.dir
}

// List returns every contact in index id order, assigning index ids to files
// that lack one.
func (s *Markdown) List(ctx context.Context) ([]model.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	contacts, err := parser.FindContacts(s.dir)
	if err != nil {
		return nil, err
	}

	for i := range contacts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if contacts[i].IndexID != 0 {
			continue
		}
		id, err := s.counter.NextID()
		if err != nil {
			return nil, fmt.Errorf("failed to assign index_id: %w", err)
		}
		contacts[i].IndexID = id
		if err := parser.SaveContactFile(s.dir, &contacts[i]); err != nil {
			return nil, fmt.Errorf("failed to save index_id for %s: %w", contacts[i].Name, err)
		}
	}
	sort.SliceStable(contacts, func(i, j int) bool {
		return contacts[i].IndexID < contacts[j].IndexID
	})
	return contacts, nil
}

func (s *Markdown) Create(ctx context.Context, c model.Contact) (model.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID == "" {
		c.ID = acore.NewID()
	}
	id, err := s.counter.NextID()
	if err != nil {
		return model.Contact{}, fmt.Errorf("failed to get next ID: %w", err)
	}
	c.IndexID = id
	c.FilePath = ""

	if err := parser.SaveContactFile(s.dir, &c); err != nil {
		return model.Contact{}, fmt.Errorf("failed to create contact: %w", err)
	}
	return c, nil
}

// Update rewrites the contact's frontmatter. The body of the file on disk
// is kept, so interactions logged concurrently are not lost.
func (s *Markdown) Update(ctx context.Context, id string, c model.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.find(id)
	if err != nil {
		return err
	}
	c.ID = existing.ID
	c.IndexID = existing.IndexID
	c.FilePath = existing.FilePath
	c.Content = existing.Content
	return parser.SaveContactFile(s.dir, &c)
}

func (s *Markdown) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.find(id)
	if err != nil {
		return err
	}
	if err := os.Remove(existing.FilePath); err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	return nil
}

func (s *Markdown) LogInteraction(ctx context.Context, in model.Interaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.find(in.ContactID)
	if err != nil {
		return err
	}
	c.LastContactedAt = in.At
	c.LastInteractionAt = in.At
	c.UpdatedAt = in.At
	c.Content = parser.AppendInteractionLog(c.Content, parser.FormatInteraction(in))
	if err := parser.SaveContactFile(s.dir, c); err != nil {
		return fmt.Errorf("failed to log interaction: %w", err)
	}
	return nil
}

func (s *Markdown) Interactions(ctx context.Context, contactID string) ([]model.Interaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.find(contactID)
	if err != nil {
		return nil, err
	}
	return parser.ParseInteractionLog(c.ID, c.Content), nil
}

func (s *Markdown) Close() error {
	return nil
}

func (s *Markdown) find(id string) (*model.Contact, error) {
	contacts, err := parser.FindContacts(s.dir)
	if err != nil {
		return nil, err
	}
	for i := range contacts {
		if contacts[i].ID == id {
			return &contacts[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}
