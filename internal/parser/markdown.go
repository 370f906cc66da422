package parser

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/mph-llm-experiments/acore"
	"gopkg.in/yaml.v3"

	"github.com/mph-llm-experiments/fika/internal/model"
)

const interactionLogHeader = "## Interaction Log"

// ParseContactFile parses a markdown contact file with YAML frontmatter
func ParseContactFile(path string) (model.Contact, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return model.Contact{}, fmt.Errorf("error reading file: %w", err)
	}

	frontmatter, body, ok := splitFrontmatter(content)
	if !ok {
		return model.Contact{}, fmt.Errorf("invalid file format: no frontmatter found")
	}

	var contact model.Contact
	if err := yaml.Unmarshal(frontmatter, &contact); err != nil {
		return model.Contact{}, fmt.Errorf("error parsing frontmatter: %w", err)
	}

	if !containsTag(contact.Tags, "contact") {
		return model.Contact{}, fmt.Errorf("not a contact file: missing 'contact' tag")
	}

	contact.FilePath = path
	contact.Content = string(body)

	// Files written by hand may lack an id; fall back to the filename stem
	if contact.ID == "" {
		basename := strings.TrimSuffix(filepath.Base(path), ".md")
		if idx := strings.Index(basename, "--"); idx >= 0 {
			contact.ID = basename[:idx]
		} else {
			contact.ID = basename
		}
	}

	contact.EnsureSlices()
	return contact, nil
}

// splitFrontmatter separates the YAML block from the body. The block opens
// with "---" on the first line and closes at the next line that is exactly
// "---"; indented "---" lines inside block scalars belong to the YAML.
func splitFrontmatter(content []byte) (frontmatter, body []byte, ok bool) {
	const delim = "---\n"
	if !bytes.HasPrefix(content, []byte(delim)) {
		return nil, nil, false
	}
	rest := content[len(delim):]
	if bytes.HasPrefix(rest, []byte(delim)) {
		return nil, rest[len(delim):], true
	}
	if idx := bytes.Index(rest, []byte("\n"+delim)); idx >= 0 {
		return rest[:idx+1], rest[idx+1+len(delim):], true
	}
	if bytes.HasSuffix(rest, []byte("\n---")) {
		return rest[:len(rest)-len("---")], nil, true
	}
	return nil, nil, false
}

// SaveContactFile writes a contact to its file, creating the name from the
// contact's id and title when the contact has no path yet.
func SaveContactFile(dir string, contact *model.Contact) error {
	if contact.FilePath == "" {
		contact.FilePath = GenerateFilePath(dir, *contact)
	}

	frontmatter, err := yaml.Marshal(contact)
	if err != nil {
		return fmt.Errorf("error marshaling frontmatter: %w", err)
	}

	var content bytes.Buffer
	content.WriteString("---\n")
	content.Write(frontmatter)
	content.WriteString("---\n")
	content.WriteString(contact.Content)

	tmp := contact.FilePath + ".tmp"
	if err := os.WriteFile(tmp, content.Bytes(), 0644); err != nil {
		return fmt.Errorf("error writing file: %w", err)
	}
	if err := os.Rename(tmp, contact.FilePath); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("error replacing file: %w", err)
	}
	return nil
}

// GenerateFilePath returns the path for a new contact file in dir
func GenerateFilePath(dir string, contact model.Contact) string {
	if contact.ID == "" {
		contact.ID = acore.NewID()
	}
	name := acore.BuildFilename(contact.ID, contact.Name, "contact")
	if !strings.HasSuffix(name, ".md") {
		name += ".md"
	}
	return filepath.Join(dir, name)
}

// FindContacts loads all contact files from a directory in file order.
// Files that are not contact files, or cannot be parsed, are skipped.
func FindContacts(dir string) ([]model.Contact, error) {
	contacts := []model.Contact{}

	if info, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("contacts directory '%s' does not exist", dir)
		}
		return nil, fmt.Errorf("cannot access contacts directory '%s': %w", dir, err)
	} else if !info.IsDir() {
		return nil, fmt.Errorf("contacts path '%s' is not a directory", dir)
	}

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() || !strings.HasSuffix(path, ".md") {
			return nil
		}

		contact, err := ParseContactFile(path)
		if err != nil {
			return nil
		}
		contacts = append(contacts, contact)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return contacts, nil
}

// FindContactByID finds a contact by index_id or id
func FindContactByID(contacts []model.Contact, id string) *model.Contact {
	for i, c := range contacts {
		if c.IndexID > 0 && fmt.Sprintf("%d", c.IndexID) == id {
			return &contacts[i]
		}
	}
	for i, c := range contacts {
		if c.ID == id {
			return &contacts[i]
		}
	}
	return nil
}

// FormatInteraction renders an interaction as a log entry line.
func FormatInteraction(in model.Interaction) string {
	entry := fmt.Sprintf("- **%s** (%s)", in.At.Format(time.RFC3339), in.Type)
	if in.Note != "" {
		entry += fmt.Sprintf(" - %s", in.Note)
	}
	return entry
}

// AppendInteractionLog adds a log entry to the content's Interaction Log section.
// If no "## Interaction Log" section exists, one is created.
// New entries are inserted at the top of the log (most recent first).
func AppendInteractionLog(content string, entry string) string {
	idx := strings.Index(content, interactionLogHeader)
	if idx >= 0 {
		afterHeader := idx + len(interactionLogHeader)
		rest := content[afterHeader:]
		insertPos := afterHeader
		for i, ch := range rest {
			if ch == '\n' {
				insertPos = afterHeader + i + 1
			} else {
				break
			}
		}
		return content[:insertPos] + entry + "\n" + content[insertPos:]
	}

	trimmed := strings.TrimRight(content, "\n")
	if trimmed == "" {
		return "\n" + interactionLogHeader + "\n\n" + entry + "\n"
	}
	return trimmed + "\n\n" + interactionLogHeader + "\n\n" + entry + "\n"
}

var logEntryRe = regexp.MustCompile(`^- \*\*([^*]+)\*\* \(([^)]+)\)(?: - (.*))?$`)

// ParseInteractionLog reads the entries of the Interaction Log section,
// most recent first. Lines that do not look like entries are ignored.
func ParseInteractionLog(contactID, content string) []model.Interaction {
	idx := strings.Index(content, interactionLogHeader)
	if idx < 0 {
		return nil
	}

	var out []model.Interaction
	sc := bufio.NewScanner(strings.NewReader(content[idx+len(interactionLogHeader):]))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if strings.HasPrefix(line, "## ") {
			break
		}
		m := logEntryRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		out = append(out, model.Interaction{
			ContactID: contactID,
			At:        model.ParseTimestampString(m[1]),
			Type:      model.InteractionType(m[2]),
			Note:      m[3],
		})
	}
	return out
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
